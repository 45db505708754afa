package config

type Configuration struct {
	App       App             `mapstructure:"APP" json:"app" yaml:"app"`
	Log       Log             `mapstructure:"LOG" json:"log" yaml:"log"`
	OpenAI    OpenAI          `mapstructure:"OPENAI" json:"openai" yaml:"openai"`
	Upload    Upload          `mapstructure:"UPLOAD" json:"upload" yaml:"upload"`
	Pricing   Pricing         `mapstructure:"PRICING" json:"pricing" yaml:"pricing"`
	Janitor   Janitor         `mapstructure:"JANITOR" json:"janitor" yaml:"janitor"`
	Telemetry TelemetryConfig `mapstructure:"TELEMETRY" yaml:"telemetry"`
	Fluentd   Fluentd         `mapstructure:"FLUENTD" yaml:"fluentd"`
}
