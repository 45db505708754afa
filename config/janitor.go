package config

type Janitor struct {
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// cron 表達式（含秒）
	Spec string `mapstructure:"SPEC" json:"spec" yaml:"spec"`
	// 超過多少分鐘的暫存檔視為孤兒
	MaxAgeMinutes int `mapstructure:"MAX_AGE_MINUTES" json:"max_age_minutes" yaml:"max_age_minutes"`
}
