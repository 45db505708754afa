package config

// Pricing 每 1000 tokens 的美元單價
type Pricing struct {
	PromptPer1K     float64 `mapstructure:"PROMPT_PER_1K" json:"prompt_per_1k" yaml:"prompt_per_1k"`
	CompletionPer1K float64 `mapstructure:"COMPLETION_PER_1K" json:"completion_per_1k" yaml:"completion_per_1k"`
	ImagePer1K      float64 `mapstructure:"IMAGE_PER_1K" json:"image_per_1k" yaml:"image_per_1k"`
}
