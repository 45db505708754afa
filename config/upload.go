package config

type Upload struct {
	// 暫存原圖與壓縮圖的目錄
	Dir string `mapstructure:"DIR" json:"dir" yaml:"dir"`
	// 壓縮後最大寬度（px），只縮不放
	MaxWidth int `mapstructure:"MAX_WIDTH" json:"max_width" yaml:"max_width"`
	// JPEG 品質 1-100
	JPEGQuality int `mapstructure:"JPEG_QUALITY" json:"jpeg_quality" yaml:"jpeg_quality"`
	// multipart 表單可放在記憶體的上限（bytes），超過寫入暫存檔
	MaxMemory int64 `mapstructure:"MAX_MEMORY" json:"max_memory" yaml:"max_memory"`
}
