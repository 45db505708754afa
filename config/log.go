package config

type Log struct {
	// debug / info / warn / error
	Level string `mapstructure:"LEVEL" json:"level" yaml:"level"`
	// 交易紀錄（openai_raw / process_info / full_response / error）輸出目錄
	ArtifactDir string `mapstructure:"ARTIFACT_DIR" json:"artifact_dir" yaml:"artifact_dir"`
}
