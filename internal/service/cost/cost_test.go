package cost

import (
	"testing"

	"handwriting/config"
)

func TestEstimate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		usage Usage
		want  string
	}{
		{name: "one thousand each", usage: Usage{PromptTokens: 1000, CompletionTokens: 1000, ImageTokens: 1000}, want: "0.002400"},
		{name: "zero usage", usage: Usage{}, want: "0.000000"},
		{name: "prompt only", usage: Usage{PromptTokens: 2000}, want: "0.000300"},
		{name: "negative clamps", usage: Usage{PromptTokens: -1000, CompletionTokens: 1000}, want: "0.000600"},
		{name: "image heavy", usage: Usage{ImageTokens: 36833}, want: "0.060774"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FormatUSD(DefaultRates().Estimate(tt.usage))
			if got != tt.want {
				t.Errorf("Estimate(%+v) = %s, want %s", tt.usage, got, tt.want)
			}
		})
	}
}

func TestNewRatesFromConfig(t *testing.T) {
	t.Parallel()

	conf := config.ApplyDefaults(nil)
	if NewRates(conf) != DefaultRates() {
		t.Errorf("config defaults %+v != DefaultRates %+v", NewRates(conf), DefaultRates())
	}

	custom := Rates{PromptPer1K: 1, CompletionPer1K: 2, ImagePer1K: 3}
	if got := custom.Estimate(Usage{PromptTokens: 1000, CompletionTokens: 500, ImageTokens: 0}); got != 2 {
		t.Errorf("custom estimate = %v, want 2", got)
	}
}

func TestFormatUSDNeverNegative(t *testing.T) {
	t.Parallel()

	if got := FormatUSD(-0.5); got != "0.000000" {
		t.Errorf("FormatUSD(-0.5) = %s", got)
	}
}

func TestFormatRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		original, compressed int64
		want                 string
	}{
		{100000, 25000, "0.250"},
		{3, 1, "0.333"},
		{1000, 1000, "1.000"},
		{0, 500, "0.000"},
	}
	for _, tt := range tests {
		if got := FormatRatio(tt.original, tt.compressed); got != tt.want {
			t.Errorf("FormatRatio(%d, %d) = %s, want %s", tt.original, tt.compressed, got, tt.want)
		}
	}
}
