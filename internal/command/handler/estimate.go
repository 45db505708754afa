package command

import (
	"fmt"

	cErr "handwriting/internal/pkg/error"
	"handwriting/internal/service/cost"

	"github.com/spf13/cobra"
)

type EstimateHandler struct {
	rates cost.Rates
}

func NewEstimateHandler(rates cost.Rates) *EstimateHandler {
	return &EstimateHandler{rates: rates}
}

// Estimate 依設定的費率試算 token 費用
func (handler *EstimateHandler) Estimate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	prompt, _ := flags.GetInt("prompt")
	completion, _ := flags.GetInt("completion")
	image, _ := flags.GetInt("image")
	if prompt < 0 || completion < 0 || image < 0 {
		return cErr.ValidateErr("token counts must not be negative")
	}

	usd := handler.rates.Estimate(cost.Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		ImageTokens:      image,
	})
	_, err := fmt.Fprintln(cmd.OutOrStdout(), cost.FormatUSD(usd))
	return err
}
