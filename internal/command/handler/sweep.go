package command

import (
	"fmt"

	"handwriting/internal/service/janitor"

	"github.com/spf13/cobra"
)

type SweepHandler struct {
	janitor *janitor.Janitor
}

func NewSweepHandler(janitor *janitor.Janitor) *SweepHandler {
	return &SweepHandler{janitor: janitor}
}

func (handler *SweepHandler) Sweep(cmd *cobra.Command, args []string) error {
	removed, err := handler.janitor.Sweep(cmd.Context())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d orphan file(s)\n", removed)
	return err
}
