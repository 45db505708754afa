package command

import (
	commandHandler "handwriting/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewAnalyzeHandler,
	commandHandler.NewEstimateHandler,
	commandHandler.NewSweepHandler,
)

type Command struct {
	analyzeHandler  *commandHandler.AnalyzeHandler
	estimateHandler *commandHandler.EstimateHandler
	sweepHandler    *commandHandler.SweepHandler
}

// NewCommand .
func NewCommand(
	analyzeHandler *commandHandler.AnalyzeHandler,
	estimateHandler *commandHandler.EstimateHandler,
	sweepHandler *commandHandler.SweepHandler,
) *Command {
	return &Command{
		analyzeHandler:  analyzeHandler,
		estimateHandler: estimateHandler,
		sweepHandler:    sweepHandler,
	}
}

// Register 子命令在執行時才建立依賴，避免 help 也要讀設定
func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	run := func(fn func(*Command, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()
			return fn(command, cmd, args)
		}
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "run handwriting analysis on a local image and print the JSON summary",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
			return c.analyzeHandler.Analyze(cmd, args)
		}),
	}

	estimateCmd := &cobra.Command{
		Use:   "estimate",
		Short: "estimate USD cost for the given token counts",
		RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
			return c.estimateHandler.Estimate(cmd, args)
		}),
	}
	tokenFlags(estimateCmd.Flags())

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "remove orphaned temp files from the upload directory once",
		RunE: run(func(c *Command, cmd *cobra.Command, args []string) error {
			return c.sweepHandler.Sweep(cmd, args)
		}),
	}

	rootCmd.AddCommand(analyzeCmd, estimateCmd, sweepCmd)
}

func tokenFlags(fs *pflag.FlagSet) {
	fs.Int("prompt", 0, "prompt tokens")
	fs.Int("completion", 0, "completion tokens")
	fs.Int("image", 0, "image tokens")
}
