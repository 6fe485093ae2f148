// Command modelctl is the operator tool for the prediction service: it
// checks model artifacts, runs offline predictions, mints device tokens
// and tails prediction events.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/smart-medicine-box/internal/config"
	"github.com/iliyamo/smart-medicine-box/internal/logger"
)

type app struct {
	cfg config.Config
	log *zap.Logger
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "modelctl",
		Short:         "Operate the Smart Medicine Box prediction service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir, _ := cmd.Flags().GetString("model-dir"); dir != "" {
				cfg.ModelDir = dir
			}
			zl, err := logger.New(logger.Options{Level: cfg.LogLevel, Env: cfg.Env, File: cfg.LogFile})
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, zl
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().String("model-dir", "", "directory holding model artifacts (default from MODEL_DIR)")

	root.AddCommand(
		newCheckCmd(a),
		newPredictCmd(a),
		newTokenCmd(a),
		newEventsCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
