package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/smart-medicine-box/internal/middleware"
	"github.com/iliyamo/smart-medicine-box/internal/model"
	"github.com/iliyamo/smart-medicine-box/internal/predictor"
	"github.com/iliyamo/smart-medicine-box/internal/queue"
	"github.com/iliyamo/smart-medicine-box/internal/registry"
	"github.com/iliyamo/smart-medicine-box/internal/service"
	"github.com/iliyamo/smart-medicine-box/internal/utils"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load all six model artifacts and report per-file status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, period := range model.TimePeriods() {
				for _, kind := range []registry.Kind{registry.KindClassifier, registry.KindRegressor} {
					path := registry.ArtifactPath(a.cfg.ModelDir, period, kind)
					p, err := predictor.Load(path)
					status := "ok"
					if err != nil {
						status = err.Error()
						failed++
					}
					fmt.Fprintf(out, "%-9s %s  %s  %-24s %s\n", period, kind, path, describe(p), status)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d artifact(s) failed to load", failed)
			}
			return nil
		},
	}
}

// describe summarises a loaded predictor for the check listing.
func describe(p predictor.Predictor) string {
	switch m := p.(type) {
	case *predictor.DecisionTree:
		return fmt.Sprintf("%s (%d nodes)", predictor.TypeDecisionTree, len(m.Nodes()))
	case *predictor.RegressionTree:
		return fmt.Sprintf("%s (%d nodes)", predictor.TypeRegressionTree, len(m.Nodes()))
	case *predictor.LinearModel:
		return predictor.TypeLinear
	case *predictor.LogisticModel:
		return predictor.TypeLogistic
	default:
		return "-"
	}
}

func newPredictCmd(a *app) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run one prediction offline from a JSON payload (file or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			reg, err := registry.Load(a.cfg.ModelDir)
			if err != nil {
				return err
			}
			res, err := service.New(reg, nil, a.log).Handle(cmd.Context(), body, service.Meta{RequestID: "modelctl"})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "payload file, - for stdin")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	var role string
	var ttl int
	cmd := &cobra.Command{
		Use:   "token <device-id>",
		Short: "Mint a device token for POST /predict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl <= 0 {
				ttl = a.cfg.Auth.DeviceTokenTTLMin
			}
			tok, err := utils.NewDeviceToken(a.cfg.Auth.DeviceJWTSecret, args[0], role, ttl)
			if err != nil {
				return fmt.Errorf("mint token (is DEVICE_JWT_SECRET set?): %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", tok.Exp.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", middleware.RoleDevice, "token role (DEVICE or CAREGIVER)")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "lifetime in minutes (default from DEVICE_TOKEN_TTL_MIN)")
	return cmd
}

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Tail prediction events from RabbitMQ until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := queue.Consume(ctx, a.cfg.Events.URL, a.cfg.Events.Queue, a.log, func(ev queue.PredictionServedEvent) error {
				a.log.Info("prediction served",
					zap.String("event_id", ev.EventID),
					zap.String("device_id", ev.DeviceID),
					zap.String("time_period", ev.TimePeriod),
					zap.Bool("will_take_medicine", ev.WillTakeMedicine),
					zap.String("predicted_time", ev.PredictedTimeFormatted),
					zap.String("served_at", ev.ServedAt))
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
