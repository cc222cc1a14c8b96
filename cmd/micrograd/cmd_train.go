package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tektwister/ai_engineering/micrograd/internal/core"
	"github.com/tektwister/ai_engineering/micrograd/internal/logging"
	"github.com/tektwister/ai_engineering/micrograd/internal/metrics"
	"github.com/tektwister/ai_engineering/micrograd/pkg/config"
)

// trainOptions holds the flag values of one train invocation.
type trainOptions struct {
	configPath   string
	iterations   int
	learningRate float64
	seed         int64
}

func newTrainCmd() *cobra.Command {
	opts := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train an MLP on the configured dataset with gradient descent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file (default: $MICROGRAD_CONFIG or built-in example)")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "override training iterations")
	cmd.Flags().Float64Var(&opts.learningRate, "learning-rate", 0, "override learning rate")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "override weight-initialisation seed")
	return cmd
}

func runTrain(cmd *cobra.Command, opts *trainOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Training.Iterations = opts.iterations
	}
	if cmd.Flags().Changed("learning-rate") {
		cfg.Training.LearningRate = opts.learningRate
	}
	if cmd.Flags().Changed("seed") {
		cfg.Model.Seed = opts.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{
		Level:  level,
		Format: logging.Format(cfg.Logging.Format),
		Output: cmd.ErrOrStderr(),
	})

	trainer, err := core.CreateTrainer(cfg.Model.Inputs, cfg.Model.Layers, cfg.Model.Seed, cfg.TrainConfig())
	if err != nil {
		return err
	}
	trainer.SetLogger(logger)

	recorder := metrics.NewRecorder()
	trainer.SetMetricsRecorder(recorder)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           recorder.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("Serving metrics", "addr", cfg.Metrics.Addr)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds := cfg.DatasetForTraining()
	result, err := trainer.Train(ctx, ds)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Training interrupted")
		}
		return err
	}

	out := cmd.OutOrStdout()
	lines := []string{
		styles.Muted.Render("run " + result.RunID),
		row(styles.Label.Render("steps"), fmt.Sprint(result.Steps)),
		row(styles.Label.Render("initial loss"), formatFloat(result.InitialLoss)),
		row(styles.Label.Render("final loss"), formatFloat(result.FinalLoss)),
		"",
		row(styles.Label.Render("sample"), styles.Label.Render("target"), styles.Label.Render("prediction")),
	}
	for i, pred := range result.Predictions {
		target := ds.Targets[i]
		style := styles.Bad
		if (pred >= 0) == (target >= 0) {
			style = styles.Good
		}
		lines = append(lines, row(fmt.Sprint(i), formatFloat(target), style.Render(formatFloat(pred))))
	}
	printBox(out, "Training complete", lines)
	return nil
}
