// Package cli implements the mealprep commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mealprep-planner/internal/app"
	"mealprep-planner/internal/config"
	"mealprep-planner/internal/database"
	"mealprep-planner/internal/suggest"
)

var (
	constraintsPath string
	noArchive       bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mealprep",
	Short: "Weekly meal plan generator",
	Long:  "Builds a weekly meal plan from a recipe collection, a household profile and a constraint document.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&constraintsPath, "constraints", "c", "", "Constraint document (default: $MEALPREP_CONSTRAINTS or constraints.yaml)")
	RootCmd.PersistentFlags().BoolVar(&noArchive, "no-archive", false, "Do not open the SQLite archive")
}

// env is everything a command needs; close releases it.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
	close  func()
}

func setup(ctx context.Context, withSuggestions bool) (*env, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if constraintsPath != "" {
		cfg.ConstraintsPath = constraintsPath
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	closers := []func() error{}
	var opts []app.Option
	if !noArchive {
		db, err := database.NewDB(cfg.DatabasePath, logger)
		if err != nil {
			logger.Warn("archive disabled", zap.String("path", cfg.DatabasePath), zap.Error(err))
		} else {
			opts = append(opts, app.WithDatabase(db))
			closers = append(closers, db.Close)
		}
	}

	capability := suggest.Unavailable("disabled")
	if withSuggestions {
		var release func() error
		capability, release = suggest.FromConfig(ctx, cfg)
		closers = append(closers, release)
		if !suggest.IsAvailable(capability) {
			logger.Info("suggestions unavailable, using fallback selection")
		}
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		app:    app.NewApp(cfg, logger, capability, opts...),
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				if err := closers[i](); err != nil {
					logger.Warn("failed to release resource", zap.Error(err))
				}
			}
			_ = logger.Sync()
		},
	}, nil
}

// newLogger builds a console logger at the given level; "debug" selects the
// development configuration.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("MEALPREP_LOG_LEVEL environment variable is invalid: %w", err)
	}

	zc := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
