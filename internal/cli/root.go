// Package cli implements the alerts-stack command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/guardian/uk-coronavirus-data-alerts/internal/config"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/logging"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/service"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/storage/memory"
	sqlstore "github.com/guardian/uk-coronavirus-data-alerts/internal/storage/sql"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/synth"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg      *config.Config
	cfgErr   error
	stage    string
	variants []string
	logLevel string
	stdout   io.Writer
	logger   *zap.Logger
}

// NewRootCommand returns the root command writing to the process streams.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithIO(os.Stdout, os.Stderr)
}

// NewRootCommandWithIO returns the root command writing to out and errOut.
func NewRootCommandWithIO(out, errOut io.Writer) *cobra.Command {
	cfg, cfgErr := config.Load()
	a := &app{
		cfg:    cfg,
		cfgErr: cfgErr,
		stdout: out,
		logger: zap.NewNop(),
	}

	cmd := &cobra.Command{
		Use:   "alerts-stack",
		Short: "Generate the UK coronavirus data alerts deployment stack",
		Long: `alerts-stack renders the CloudFormation template for the scheduled UK
coronavirus data alerts jobs, one isolated chain per recipient variant.

Settings come from the environment (STAGE, VARIANTS, OUTPUT_DIR, ...);
flags override the most common ones.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&a.stage, "stage", "", "deployment stage (CODE or PROD); overrides STAGE")
	cmd.PersistentFlags().StringSliceVar(&a.variants, "variants", nil, "variant tags to generate; overrides VARIANTS")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level; overrides LOG_LEVEL")

	cmd.AddCommand(
		newSynthCmd(a),
		newVersionsCmd(a),
		newRestoreCmd(a),
		newServeCmd(a),
	)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.setup()
	}

	return cmd
}

// setup applies flag overrides, validates the configuration and builds the logger.
func (a *app) setup() error {
	if a.cfgErr != nil {
		return fmt.Errorf("loading configuration: %w", a.cfgErr)
	}
	if a.stage != "" {
		a.cfg.Stack.Stage = a.stage
	}
	if len(a.variants) > 0 {
		a.cfg.Stack.Variants = a.variants
	}
	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(a.cfg.Log.Level, a.cfg.Log.Format)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// openService wires the synthesizer, history store and service together.
// The returned function closes the store.
func (a *app) openService() (*service.SynthService, func(), error) {
	s, err := synth.New(a.cfg.Settings())
	if err != nil {
		return nil, nil, err
	}

	store, err := a.openStore()
	if err != nil {
		return nil, nil, err
	}

	closeStore := func() {
		if err := store.Close(); err != nil {
			a.logger.Warn("closing history store", zap.Error(err))
		}
		_ = a.logger.Sync()
	}
	return service.NewSynthService(s, store, a.logger), closeStore, nil
}

func (a *app) openStore() (storage.Storage, error) {
	db := a.cfg.Database
	if db.UseMemoryStore() {
		return memory.New(), nil
	}

	// Create data directory if needed (for SQLite)
	if db.Driver == "sqlite3" {
		if dir := filepath.Dir(db.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	}

	store, err := sqlstore.New(db.Driver, db.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	a.logger.Debug("history store opened", zap.String("driver", db.Driver))
	return store, nil
}

func (a *app) selectedVariants() ([]domain.Variant, error) {
	return a.cfg.Variants()
}
