package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/joho/godotenv"

	"github.com/vvka-141/retrygen/internal/config"
	"github.com/vvka-141/retrygen/internal/expander"
	"github.com/vvka-141/retrygen/internal/logging"
	"github.com/vvka-141/retrygen/internal/tui"
	"github.com/vvka-141/retrygen/pkg/retrygen"
)

// loadProjectConfig loads .env and the project configuration.
//
// The file is taken from --config, then $RETRYGEN_CONFIG, then
// ./retrygen.yaml. Only the implicit default may be absent, in which case
// the built-in defaults apply.
func loadProjectConfig(configPath string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if configPath == "" {
		configPath = os.Getenv(retrygen.ConfigEnvVar)
	}

	if configPath == "" {
		cfg, err := config.Load(".")
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", retrygen.ConfigFileName, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: %s does not exist", retrygen.ErrInvalidConfig, configPath)
		}
		return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
	}
	return cfg, nil
}

// expanderOptions maps the project configuration onto the expander.
func expanderOptions(cfg *config.ProjectConfig) expander.Options {
	return expander.Options{
		Directive:          cfg.Directive,
		DefaultRetries:     cfg.DefaultRetries,
		NamePrefix:         cfg.NamePrefix,
		Naming:             cfg.Naming,
		UnreachableMessage: cfg.UnreachableMessage,
	}
}

// concurrencyLimit picks the number of files processed at once.
func concurrencyLimit(flag int, cfg *config.ProjectConfig) int {
	switch {
	case flag > 0:
		return flag
	case cfg.Concurrency > 0:
		return cfg.Concurrency
	default:
		return runtime.GOMAXPROCS(0)
	}
}

// session bundles what every file-processing command needs.
type session struct {
	cfg      *config.ProjectConfig
	expander *expander.Expander
	logger   retrygen.Logger
	printer  *tui.Printer
}

func newSession(stderr io.Writer) (*session, error) {
	logger := logging.NewConsoleLoggerTo(stderr, rootFlags.verbose)

	cfg, err := loadProjectConfig(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	logger.Verbose("Configuration: directive=%s default_retries=%d naming=%s",
		cfg.Directive, cfg.DefaultRetries, cfg.Naming)

	exp, err := expander.New(expanderOptions(cfg), logger)
	if err != nil {
		return nil, err
	}

	styled := false
	if f, ok := stderr.(*os.File); ok {
		styled = tui.IsStyled(f)
	}

	return &session{
		cfg:      cfg,
		expander: exp,
		logger:   logger,
		printer:  tui.NewPrinter(stderr, styled),
	}, nil
}
