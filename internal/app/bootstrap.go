package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/ebdruplab/semactl/internal/config"
	"github.com/ebdruplab/semactl/internal/core/ports"
	"github.com/ebdruplab/semactl/internal/core/service"
	"github.com/ebdruplab/semactl/internal/errors"
	"github.com/ebdruplab/semactl/internal/log"
	"github.com/ebdruplab/semactl/internal/manifest"
	jsonreport "github.com/ebdruplab/semactl/internal/reporting/json"
	textreport "github.com/ebdruplab/semactl/internal/reporting/text"
	"github.com/ebdruplab/semactl/internal/semaphore"
)

type BootstrapResult struct {
	Deployer ports.Deployer
	Client   *semaphore.Client
	Logger   ports.Logger
	Config   *config.Config
}

// BuildApplicationFromViper assembles the full deployer: config, logger,
// client, manifest, reporter and engine.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper, manifestPath string) (*BootstrapResult, error) {
	cfg, logger, err := loadConfig(ctx, v)
	if err != nil {
		return nil, err
	}
	if cfg.Server.APIToken == "" && (cfg.Server.Username == "" || cfg.Server.Password == "") {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			"no server credentials configured",
			"Set server.api_token, or server.username and server.password.")
	}

	client, err := buildClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		logger.Errorf(ctx, err, "Failed to load manifest")
		return nil, err
	}
	logger.Debugf(ctx, "Manifest loaded: project %q", m.Project.Name)

	var reporter ports.Reporter
	switch cfg.Settings.ReporterType {
	case config.ReporterTypeJSON:
		reporter = jsonreport.NewReporter(os.Stdout)
	case config.ReporterTypeText, "":
		reporter = textreport.NewReporter(os.Stdout)
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType),
			"Supported: text, json")
	}
	logger.Debugf(ctx, "Using %s reporter", cfg.Settings.ReporterType)

	engine, err := service.NewEngine(client, m, reporter, logger, service.AuthConfig{
		APIToken: cfg.Server.APIToken,
		Username: cfg.Server.Username,
		Password: cfg.Server.Password,
	})
	if err != nil {
		return nil, err
	}

	return &BootstrapResult{
		Deployer: engine,
		Client:   client,
		Logger:   logger,
		Config:   cfg,
	}, nil
}

// BuildClientFromViper assembles just the API client, for commands that do
// not need a manifest.
func BuildClientFromViper(ctx context.Context, v *viper.Viper) (*semaphore.Client, ports.Logger, error) {
	cfg, logger, err := loadConfig(ctx, v)
	if err != nil {
		return nil, nil, err
	}
	client, err := buildClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

func loadConfig(ctx context.Context, v *viper.Viper) (*config.Config, ports.Logger, error) {
	cfg := config.DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Debugf(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		var details strings.Builder
		details.WriteString("Configuration validation failed:")
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrors {
				details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')",
					fe.Namespace(), fe.Tag(), fe.Value()))
			}
		}
		wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, details.String(),
			"Please check your configuration file or flags.")
		logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
		return nil, nil, wrappedErr
	}

	return cfg, logger, nil
}

func buildClient(cfg *config.Config, logger ports.Logger) (*semaphore.Client, error) {
	return semaphore.NewClient(semaphore.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		InsecureSkipVerify: cfg.Server.InsecureSkipVerify,
		Timeout:            cfg.Server.Timeout,
		RequestsPerSecond:  cfg.Server.RequestsPerSecond,
	}, logger)
}
