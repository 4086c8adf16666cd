// Package config loads the generator configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/awsarn"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/domain"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/synth"
	"github.com/guardian/uk-coronavirus-data-alerts/internal/validation"
)

// Config holds all configuration for the application.
type Config struct {
	Stack       StackConfig
	Function    FunctionConfig
	Permissions PermissionsConfig
	Monitoring  MonitoringConfig
	Output      OutputConfig
	Database    DatabaseConfig
	Server      ServerConfig
	Log         LogConfig
}

// StackConfig holds stack identity and account scope.
type StackConfig struct {
	BaseName      string   `env:"STACK_BASE_NAME" envDefault:"uk-coronavirus-data-alerts"`
	Stage         string   `env:"STAGE" envDefault:"PROD"`
	Variants      []string `env:"VARIANTS" envDefault:"VERIFIED,UNVERIFIED" envSeparator:","`
	ParameterMode string   `env:"PARAMETER_MODE" envDefault:"strict"`
	Region        string   `env:"AWS_REGION" envDefault:"eu-west-1"`
	AccountID     string   `env:"AWS_ACCOUNT_ID"` // empty uses the AWS::AccountId pseudo parameter
}

// FunctionConfig holds the scheduled job settings.
type FunctionConfig struct {
	Runtime                 string        `env:"FUNCTION_RUNTIME" envDefault:"python3.8"`
	Handler                 string        `env:"FUNCTION_HANDLER" envDefault:"main.lambda_handler"`
	MemoryMB                int           `env:"FUNCTION_MEMORY_MB" envDefault:"1024"`
	Timeout                 time.Duration `env:"FUNCTION_TIMEOUT" envDefault:"5m"`
	ArtifactBucketParameter string        `env:"ARTIFACT_BUCKET_PARAMETER" envDefault:"/account/services/artifact.bucket"`
}

// PermissionsConfig holds the resources the job is granted access to.
type PermissionsConfig struct {
	DataBucket     string `env:"DATA_BUCKET" envDefault:"investigations-data-dev"`
	DataKeyPrefix  string `env:"DATA_KEY_PREFIX" envDefault:"uk-coronavirus-data-alerts"`
	SenderIdentity string `env:"SENDER_IDENTITY" envDefault:"investigations.and.reporting@theguardian.com"`
}

// MonitoringConfig holds the alarm topic.
type MonitoringConfig struct {
	AlertTopicName string `env:"ALERT_TOPIC_NAME" envDefault:"investigations-alerts"`
	AlertTopicARN  string `env:"ALERT_TOPIC_ARN"`
}

// OutputConfig holds where and how templates are written.
type OutputConfig struct {
	Dir    string `env:"OUTPUT_DIR" envDefault:"cdk.out"`
	Format string `env:"OUTPUT_FORMAT" envDefault:"json"`
}

// DatabaseConfig holds template history database configuration.
type DatabaseConfig struct {
	Driver string `env:"HISTORY_DB_DRIVER" envDefault:"sqlite3"` // "memory" keeps history in the process
	DSN    string `env:"HISTORY_DB_DSN" envDefault:"data/template-history.db"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host   string `env:"SERVER_HOST" envDefault:"127.0.0.1"`
	Port   int    `env:"SERVER_PORT" envDefault:"8080"`
	APIKey string `env:"SERVER_API_KEY"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Stack); err != nil {
		return nil, fmt.Errorf("parsing stack config: %w", err)
	}
	if err := env.Parse(&cfg.Function); err != nil {
		return nil, fmt.Errorf("parsing function config: %w", err)
	}
	if err := env.Parse(&cfg.Permissions); err != nil {
		return nil, fmt.Errorf("parsing permissions config: %w", err)
	}
	if err := env.Parse(&cfg.Monitoring); err != nil {
		return nil, fmt.Errorf("parsing monitoring config: %w", err)
	}
	if err := env.Parse(&cfg.Output); err != nil {
		return nil, fmt.Errorf("parsing output config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UseMemoryStore returns true if template history is not persisted.
func (c *DatabaseConfig) UseMemoryStore() bool {
	return c.Driver == "memory"
}

// Variants parses the configured variant tags.
func (c *Config) Variants() ([]domain.Variant, error) {
	if len(c.Stack.Variants) == 0 {
		return nil, fmt.Errorf("VARIANTS must name at least one variant: %w", domain.ErrInvalidInput)
	}
	return domain.ParseVariants(c.Stack.Variants)
}

// Settings returns the synthesizer settings described by the configuration.
func (c *Config) Settings() synth.Settings {
	return synth.Settings{
		BaseName:      c.Stack.BaseName,
		Stage:         c.Stack.Stage,
		ParameterMode: domain.ParameterMode(c.Stack.ParameterMode),
		Scope: awsarn.Scope{
			Partition: awsarn.DefaultPartition,
			Region:    c.Stack.Region,
			AccountID: c.Stack.AccountID,
		},
		Runtime:                 c.Function.Runtime,
		Handler:                 c.Function.Handler,
		MemorySize:              c.Function.MemoryMB,
		Timeout:                 c.Function.Timeout,
		ArtifactBucketParameter: c.Function.ArtifactBucketParameter,
		DataBucket:              c.Permissions.DataBucket,
		DataKeyPrefix:           c.Permissions.DataKeyPrefix,
		SenderIdentity:          c.Permissions.SenderIdentity,
		AlertTopicName:          c.Monitoring.AlertTopicName,
		AlertTopicARN:           c.Monitoring.AlertTopicARN,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Variants(); err != nil {
		return err
	}

	var errs validation.ValidationErrors
	if err := c.Settings().Validate(); err != nil {
		var fieldErrs validation.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		errs = append(errs, fieldErrs...)
	}

	errs.Check("OUTPUT_FORMAT", c.Output.Format, validation.ValidateOutputFormat(c.Output.Format))
	if c.Output.Dir == "" {
		errs.Add("OUTPUT_DIR", "", "output directory must not be empty")
	}

	switch c.Database.Driver {
	case "memory", "sqlite3", "postgres":
	default:
		errs.Add("HISTORY_DB_DRIVER", c.Database.Driver, "driver must be memory, sqlite3 or postgres")
	}
	if !c.Database.UseMemoryStore() && c.Database.DSN == "" {
		errs.Add("HISTORY_DB_DSN", "", "HISTORY_DB_DSN is required unless HISTORY_DB_DRIVER is memory")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs.Add("SERVER_PORT", fmt.Sprint(c.Server.Port), "port must be between 1 and 65535")
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		errs.Add("LOG_FORMAT", c.Log.Format, "log format must be console or json")
	}

	return errs.Err()
}
