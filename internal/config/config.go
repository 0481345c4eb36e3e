package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log       Log       `mapstructure:"log"       validate:"required"`
	Telemetry Telemetry `mapstructure:"telemetry" validate:"required"`
	Server    Server    `mapstructure:"server"    validate:"required"`
	Auth      Auth      `mapstructure:"auth"`
	Scope     Scope     `mapstructure:"scope"`
	Bulk      Bulk      `mapstructure:"bulk"`
	Storage   Storage   `mapstructure:"storage"`
	UI        UI        `mapstructure:"ui"`
}

type Log struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogDir   string `mapstructure:"log_dir"`
}

type Telemetry struct {
	Enabled     bool              `mapstructure:"enabled"`
	Exporter    string            `mapstructure:"exporter"     validate:"oneof=otlp stdout none"`
	Endpoint    string            `mapstructure:"endpoint"`
	Protocol    string            `mapstructure:"protocol"     validate:"omitempty,oneof=grpc http"`
	Insecure    bool              `mapstructure:"insecure"`
	Headers     map[string]string `mapstructure:"headers"`
	ServiceName string            `mapstructure:"service_name"`
}

// Server points at the dispatch API entry point.
type Server struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"required,gt=0"`
	PerPage int           `mapstructure:"per_page" validate:"min=1,max=10000"`
}

type Auth struct {
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file" validate:"omitempty,file"`
}

type Scope struct {
	GroupID string `mapstructure:"group_id"`
}

type Bulk struct {
	Workers int `mapstructure:"workers" validate:"min=1,max=16"`
}

type Storage struct {
	S3 S3 `mapstructure:"s3"`
}

type S3 struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"          validate:"omitempty,url"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

type UI struct {
	AssumeYes bool `mapstructure:"assume_yes"`
	PageSize  int  `mapstructure:"page_size" validate:"min=0"`
}

// BearerToken returns the configured token, reading token_file when no
// inline token is set.
func (a Auth) BearerToken() (string, error) {
	if a.Token != "" {
		return strings.TrimSpace(a.Token), nil
	}
	if a.TokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(a.TokenFile)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func Load(cfgFile string) (Config, error) {
	return LoadWith(viper.GetViper(), cfgFile)
}

// LoadWith reads configuration into v, which may already carry bound flags.
func LoadWith(v *viper.Viper, cfgFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("dotenv: %w", err)
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DISPATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.dispatch-requests")
		v.AddConfigPath("/etc/dispatch-requests")
		v.SetConfigType("yaml")
	}

	v.SetDefault("log.log_level", "info")
	v.SetDefault("log.log_dir", "logs")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.exporter", "none")
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.protocol", "grpc")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "dispatch-requests")
	v.SetDefault("server.base_url", "http://127.0.0.1:8000")
	v.SetDefault("server.timeout", 30*time.Second)
	v.SetDefault("server.per_page", 9999)
	v.SetDefault("bulk.workers", 1)
	v.SetDefault("ui.page_size", 0)
	// registered so UnmarshalExact accepts them when only set through env
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.token_file", "")
	v.SetDefault("scope.group_id", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("ui.assume_yes", false)

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config read error: %w", err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal error: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Exporter == "otlp" && cfg.Telemetry.Endpoint == "" {
		return Config{}, fmt.Errorf("telemetry.endpoint is required when using otlp exporter")
	}
	return cfg, nil
}
