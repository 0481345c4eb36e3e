package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/config"
	"github.com/Qubut/IP-Claim/packages/dispatch_requests/internal/telemetry"
)

var (
	cfgFile  string
	cfg      config.Config
	logger   *zap.SugaredLogger
	tracer   trace.Tracer
	meter    metric.Meter
	shutdown func(context.Context) error
	services *internal.Services
	Version  = "dev" // Set at build time: go build -ldflags "-X github.com/Qubut/IP-Claim/packages/dispatch_requests/cmd.Version=v1.0.0"
)

var RootCmd = &cobra.Command{
	Use:          "dispatch-requests",
	Short:        "List, edit and submit dispatch requests",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logFile := ""
		if logDir := cfg.Log.LogDir; logDir != "" {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return fmt.Errorf("create log directory: %w", err)
			}
			logFile = filepath.Join(logDir,
				fmt.Sprintf("dispatch-requests[%s].log", time.Now().Format("20060102-150405")))
		}

		teleCfg := telemetry.Config{
			Enabled:     cfg.Telemetry.Enabled,
			ServiceName: cfg.Telemetry.ServiceName,
			Exporter:    cfg.Telemetry.Exporter,
			Endpoint:    cfg.Telemetry.Endpoint,
			Protocol:    cfg.Telemetry.Protocol,
			Insecure:    cfg.Telemetry.Insecure,
			Headers:     cfg.Telemetry.Headers,
			LogFile:     logFile,
			LogLevel:    cfg.Log.LogLevel,
			Version:     Version,
		}
		tel, err := telemetry.InitOTEL(teleCfg)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		tracer, meter, logger, shutdown = tel.Tracer, tel.Meter, tel.Logger, tel.Shutdown

		services, err = internal.InitServices(cmd.Context(), cfg,
			cmd.InOrStdin(), cmd.OutOrStdout(), tracer, logger, meter)
		if err != nil {
			return fmt.Errorf("init services: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdown != nil {
			if err := shutdown(context.Background()); err != nil {
				logger.Errorw("shutdown error", "err", err)
				return err
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCmd.RunE(cmd, args)
	},
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// open loads the list of the configured group.
func open(ctx context.Context) error {
	return services.Open(ctx, cfg.Scope.GroupID)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of dispatch-requests",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config operations",
}

var printConfigCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the current loaded configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		redacted := cfg
		if redacted.Auth.Token != "" {
			redacted.Auth.Token = "***"
		}
		if redacted.Storage.S3.SecretAccessKey != "" {
			redacted.Storage.S3.SecretAccessKey = "***"
		}
		data, err := json.MarshalIndent(redacted, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "Path to config file (yaml/json/toml)")

	// Flag map to avoid repetition
	type flagDef struct {
		name, def, usage string
	}
	flags := []flagDef{
		{"log.log-level", "info", "Log level (debug/info/warn/error)"},
		{"log.log-dir", "logs", "Directory for JSON log files, empty to disable"},
		{"telemetry.enabled", "false", "Enable OpenTelemetry"},
		{"telemetry.exporter", "none", "Telemetry exporter (otlp|stdout|none)"},
		{"telemetry.endpoint", "localhost:4317", "OTLP endpoint (host:port)"},
		{"telemetry.protocol", "grpc", "OTLP protocol (grpc|http)"},
		{"telemetry.insecure", "true", "Allow insecure OTLP connection"},
		{"telemetry.service-name", "dispatch-requests", "Service name for telemetry"},
		{"server.base-url", "", "Dispatch API entry point URL"},
		{"server.timeout", "30s", "Request timeout (duration)"},
		{"server.per-page", "9999", "Requests fetched per list call"},
		{"auth.token", "", "Bearer token of the logged-in user"},
		{"auth.token-file", "", "File holding the bearer token"},
		{"scope.group-id", "", "Organization group the requests belong to"},
		{"bulk.workers", "1", "Rows processed in parallel by bulk actions"},
		{"storage.s3.region", "", "S3 region for s3:// file selections"},
		{"storage.s3.endpoint", "", "Custom S3 endpoint URL"},
		{"storage.s3.access-key-id", "", "S3 access key id"},
		{"storage.s3.secret-access-key", "", "S3 secret access key"},
		{"storage.s3.use-path-style", "false", "Use path-style S3 addressing"},
		{"ui.assume-yes", "false", "Answer yes to every confirmation"},
		{"ui.page-size", "0", "Rows per page in list output, 0 for all"},
	}
	for _, f := range flags {
		RootCmd.PersistentFlags().String(f.name, f.def, f.usage)
		viper.BindPFlag(
			strings.ReplaceAll(f.name, "-", "_"),
			RootCmd.PersistentFlags().Lookup(f.name),
		)
	}

	configCmd.AddCommand(printConfigCmd)

	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(groupsCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(createCmd)
	RootCmd.AddCommand(subjectCmd)
	RootCmd.AddCommand(senderCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(submitCmd)
	RootCmd.AddCommand(fileCmd)
	RootCmd.AddCommand(recipientCmd)
	RootCmd.AddCommand(versionCmd)
	RootCmd.AddCommand(configCmd)
}
