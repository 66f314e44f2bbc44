package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/rentalfriction/app"
	"github.com/kilianp07/rentalfriction/config"
	"github.com/kilianp07/rentalfriction/infra/logger"
)

const (
	defaultConfigPath = "config.yaml"
	defaultEnvFile    = ".env"
)

// NewRootCmd builds the command tree. Running the root command starts the
// HTTP service.
func NewRootCmd() *cobra.Command {
	var cfgPath, envFile string
	root := &cobra.Command{
		Use:           "rentalfriction",
		Short:         "Rental delay analysis and pricing service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfgPath)
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultConfigPath, "configuration file")
	root.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file with K_ overrides")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfgPath)
		},
	}
	root.AddCommand(serveCmd, newAnalyzeCmd(&cfgPath), newPredictCmd(&cfgPath))
	return root
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func serve(ctx context.Context, cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}

// loadConfig falls back to defaults and K_ environment overrides when the
// default file is absent. An explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadEnvFile exports variables from a dotenv file without overriding ones
// already set. A missing default file is ignored.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if path == defaultEnvFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
