package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/islet/internal/plugins"
	"github.com/conneroisu/islet/internal/resolver"
	"github.com/conneroisu/islet/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the resolution development server",
	Long: `Start an HTTP server exposing the renderer registry and dry-run
resolution, with websocket live reload on configuration changes.

Endpoints:
  GET  /healthz     Health check
  GET  /renderers   Registered renderers in probe order
  POST /resolve     Dry-run resolution for a component path
  GET  /ws          Live-reload websocket`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "server port (overrides config)")
	serveCmd.Flags().String("host", "", "server host (overrides config)")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	host := plugins.NewHost(cfg, logger)
	reg, err := host.Setup(ctx)
	if err != nil {
		return err
	}

	res := resolver.New(reg, resolver.Options{Logger: logger})
	srv := server.New(cfg, reg, res, logger)

	return srv.Start(ctx, viper.ConfigFileUsed())
}
