package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"energy-cli/internal/client"
	"energy-cli/internal/exporter"
	"energy-cli/internal/notify"
	"energy-cli/internal/session"
	"energy-cli/pkg/models"
)

// Variables to hold flag values
var (
	expUser       string
	expPass       string
	expPort       string
	serviceAction string // "install", "uninstall", "start", "stop"
)

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	server    *http.Server
	collector *exporter.Collector
	logger    *slog.Logger
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	go p.run()
	return nil
}

func (p *program) run() {
	// Initial login. A failure is not fatal: every scrape retries it.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := p.collector.EnsureLogin(ctx); err != nil {
		p.logger.Error("initial login failed", "error", err)
	} else {
		p.logger.Info("initial login successful")
	}
	cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(p.collector)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(p.logger.Handler(), slog.LevelError),
	}))

	p.server = &http.Server{
		Addr:              ":" + expPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	p.logger.Info("energy exporter listening", "addr", p.server.Addr)
	if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		p.logger.Error("HTTP server error", "error", err)
	}
}

func (p *program) Stop(s service.Service) error {
	p.logger.Info("stopping service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			p.logger.Warn("server forced to shutdown", "error", err)
		}
	}
	return nil
}

// daemonClient builds a client with its own in-memory session, for processes
// that log in with their own credentials and have no terminal.
func daemonClient(a *app) *client.EnergyClient {
	return client.New(client.ClientConfig{BaseURL: a.cfg.BaseURL, Timeout: a.cfg.Timeout}, session.New(&session.Memory{}),
		client.WithNotifier(notify.Log{L: a.logger}),
		client.WithLogger(a.logger),
	)
}

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus exporter service",
	Long: `Starts a long-running HTTP server that exposes energy and alarm metrics.
Can be installed as a system service.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current

		svcConfig := &service.Config{
			Name:        "energy-exporter",
			DisplayName: "Energy Prometheus Exporter",
			Description: "Exposes building energy and alarm metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--base-url", a.cfg.BaseURL,
				"--username", expUser,
				"--password", expPass,
				"--port", expPort,
			},
		}

		prg := &program{
			collector: &exporter.Collector{
				Client: daemonClient(a),
				Login:  models.LoginForm{Username: expUser, Password: expPass},
				Logger: a.logger,
			},
			logger: a.logger,
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			return err
		}

		// Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" && expPass == "" {
				return errors.New("--password is required to install the service")
			}
			if err := service.Control(s, serviceAction); err != nil {
				return fmt.Errorf("failed to %s service: %w", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return nil
		}

		// Run blocks until the service manager or an interrupt stops it.
		return s.Run()
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expUser, "username", "admin", "Username")
	exporterCmd.Flags().StringVar(&expPass, "password", "", "Password")
	exporterCmd.Flags().StringVar(&expPort, "port", "9110", "Port to listen on")

	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
