package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"energy-cli/internal/client"
	"energy-cli/internal/config"
	"energy-cli/internal/logging"
	"energy-cli/internal/notify"
	"energy-cli/internal/router"
	"energy-cli/internal/session"
)

// routeAnnotation binds a command to the dashboard path it renders.
const routeAnnotation = "route"

var (
	cfgFile    string
	jsonOutput bool
	baseURL    string
	logLevel   string
)

// app is what every command runs against. The same session object is handed
// to the HTTP client and to the router guard. file holds only config file
// keys; flags are resolved into cfg and never written back.
type app struct {
	file    *viper.Viper
	cfg     config.Config
	logger  *slog.Logger
	session *session.Store
	router  *router.Router
	client  *client.EnergyClient
}

var current *app

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "energy-cli",
	Short: "A CLI for the building energy-monitoring API",
	Long: `Manage buildings and metering devices, watch real-time energy readings,
handle alarms and read consumption statistics from the energy-monitoring backend.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(viper.New())
		if err != nil {
			return err
		}
		current = a
		return a.guard(cmd)
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// API failures were already shown by the notifier.
		if !reported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.energy-cli.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (default $ENERGY_BASE_URL or "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func newApp(v *viper.Viper) (*app, error) {
	if err := config.InitConfig(v, cfgFile); err != nil {
		return nil, err
	}
	env, err := config.ParseEnv()
	if err != nil {
		return nil, err
	}
	cfg := config.Resolve(v, env, config.Flags{BaseURL: baseURL, LogLevel: logLevel})

	logger := logging.New(os.Stderr, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	sess := session.New(&session.ViperPersister{
		V:     v,
		Write: func() error { return config.Save(v) },
	})
	if err := sess.Load(); err != nil {
		return nil, err
	}

	r := router.New(sess, nil)
	r.OnNavigate(func(from, to string) {
		if to == router.LoginPath && from != "" && from != router.LoginPath {
			fmt.Fprintln(os.Stderr, "Session ended. Run 'energy-cli login' to sign in again.")
		}
	})

	api := client.New(client.ClientConfig{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout}, sess,
		client.WithNotifier(notify.NewConsole(os.Stderr)),
		client.WithNavigator(r),
		client.WithLogger(logger),
	)

	return &app{file: v, cfg: cfg, logger: logger, session: sess, router: r, client: api}, nil
}

var errLoginRequired = errors.New("not logged in: run 'energy-cli login' first")

// guard runs the router for commands bound to a route. A guarded command
// only runs when navigation lands on its own route.
func (a *app) guard(cmd *cobra.Command) error {
	path, ok := routeOf(cmd)
	if !ok {
		return nil
	}
	rt, err := a.router.Navigate(path)
	if err != nil {
		return err
	}
	if want, _ := a.router.Resolve(path); rt.Path != want.Path {
		return errLoginRequired
	}
	return nil
}

// routeOf finds the route annotation on cmd or its closest annotated parent.
func routeOf(cmd *cobra.Command) (string, bool) {
	for c := cmd; c != nil; c = c.Parent() {
		if p, ok := c.Annotations[routeAnnotation]; ok {
			return p, true
		}
	}
	return "", false
}

func viewAnnotation(path string) map[string]string {
	return map[string]string{routeAnnotation: path}
}

func reported(err error) bool {
	var apiErr *client.APIError
	var transportErr *client.TransportError
	return errors.Is(err, client.ErrUnauthorized) ||
		errors.As(err, &apiErr) ||
		errors.As(err, &transportErr)
}
