// Command datasynth describes a dataset, reviews the suggested schema, generates
// synthetic rows, and lets the user chart and export them.
//
// Usage:
//
//	datasynth suggest  "online shop orders" [--web] [--from sample.csv]
//	datasynth generate "online shop orders" [--out data.csv] [--xlsx data.xlsx] [--chart chart.svg]
//	datasynth wizard
//
// Global flags:
//
//	--config        Path to datasynth.yaml (default: built-in defaults)
//	--dev           Run against an in-process fake generation service
//	--log-level     Override log.level from config
//	--metrics-addr  Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)
//
// Environment:
//
//	DATASYNTH_BASE_URL, DATASYNTH_REGION, DATASYNTH_LOG_LEVEL
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/spektr-org/datasynth/config"
	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/history"
	"github.com/spektr-org/datasynth/remote"
	"github.com/spektr-org/datasynth/synthtest"
	"github.com/spektr-org/datasynth/wizard"
)

const version = "0.3.0"

// app is the wiring shared by all commands.
type app struct {
	cfg      *config.Config
	svc      remote.Service
	store    *history.Store
	shutdown func()
}

var (
	configPath  string
	devMode     bool
	logLevel    string
	metricsAddr string

	current = &app{shutdown: func() {}}
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "datasynth",
		Short:   "Generate synthetic datasets from a plain-language description",
		Version: version,
		Long: `datasynth asks a generation service for a column schema that fits a
description, lets you edit it, generates rows for it, and charts or exports
the result.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) { current.shutdown() },
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to datasynth.yaml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Use an in-process fake generation service")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics at /metrics on this address")

	rootCmd.AddCommand(newSuggestCmd(), newGenerateCmd(), newWizardCmd(), newRegionsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads config, configures logging and connects the remote service.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := configureLogging(cfg.Log); err != nil {
		return err
	}

	if _, ok := wizard.LookupRegion(cfg.Wizard.Region); !ok {
		log.Warn().Str("region", cfg.Wizard.Region).Str("default", wizard.DefaultRegion).Msg("unknown region in config, using default")
	}

	current.cfg = cfg
	current.store = history.NewStore()

	if metricsAddr != "" {
		url, shutdown, err := startMetricsServer(metricsAddr)
		if err != nil {
			return err
		}
		current.addShutdown(shutdown)
		log.Info().Str("url", url+"/metrics").Msg("serving metrics")
	}

	baseURL := cfg.Service.BaseURL
	if devMode {
		url, shutdown, err := startDevService()
		if err != nil {
			return err
		}
		baseURL = url
		current.addShutdown(shutdown)

		log.Warn().Msg("──────────────────────────────────────────────────────")
		log.Warn().Msg("  DEV MODE ACTIVE — in-process fake generation service ")
		log.Warn().Msg("  Suggestions are templates, rows are pseudo-random    ")
		log.Warn().Msg("──────────────────────────────────────────────────────")
	}

	current.svc = remote.NewClient(remote.Config{BaseURL: baseURL, Timeout: cfg.Service.Timeout})
	log.Debug().Str("base_url", baseURL).Bool("dev", devMode).Str("config", configPath).Msg("datasynth ready")
	return nil
}

func configureLogging(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return nil
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	return nil
}

// addShutdown chains fn after the existing shutdown hooks.
func (a *app) addShutdown(fn func()) {
	prev := a.shutdown
	a.shutdown = func() {
		prev()
		fn()
	}
}

// startDevService serves the fake service on a loopback port.
func startDevService() (string, func(), error) {
	return serve("dev service", "127.0.0.1:0", synthtest.New().Handler())
}

// startMetricsServer exposes the default Prometheus registry at /metrics.
func startMetricsServer(addr string) (string, func(), error) {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())
	return serve("metrics", addr, r)
}

// serve runs handler on addr until the returned shutdown is called.
func serve(name, addr string, handler http.Handler) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", name, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("server", name).Msg("server stopped")
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Str("server", name).Msg("shutdown")
		}
	}
	return "http://" + ln.Addr().String(), shutdown, nil
}

// newController builds a wizard controller from config.
func (a *app) newController(extra ...wizard.Option) *wizard.Controller {
	opts := []wizard.Option{
		wizard.WithRows(a.cfg.Wizard.Rows),
		wizard.WithRegion(a.cfg.Wizard.Region),
		wizard.WithChartType(a.cfg.ChartType()),
	}
	for _, t := range engine.ChartTypes {
		opts = append(opts, wizard.WithTopN(t, a.cfg.TopN(t)))
	}
	return wizard.New(a.svc, a.store, append(opts, extra...)...)
}

// chartOptions returns engine options matching the configured caps.
func (a *app) chartOptions() []engine.Option {
	opts := make([]engine.Option, 0, len(engine.ChartTypes))
	for _, t := range engine.ChartTypes {
		opts = append(opts, engine.WithTopN(t, a.cfg.TopN(t)))
	}
	return opts
}

func newRegionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the locales available for generation",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, r := range wizard.Regions {
				marker := " "
				if r.Code == current.cfg.Wizard.Region {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-6s %s\n", marker, r.Code, r.Label)
			}
		},
	}
}
