package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/djlord-it/croniclectl/internal/analytics"
	"github.com/djlord-it/croniclectl/internal/circuitbreaker"
	"github.com/djlord-it/croniclectl/internal/config"
	"github.com/djlord-it/croniclectl/internal/cronicle"
	"github.com/djlord-it/croniclectl/internal/domain"
	"github.com/djlord-it/croniclectl/internal/events"
	"github.com/djlord-it/croniclectl/internal/metrics"
	"github.com/djlord-it/croniclectl/internal/reconciler"
	"github.com/djlord-it/croniclectl/internal/timing"
)

// Build-time variables set via -ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const (
	exitSuccess        = 0
	exitRuntimeError   = 1
	exitInvalidConfig  = 2
	exitPartialFailure = 3
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitRuntimeError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "create":
		os.Exit(runCreate(args))
	case "list":
		os.Exit(runList(args))
	case "get":
		os.Exit(runGet(args))
	case "delete":
		os.Exit(runDelete(args))
	case "delete-all":
		os.Exit(runDeleteAll(args))
	case "sweep":
		os.Exit(runSweep(args))
	case "validate":
		os.Exit(runValidate())
	case "config":
		os.Exit(runConfig())
	case "version":
		os.Exit(runVersion())
	case "--help", "-h", "help":
		printUsage()
		os.Exit(exitSuccess)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(exitRuntimeError)
	}
}

func printUsage() {
	fmt.Println(`croniclectl - manage scheduled events on a Cronicle server

Usage:
  croniclectl <command> [flags]

Commands:
  create     Create a scheduled event (one-shot instant or cron expression)
  list       List every scheduled event
  get        Look up a single event by title or id
  delete     Delete every event matching a title or id
  delete-all Delete every event on the schedule (irreversible)
  sweep      Periodically delete matching events until interrupted
  validate   Validate configuration (no connections made)
  config     Print effective configuration as JSON (secrets masked)
  version    Print version information

Environment Variables:
  CRONICLE_API_KEY       API key for the scheduler (required)
  CRONICLE_BASE_URL      Scheduler base address (default: "http://localhost:3012")
  CRONICLE_HTTP_TIMEOUT  Management API call timeout (default: "30s")

  REDIS_ADDR             Redis address for call analytics (optional)

  METRICS_ENABLED        Enable Prometheus metrics in sweep mode (default: "false")
  METRICS_ADDR           Metrics server address (default: ":9090")
  METRICS_PATH           Metrics endpoint path (default: "/metrics")

  BREAKER_THRESHOLD      Consecutive transport failures before the circuit
                         opens; 0 disables (default: "5")
  BREAKER_COOLDOWN       Open-circuit cooldown (default: "2m")
  SWEEP_INTERVAL         Default sweep interval (default: "5m")`)
}

// loadConfig loads and validates configuration, printing errors to stderr.
func loadConfig() (config.Config, bool) {
	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return cfg, false
	}
	return cfg, true
}

// buildClient wires the scheduler client with the optional collaborators
// the configuration enables.
func buildClient(cfg config.Config, sink metrics.Sink) *cronicle.Client {
	client := cronicle.NewClient(cronicle.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.HTTPTimeout,
	})

	if cfg.BreakerThreshold > 0 {
		client = client.WithBreaker(circuitbreaker.New(cfg.BreakerThreshold, cfg.BreakerCooldown))
	}
	if sink != nil {
		client = client.WithMetrics(sink)
	}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		client = client.WithAnalytics(analytics.NewRedisSink(redisClient))
		log.Printf("croniclectl: call analytics enabled (redis=%s)", cfg.RedisAddr)
	}
	return client
}

func runCreate(args []string) int {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	title := fs.String("title", "", "event title (required)")
	targetURL := fs.String("url", "", "URL the event requests when it fires (required)")
	method := fs.String("method", http.MethodPost, "HTTP method the event uses")
	plugin := fs.String("plugin", domain.PluginHTTPRequest, "execution plugin token")
	at := fs.String("at", "", "fire once at this RFC3339 instant")
	cronExpr := fs.String("cron", "", "fire on this 5-field cron expression")
	enabled := fs.Bool("enabled", true, "create the event enabled")
	category := fs.String("category", "", "event category (default: general)")
	target := fs.String("target", "", "execution target group (default: allgrp)")
	data := fs.String("data", "", "request body")
	headers := fs.String("headers", "", "request headers, one Name: Value per line")
	timeout := fs.Int("timeout", 0, "job execution timeout passed to the plugin (default: 30)")
	follow := fs.Bool("follow", false, "follow redirects")
	sslBypass := fs.Bool("ssl-cert-bypass", false, "skip TLS certificate verification")
	successMatch := fs.Bool("success-match", false, "match response body to detect success")
	fs.Parse(args)

	var eventTiming timing.Timing
	switch {
	case *at != "" && *cronExpr != "":
		fmt.Fprintln(os.Stderr, "use either -at or -cron, not both")
		return exitRuntimeError
	case *at != "":
		instant, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -at value: %v\n", err)
			return exitRuntimeError
		}
		eventTiming = timing.At(instant)
	case *cronExpr != "":
		spec, err := timing.FromCron(*cronExpr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -cron value: %v\n", err)
			return exitRuntimeError
		}
		eventTiming = timing.FromSpec(spec)
	default:
		fmt.Fprintln(os.Stderr, "one of -at or -cron is required")
		return exitRuntimeError
	}

	cfg, ok := loadConfig()
	if !ok {
		return exitInvalidConfig
	}

	service := events.NewService(buildClient(cfg, nil))

	created, err := service.Create(context.Background(), domain.Event{
		Title:    *title,
		Enabled:  domain.Flag(*enabled),
		Category: *category,
		Plugin:   *plugin,
		Target:   *target,
		Timing:   eventTiming,
		Params: domain.HTTPRequestParams{
			Method:        *method,
			URL:           *targetURL,
			Data:          *data,
			Headers:       *headers,
			Timeout:       *timeout,
			Follow:        domain.Flag(*follow),
			SSLCertBypass: domain.Flag(*sslBypass),
			SuccessMatch:  domain.Flag(*successMatch),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "create failed: %v\n", err)
		return exitRuntimeError
	}

	printJSON(created)
	return exitSuccess
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	fs.Parse(args)

	cfg, ok := loadConfig()
	if !ok {
		return exitInvalidConfig
	}

	service := events.NewService(buildClient(cfg, nil))
	rows, err := service.List(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "list failed: %v\n", err)
		return exitRuntimeError
	}

	printJSON(rows)
	return exitSuccess
}

func runGet(args []string) int {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	title := fs.String("title", "", "event title")
	id := fs.String("id", "", "event id")
	fs.Parse(args)

	cfg, ok := loadConfig()
	if !ok {
		return exitInvalidConfig
	}

	service := events.NewService(buildClient(cfg, nil))
	event, err := service.Get(context.Background(), *title, *id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "get failed: %v\n", err)
		return exitRuntimeError
	}
	if event == nil {
		fmt.Fprintln(os.Stderr, "no matching event")
		return exitRuntimeError
	}

	printJSON(event)
	return exitSuccess
}

func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	title := fs.String("title", "", "delete every event with this title")
	id := fs.String("id", "", "delete the event with this id")
	fs.Parse(args)

	cfg, ok := loadConfig()
	if !ok {
		return exitInvalidConfig
	}

	recon := reconciler.New(buildClient(cfg, nil))
	outcome, err := recon.DeleteMatching(context.Background(), *title, *id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "delete failed: %v\n", err)
		return exitRuntimeError
	}

	return reportOutcome(outcome)
}

func runDeleteAll(args []string) int {
	fs := flag.NewFlagSet("delete-all", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm deleting every event on the schedule")
	fs.Parse(args)

	if !*yes {
		fmt.Fprintln(os.Stderr, "delete-all removes every scheduled event; re-run with -yes to confirm")
		return exitRuntimeError
	}

	cfg, ok := loadConfig()
	if !ok {
		return exitInvalidConfig
	}

	recon := reconciler.New(buildClient(cfg, nil))
	outcome, err := recon.DeleteAll(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "delete-all failed: %v\n", err)
		return exitRuntimeError
	}

	return reportOutcome(outcome)
}

// reportOutcome prints one line per targeted event and maps the batch
// result to an exit code.
func reportOutcome(outcome reconciler.Outcome) int {
	for _, entry := range outcome {
		if entry.Err != nil {
			fmt.Printf("failed   %s  %q  %v\n", entry.Event.ID, entry.Event.Title, entry.Err)
		} else {
			fmt.Printf("deleted  %s  %q\n", entry.Event.ID, entry.Event.Title)
		}
	}

	failed := outcome.Failed()
	fmt.Printf("%d targeted, %d deleted, %d failed\n", len(outcome), len(outcome)-failed, failed)

	if failed > 0 {
		return exitPartialFailure
	}
	return exitSuccess
}

func runSweep(args []string) int {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	title := fs.String("title", "", "delete every event with this title")
	id := fs.String("id", "", "delete the event with this id")
	interval := fs.Duration("interval", 0, "sweep interval (default: SWEEP_INTERVAL)")
	fs.Parse(args)

	cfg, ok := loadConfig()
	if !ok {
		return exitInvalidConfig
	}

	// Initialize metrics sink (optional)
	var sink metrics.Sink
	var metricsServer *http.Server

	if cfg.MetricsEnabled {
		sink = metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
		log.Printf("croniclectl: metrics enabled (addr=%s, path=%s)", cfg.MetricsAddr, cfg.MetricsPath)

		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.MetricsPath, promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: metricsMux,
		}
		go func() {
			log.Printf("croniclectl: metrics server listening on %s", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("croniclectl: metrics server error: %v", err)
			}
		}()
	} else {
		log.Println("croniclectl: METRICS_ENABLED not set; metrics disabled")
	}

	recon := reconciler.New(buildClient(cfg, sink))
	if sink != nil {
		recon = recon.WithMetrics(sink)
	}

	sweepInterval := cfg.SweepInterval
	if *interval > 0 {
		sweepInterval = *interval
	}

	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	var sweepWg sync.WaitGroup
	sweepErr := make(chan error, 1)

	sweepWg.Add(1)
	go func() {
		defer sweepWg.Done()
		sweepErr <- recon.Run(sweepCtx, reconciler.SweepConfig{
			Interval: sweepInterval,
			Title:    *title,
			ID:       *id,
		})
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	exitCode := exitSuccess
	select {
	case received := <-sig:
		log.Printf("croniclectl: received signal %v, shutting down", received)
	case err := <-sweepErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
			exitCode = exitRuntimeError
		}
	}

	cancelSweep()
	sweepWg.Wait()

	if metricsServer != nil {
		log.Println("croniclectl: stopping metrics server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("croniclectl: metrics server shutdown error: %v", err)
		}
	}

	log.Println("croniclectl: stopped")
	return exitCode
}

func runValidate() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitInvalidConfig
	}

	fmt.Println("configuration valid")
	return exitSuccess
}

func runConfig() int {
	cfg := config.Load()

	data, err := cfg.MaskedJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal config: %v\n", err)
		return exitRuntimeError
	}

	fmt.Println(string(data))
	return exitSuccess
}

func runVersion() int {
	fmt.Printf("croniclectl version %s (commit: %s)\n", version, commit)
	return exitSuccess
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("croniclectl: json encode error: %v", err)
	}
}
