package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	gateway "github.com/transit-edge/gtfs-gateway"
	"github.com/transit-edge/gtfs-gateway/edge"
	"github.com/transit-edge/gtfs-gateway/metrics"
	"github.com/transit-edge/gtfs-gateway/store"
)

var (
	configFilenameFlag string
	portFlag           int
	storeRootFlag      string
	edgeProviderFlag   string
	verbosityTraceFlag bool
)

func init() {
	flag.StringVar(&configFilenameFlag, "config", "", "Path to config file")
	flag.IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	flag.StringVar(&storeRootFlag, "store-root", "", "Serve artifacts from this directory instead of S3")
	flag.StringVar(&edgeProviderFlag, "edge", "", "Edge cache provider: sqlite, memory or off (overrides config)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
}

func main() {
	flag.Parse()

	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}
	log.Logger = log.Level(logLevel).Output(zerolog.ConsoleWriter{Out: os.Stdout})

	config := Config{Port: 8080, Edge: EdgeConfig{Provider: "off", Path: "./edge-cache.db"}}
	if configFilenameFlag != "" {
		var err error
		config, err = getConfig(configFilenameFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not read config")
		}
	}
	if portFlag != 0 {
		config.Port = portFlag
	}
	if storeRootFlag != "" {
		config.Store = StoreConfig{Backend: "fs", Root: storeRootFlag}
	}
	if edgeProviderFlag != "" {
		config.Edge.Provider = edgeProviderFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var origin store.Store
	switch config.Store.Backend {
	case "fs":
		origin = store.NewFSStore(config.Store.Root)
	case "s3":
		s3Store, err := store.NewS3Store(ctx, store.S3Config{
			Bucket:    config.Store.Bucket,
			Prefix:    config.Store.Prefix,
			Region:    config.Store.Region,
			Endpoint:  config.Store.Endpoint,
			AccessKey: config.Store.AccessKey,
			SecretKey: config.Store.SecretKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Could not create S3 store")
		}
		origin = s3Store
	default:
		log.Fatal().Msgf("Unsupported store backend: %s", config.Store.Backend)
	}

	var edgeCache *edge.Cache
	switch config.Edge.Provider {
	case "sqlite":
		provider, err := edge.NewSQLiteCache(config.Edge.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not open edge cache database")
		}
		edgeCache = edge.New(provider, log.Logger)
	case "memory":
		edgeCache = edge.New(edge.NewMemCache(), log.Logger)
	case "off", "":
	default:
		log.Fatal().Msgf("Unsupported edge cache provider: %s", config.Edge.Provider)
	}

	table := gateway.DefaultPolicyTable()
	if len(config.Tables) > 0 {
		table = gateway.DefaultPolicyTableWith(config.Tables)
	}

	gw := gateway.New(gateway.Config{
		Store:   origin,
		Edge:    edgeCache,
		Table:   table,
		Logger:  &log.Logger,
		Metrics: metrics.New(prometheus.DefaultRegisterer),
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", gw)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().Int("port", config.Port).Str("store", config.Store.Backend).Msg("Listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
