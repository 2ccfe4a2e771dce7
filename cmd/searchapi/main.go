package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchapi/internal/config"
	"github.com/kailas-cloud/searchapi/internal/db"
	dbRedis "github.com/kailas-cloud/searchapi/internal/db/redis"
	logpkg "github.com/kailas-cloud/searchapi/internal/logger"
	"github.com/kailas-cloud/searchapi/internal/metrics"
	"github.com/kailas-cloud/searchapi/internal/repository/forbidden"
	"github.com/kailas-cloud/searchapi/internal/repository/popularity"
	searchrepo "github.com/kailas-cloud/searchapi/internal/repository/search"
	"github.com/kailas-cloud/searchapi/internal/resilience"
	chiTransport "github.com/kailas-cloud/searchapi/internal/transport/chi"
	autocompleteuc "github.com/kailas-cloud/searchapi/internal/usecase/autocomplete"
	healthuc "github.com/kailas-cloud/searchapi/internal/usecase/health"
	searchuc "github.com/kailas-cloud/searchapi/internal/usecase/search"
	"github.com/kailas-cloud/searchapi/internal/usecase/topsearched"
	"github.com/kailas-cloud/searchapi/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchapi server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("index", cfg.Search.Index),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:        cfg.Database.Addrs,
		Username:     cfg.Database.Username,
		Password:     cfg.Database.Password,
		DB:           cfg.Database.DB,
		WriteTimeout: config.Millis(cfg.Database.WriteTimeoutMs),
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterSearchMetrics()

	exec := resilience.NewExecutor(cfg.Resilience.Breaker(), logger)

	docRepo := searchrepo.New(store, exec, searchrepo.Options{
		Index:         cfg.Search.Index,
		KeyPrefix:     cfg.Search.KeyPrefix,
		CategoryField: cfg.Search.CategoryField,
		ReturnFields:  cfg.Search.ReturnFields,
	})
	suggestRepo := searchrepo.New(store, exec, searchrepo.Options{
		Index:        cfg.Autocomplete.Index,
		KeyPrefix:    cfg.Autocomplete.KeyPrefix,
		ReturnFields: []string{cfg.Autocomplete.Field},
	})
	popRepo := popularity.New(store, exec, cfg.Popularity.Index, cfg.Popularity.KeyPrefix)

	if cfg.Database.CreateIndexes {
		if err := ensureIndexes(ctx, store, cfg, popRepo.Schema(), logger); err != nil {
			logger.Fatal("Failed to create indexes", zap.Error(err))
		}
	}

	words := forbidden.New(cfg.Forbidden.Path, logger)
	if cfg.Forbidden.Watch {
		if err := words.Watch(ctx); err != nil {
			logger.Warn("Forbidden word list will not reload", zap.Error(err))
		}
	}
	logger.Info("Forbidden words loaded", zap.Int("count", words.Len()))

	topSvc := topsearched.New(popRepo, config.Millis(cfg.Popularity.TimeoutMs))

	// A nil interface, not a typed nil, disables recording.
	var recorder searchuc.PopularityRecorder
	if cfg.Popularity.Record == nil || *cfg.Popularity.Record {
		recorder = topSvc
	}

	searchSvc := searchuc.New(docRepo, words, recorder, searchuc.Config{
		DateField:     cfg.Search.DateField,
		Boost:         cfg.Search.Boost,
		MinScore:      cfg.Search.MinScore,
		PreTag:        cfg.Search.PreTag,
		PostTag:       cfg.Search.PostTag,
		FragmentSize:  cfg.Search.FragmentSize,
		Fragments:     cfg.Search.Fragments,
		Timeout:       config.Millis(cfg.Search.TimeoutMs),
		RecordTimeout: config.Millis(cfg.Popularity.TimeoutMs),
	})
	suggestSvc := autocompleteuc.New(suggestRepo, autocompleteuc.Config{
		Field:   cfg.Autocomplete.Field,
		Size:    cfg.Autocomplete.Size,
		Timeout: config.Millis(cfg.Autocomplete.TimeoutMs),
	})
	healthSvc := healthuc.New(store, exec, words)

	server := chiTransport.NewServer(searchSvc, suggestSvc, topSvc, healthSvc, chiTransport.Paging{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	}, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:   cfg.Auth.APIKeys,
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	searchSvc.Flush()

	logger.Info("Server stopped gracefully")
}

// ensureIndexes creates the document, suggestion and search log indexes when missing.
func ensureIndexes(
	ctx context.Context,
	m db.IndexManager,
	cfg config.Config,
	popularity *db.IndexDefinition,
	logger *zap.Logger,
) error {
	docDef, err := documentIndex(cfg.Search)
	if err != nil {
		return fmt.Errorf("document index: %w", err)
	}

	suggestDef, err := db.NewIndex(cfg.Autocomplete.Index).
		Prefix(cfg.Autocomplete.KeyPrefix).
		Text(cfg.Autocomplete.Field).
		Build()
	if err != nil {
		return fmt.Errorf("autocomplete index: %w", err)
	}

	for _, def := range []*db.IndexDefinition{docDef, suggestDef, popularity} {
		created, err := db.EnsureIndex(ctx, m, def)
		if err != nil {
			return fmt.Errorf("ensure %s: %w", def.Name, err)
		}
		if created {
			logger.Info("Created index", zap.String("index", def.Name))
		}
	}
	return nil
}

// documentIndex defines the article index: weighted text fields, a sortable
// date and a category tag.
func documentIndex(s config.SearchConfig) (*db.IndexDefinition, error) {
	b := db.NewIndex(s.Index).Prefix(s.KeyPrefix)
	for _, f := range s.TextFields {
		if w, ok := s.FieldWeights[f]; ok {
			b.WeightedText(f, w)
			continue
		}
		b.Text(f)
	}
	return b.SortableNumeric(s.DateField).Tag(s.CategoryField).Build()
}
