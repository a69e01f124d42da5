package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seolim/thoughtcast/internal/api"
	"github.com/seolim/thoughtcast/internal/auth"
	"github.com/seolim/thoughtcast/internal/config"
	"github.com/seolim/thoughtcast/internal/service/ai"
	"github.com/seolim/thoughtcast/internal/service/generator"
	"github.com/seolim/thoughtcast/internal/service/pipeline"
	"github.com/seolim/thoughtcast/internal/service/voice"
	"github.com/seolim/thoughtcast/internal/store"
)

// Container bundles the assembled services behind the HTTP surface.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Handler http.Handler

	closers []func()
}

// Close releases held resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles every service and returns a container holding the wired
// HTTP handler. All heavy-weight initialization (DB, cache, AI clients)
// happens here.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Database
	postgresSvc, err := store.NewPostgresService(cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	thoughtRepo := store.NewThoughtRepository(postgresSvc, logger)
	voiceRepo := store.NewVoiceRepository(postgresSvc, logger)

	// AI stack
	modelManager, err := ai.NewModelManager(ctx, ai.ModelManagerConfig{
		GeminiAPIKey:   cfg.Gemini.APIKey,
		OpenAIAPIKey:   cfg.OpenAI.APIKey,
		GeminiModel:    cfg.Gemini.Model,
		OpenAIModel:    cfg.OpenAI.Model,
		EnableFallback: cfg.OpenAI.EnableFallback,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create model manager: %w", err)
	}

	caller := ai.NewCaller(modelManager, logger)

	// Generator cache: redis when configured, process-local otherwise.
	var contentCache generator.ContentCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		pingErr := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if pingErr != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", pingErr)
		}
		closers = append(closers, func() {
			_ = redisClient.Close()
		})
		contentCache = generator.NewRedisCache(redisClient, cfg.Generator.CacheTTL, logger)
		logger.Info("Content cache backed by Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port))
	} else {
		contentCache = generator.NewMemoryCache(cfg.Generator.CacheMaxSize, cfg.Generator.CacheTTL)
	}

	// Core services
	pipelineSvc := pipeline.NewService(caller, logger)
	generatorSvc := generator.NewGenerator(caller, contentCache, logger)
	refiner := voice.NewLexicalRefiner(time.Now().UnixNano())
	voiceSvc := voice.NewService(generatorSvc, voiceRepo, voiceRepo, refiner, logger)

	// HTTP surface
	verifier := auth.NewHMACVerifier(cfg.Auth.TokenSecret)
	server := api.NewServer(pipelineSvc, generatorSvc, voiceSvc, thoughtRepo, postgresSvc, cfg.Server.RequestTimeout, logger)
	handler := api.NewRouter(server, verifier, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Handler: handler,
		closers: closers,
	}, nil
}
