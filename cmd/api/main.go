package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/cache"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/repository"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.MigrationsDir); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	health := map[string]router.HealthCheck{"database": db.HealthCheck}

	// Redis is optional: without it short links are not cached, logout does
	// not revoke tokens and recipe creation is not rate limited
	var redisClient *redis.Client
	var store cache.Store
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(ctx, cfg)
		if err != nil {
			logging.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
			store = cache.NewRedisStore(redisClient, "foodgram")
			health["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	imageStore, mediaRoot := newImageStore(ctx, cfg)
	images := service.NewImageService(imageStore)

	recipes := repository.NewRecipeRepository(db.DB)
	ingredients := repository.NewIngredientRepository(db.DB)
	tags := repository.NewTagRepository(db.DB)
	shortLinks := service.NewShortLinkService(recipes, store)
	auth := service.NewAuthService(db.DB, cfg.JWTSecret, cfg.TokenTTL, store)

	srv := server.New(cfg, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		MediaRoot:   mediaRoot,
		MediaURL:    cfg.MediaURL,
		Health:      health,
		Services: api.Services{
			Auth:          auth,
			Users:         service.NewUserService(db.DB, images),
			Recipes:       service.NewRecipeService(db.DB, recipes, ingredients, tags, shortLinks, images),
			Memberships:   service.NewMembershipService(db.DB),
			Subscriptions: service.NewSubscriptionService(db.DB),
			ShoppingList:  service.NewShoppingListService(db.DB),
			ShortLinks:    shortLinks,
			Catalog:       service.NewCatalogService(ingredients, tags),
		},
		API: api.Options{
			PublicURL:     cfg.PublicURL,
			PageSize:      cfg.PageSize,
			CreateLimiter: middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreationLimit),
		},
	})

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logging.Fatal().Err(err).Msg("server error")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutting down server...")
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	logging.Info().Msg("Server stopped")
}

// newImageStore picks S3 when a bucket is configured and the local media
// directory otherwise. The returned root is empty for S3.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string) {
	if cfg.S3Bucket == "" {
		logging.Info().Str("root", cfg.MediaRoot).Msg("Storing images on the local filesystem")
		return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL), cfg.MediaRoot
	}

	client, err := config.NewS3Client(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create S3 client")
	}
	logging.Info().Str("bucket", cfg.S3Bucket).Msg("Storing images in S3")
	return storage.NewS3Store(client, cfg.S3Bucket, cfg.S3Endpoint), ""
}
