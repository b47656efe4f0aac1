// Package bootstrap wires configuration, collaborator clients and HTTP
// dependencies together at startup.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/ekurt/campusgate/internal/app/controllers"
	appRoutes "github.com/ekurt/campusgate/internal/app/routes"
	appServices "github.com/ekurt/campusgate/internal/app/services"
	"github.com/ekurt/campusgate/internal/config"
	appMiddleware "github.com/ekurt/campusgate/internal/middleware"
	"github.com/ekurt/campusgate/internal/pkg/identity"
	"github.com/ekurt/campusgate/internal/pkg/logger"
	"github.com/ekurt/campusgate/internal/pkg/profilestore"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Provider         identity.Provider
	Profiles         profilestore.Store
	SignupService    *appServices.SignupService
	SignupController *appControllers.SignupController
	Logger           zerolog.Logger

	// Cleanup releases collaborator resources; safe to call once at shutdown.
	Cleanup func()
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupCollaborators builds the identity provider and profile store clients
// selected by configuration.
func SetupCollaborators(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (identity.Provider, profilestore.Store, func(), error) {
	cleanup := func() {}

	provider, err := setupIdentityProvider(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, nil, err
	}

	store, storeCleanup, err := setupProfileStore(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, nil, err
	}
	if storeCleanup != nil {
		cleanup = storeCleanup
	}

	return provider, store, cleanup, nil
}

func setupIdentityProvider(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (identity.Provider, error) {
	switch cfg.Identity.Driver {
	case config.DriverCognito:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS configuration: %w", err)
		}
		client := cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = &cfg.AWS.Endpoint
			}
		})
		lgr.Info().Str("userPoolId", cfg.Identity.UserPoolID).Msg("Identity provider: cognito")
		return identity.NewCognitoProvider(client, cfg.Identity.UserPoolID), nil

	case config.DriverMemory:
		lgr.Warn().Msg("Identity provider: in-memory (development only)")
		return identity.NewInMemoryProvider(), nil

	default:
		return nil, fmt.Errorf("unknown identity driver %q", cfg.Identity.Driver)
	}
}

func setupProfileStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (profilestore.Store, func(), error) {
	switch cfg.ProfileStore.Driver {
	case config.DriverDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
		if err != nil {
			return nil, nil, fmt.Errorf("loading AWS configuration: %w", err)
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.AWS.Endpoint != "" {
				o.BaseEndpoint = &cfg.AWS.Endpoint
			}
		})
		lgr.Info().Str("table", cfg.ProfileStore.Table).Msg("Profile store: dynamodb")
		return profilestore.NewDynamoStore(client, cfg.ProfileStore.Table), nil, nil

	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.GetPostgresConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to profile store database: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pinging profile store database: %w", err)
		}

		store := profilestore.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		lgr.Info().Str("host", cfg.ProfileStore.Postgres.Host).Msg("Profile store: postgres")
		return store, pool.Close, nil

	case config.DriverMemory:
		lgr.Warn().Msg("Profile store: in-memory (development only)")
		return profilestore.NewInMemoryStore(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown profile store driver %q", cfg.ProfileStore.Driver)
	}
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	provider, store, cleanup, err := SetupCollaborators(context.Background(), cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup collaborators: %w", err)
	}

	deps := &Dependencies{
		Provider: provider,
		Profiles: store,
		Logger:   lgr,
		Cleanup:  cleanup,
	}

	deps.SignupService = appServices.NewSignupService(provider, store, lgr)
	deps.SignupController = appControllers.NewSignupController(deps.SignupService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Fixed permissive policy for cross-origin signup posts.
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.Use(appMiddleware.RequestID())

	appRoutes.SetupRouter(router, deps.SignupController)

	// Liveness probe
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
