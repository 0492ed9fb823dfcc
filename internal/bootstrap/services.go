package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bndy/centrestage/config"
	redisadapter "github.com/bndy/centrestage/internal/adapters/redis"
	"github.com/bndy/centrestage/internal/data"
	"github.com/bndy/centrestage/internal/ports"
	"github.com/bndy/centrestage/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions *service.SessionService
	Claims   *service.ClaimsService
	Profiles *service.ProfileService
	Venues   *service.VenueService
	Artists  *service.ArtistService
	Songs    *service.SongService
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Provider    ports.IdentityProvider
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	DB          *sql.DB
	Redis       redis.UniversalClient
	ProfileRepo *data.ProfileRepo
	VenueRepo   *data.VenueRepo
	ArtistRepo  *data.ArtistRepo
	SongRepo    *data.SongRepo
	LoginMarker *redisadapter.LoginMarker
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient) *serviceRepositories {
	repos := &serviceRepositories{
		DB:          db,
		Redis:       redisClient,
		ProfileRepo: data.NewProfileRepo(db),
		VenueRepo:   data.NewVenueRepo(db),
		ArtistRepo:  data.NewArtistRepo(db),
		SongRepo:    data.NewSongRepo(db),
	}
	if redisClient != nil {
		repos.LoginMarker = redisadapter.NewLoginMarker(redisClient)
	}
	return repos
}

// NewServices wires business services using repositories and the identity provider.
func NewServices(deps *ServiceDeps) ServiceContainer {
	if deps == nil {
		return ServiceContainer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authCfg := config.AuthConfig{}
	if deps.Config != nil {
		authCfg = deps.Config.Auth
	}

	repos := buildRepositories(deps.DB, deps.RedisClient)

	sessionService := service.NewSessionService(service.SessionServiceOptions{
		Provider:        deps.Provider,
		MaxTokenAge:     authCfg.MaxTokenAge,
		SessionDuration: authCfg.SessionDuration,
	})

	claimsService := service.NewClaimsService(service.ClaimsServiceOptions{
		Provider: deps.Provider,
		Profiles: repos.ProfileRepo,
		Logger:   logger,
	})

	var marker ports.LoginMarker
	if repos.LoginMarker != nil {
		marker = repos.LoginMarker
	}
	profileService := service.NewProfileService(service.ProfileServiceOptions{
		Profiles:        repos.ProfileRepo,
		Marker:          marker,
		SessionDuration: authCfg.SessionDuration,
		Logger:          logger,
	})

	return ServiceContainer{
		Sessions: sessionService,
		Claims:   claimsService,
		Profiles: profileService,
		Venues:   service.NewVenueService(service.VenueServiceOptions{Venues: repos.VenueRepo}),
		Artists:  service.NewArtistService(service.ArtistServiceOptions{Artists: repos.ArtistRepo}),
		Songs:    service.NewSongService(service.SongServiceOptions{Songs: repos.SongRepo}),
	}
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config      *config.AppConfig
	Services    ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

const (
	// shutdownWaitTimeout is the maximum time to wait for services to stop gracefully.
	shutdownWaitTimeout = 15 * time.Second
)

// RunServicesWithShutdown starts the HTTP server and manages its lifecycle.
// This function blocks until a shutdown signal is received.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		cancel:     cancel,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	cancel     context.CancelFunc
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for a shutdown signal.
func waitForShutdown(cfg shutdownConfig) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	cfg.logger.Info("shutting down services...")
	cfg.cancel()
	return gracefulStop(cfg)
}

// gracefulStop attempts to gracefully stop the HTTP server.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
