package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aleem-studio/portfolio/internal/config"
	"github.com/aleem-studio/portfolio/internal/gallery"
	"github.com/aleem-studio/portfolio/internal/handlers"
	"github.com/aleem-studio/portfolio/internal/mediaclient"
	customMiddleware "github.com/aleem-studio/portfolio/internal/middleware"
	"github.com/aleem-studio/portfolio/internal/renderer"
	"github.com/aleem-studio/portfolio/internal/services"
	"github.com/aleem-studio/portfolio/internal/utils"
	"github.com/aleem-studio/portfolio/views"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	cfg := config.New()
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	site := config.DefaultSite()
	if cfg.SiteConfigPath != "" {
		loaded, err := config.LoadSite(cfg.SiteConfigPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to load site profile")
		}
		site = loaded
	}

	source, err := newMediaSource(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create media source")
	}

	var limiter echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, rate limiter will fail open")
		}
		limiter = customMiddleware.RateLimiter(customMiddleware.NewRedisRateStore(rdb), cfg.RateLimitRequests, cfg.RateLimitDuration)
	}

	e := newServer(cfg, site, source, limiter)

	go func() {
		log.WithFields(log.Fields{
			"port":    cfg.Port,
			"backend": cfg.MediaBackend,
			"env":     cfg.Env,
		}).Info("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func newMediaSource(cfg *config.Config) (services.MediaSource, error) {
	switch cfg.MediaBackend {
	case config.BackendMinio:
		client, err := services.NewMinioClient(services.MinioCredentials{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Region:    cfg.MinioRegion,
		})
		if err != nil {
			return nil, err
		}
		return services.NewMinioSource(client, cfg.MinioBucket, cfg.MinioPublicBaseURL, cfg.MinioPresignExpiry), nil
	default:
		return services.NewCloudinarySource(services.CloudinaryCredentials{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		}, cfg.CloudinaryAPIBaseURL, cfg.CloudinaryDeliveryURL, cfg.UpstreamTimeout), nil
	}
}

func newServer(cfg *config.Config, site config.Site, source services.MediaSource, limiter echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	// X-Real-IP is honoured from loopback and private peers only: the media client on
	// loopback and a fronting proxy
	e.IPExtractor = echo.ExtractIPFromRealIPHeader()

	// Services
	mediaService := services.NewMediaService(source, services.MediaOptions{
		RootFolder:      cfg.MediaRootFolder,
		MaxFolders:      cfg.MaxFolders,
		MaxFolderImages: cfg.MaxFolderImages,
		FanOut:          cfg.FanOut,
	})
	client := mediaclient.New(cfg.MediaClientBaseURL,
		mediaclient.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		mediaclient.WithReporter(mediaclient.LogReporter),
	)
	viewers := gallery.NewViewers(cfg.SessionTTL, cfg.MaxViewers)

	mediaHandler := handlers.NewMediaHandler(mediaService)
	galleryHandler := handlers.NewGalleryHandler(site, viewers, client, client)
	contactHandler := handlers.NewContactHandler(site)

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    uuid.NewString,
		TargetHeader: utils.RequestIDHeader,
	}))
	e.Use(customMiddleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(customMiddleware.SecurityHeaders())
	e.Use(customMiddleware.CSRF())

	// Template Renderer
	e.Renderer = renderer.New(views.FS)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Pages
	e.GET("/", galleryHandler.Home)
	e.GET("/gallery", galleryHandler.Grid)

	// Lightbox
	e.POST("/gallery/lightbox/open", galleryHandler.OpenLightbox)
	e.POST("/gallery/lightbox/next", galleryHandler.NextImage)
	e.POST("/gallery/lightbox/previous", galleryHandler.PreviousImage)
	e.POST("/gallery/lightbox/close", galleryHandler.CloseLightbox)
	e.POST("/gallery/lightbox/loaded", galleryHandler.ImageLoaded)

	// Contact
	e.GET("/contact", contactHandler.ContactModal)
	e.POST("/contact", contactHandler.SubmitContact)

	// Media proxy
	api := e.Group("/api")
	if limiter != nil {
		api.Use(limiter)
	}
	api.GET("/cloudinary-images", mediaHandler.ListImages)
	api.GET("/cloudinary-images/resource", mediaHandler.GetResource)
	api.GET("/cloudinary-images/search", mediaHandler.SearchByFilename)

	return e
}
