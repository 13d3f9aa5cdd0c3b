package main

import (
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"teamhub/config"
	"teamhub/middleware"
	"teamhub/routes"
	"teamhub/session"
	"teamhub/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(config.AppConfig.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if dsn := config.AppConfig.SentryDSN; dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         dsn,
			Environment: config.AppConfig.Environment,
		}); err != nil {
			log.WithError(err).Warn("sentry init failed")
		}
	}

	if err := config.ConnectDB(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	st := store.NewGormStore(config.DB)
	if err := st.Migrate(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	var sessions session.Manager
	if config.AppConfig.Redis.Enabled {
		sessions = session.NewRedisManager(redis.NewClient(&redis.Options{
			Addr:     config.AppConfig.Redis.Address,
			Password: config.AppConfig.Redis.Password,
			DB:       config.AppConfig.Redis.DB,
		}))
		log.Info("using redis session store")
	} else {
		sessions = session.NewMemoryManager()
		log.Info("using in-memory session store")
	}

	app := fiber.New(fiber.Config{
		AppName: "teamhub",
	})

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = strings.Split(config.AppConfig.CORSOrigins, ",")
	app.Use(middleware.CORS(corsConfig))

	routes.SetupRoutes(app, st, sessions, log)

	log.WithField("port", config.AppConfig.ServerPort).Info("server starting")
	if err := app.Listen(":" + config.AppConfig.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
