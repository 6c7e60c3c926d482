package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	mwecho "github.com/labstack/echo/v4/middleware"
	mwsvc "lampreasvioleta.com/storefront/internal/middleware"

	"lampreasvioleta.com/storefront/internal/backup"
	"lampreasvioleta.com/storefront/internal/config"
	"lampreasvioleta.com/storefront/internal/customer"
	"lampreasvioleta.com/storefront/internal/database"
	"lampreasvioleta.com/storefront/internal/demodata"
	"lampreasvioleta.com/storefront/internal/order"
	"lampreasvioleta.com/storefront/internal/product"

	adminhttp "lampreasvioleta.com/storefront/internal/http/admin"
	webhttp "lampreasvioleta.com/storefront/internal/http/web"
)

// ErrAdminKeyRequired is returned by Build when no admin API key is configured.
var ErrAdminKeyRequired = errors.New("ADMIN_API_KEY environment variable is required")

type Server struct {
	Echo *echo.Echo
	HTTP *http.Server
	DB   *sqlx.DB
}

func Build(cfg *config.Config) (*Server, error) {
	if cfg.AdminAPIKey == "" {
		return nil, ErrAdminKeyRequired
	}

	//
	// Database
	//
	isNewDB := false
	if cfg.DBDriver == database.DriverSQLite {
		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			isNewDB = true
			slog.Info("creating database", "path", cfg.DBPath, "source", cfg.DBPathSource)
		} else {
			slog.Info("opening database", "path", cfg.DBPath, "source", cfg.DBPathSource)
		}
	} else {
		slog.Info("opening database", "driver", cfg.DBDriver)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(db.DB, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	// Load demo data if requested and database is new
	if cfg.DemoMode && isNewDB {
		if err := demodata.Load(context.Background(), db); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("demo data loaded")
	}

	//
	// Domain services
	//
	customerSvc := customer.NewService(db)
	productSvc := product.NewService(db)
	orderSvc := order.NewService(db)

	//
	// Handlers
	//
	adminSvc := adminhttp.NewService(customerSvc, productSvc, orderSvc)
	backupSvc := backup.NewService(db, cfg.DBDriver, cfg.DBPath)
	adminHandler := adminhttp.NewHandler(adminSvc, backupSvc)

	sessions := mwsvc.NewMemorySessionStore(mwsvc.DefaultSessionTTL)
	webHandler := webhttp.NewHandler(adminSvc, cfg.AdminAPIKey, sessions)

	//
	// Echo
	//
	e := echo.New()
	e.HideBanner = true

	// Health endpoints
	e.GET("/livez", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "DB not ready")
		}
		return c.String(http.StatusOK, "Ready")
	})

	// Middleware
	e.Use(mwecho.RequestIDWithConfig(mwecho.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(mwsvc.RequestIDContext())
	e.Use(mwecho.RequestLoggerWithConfig(mwecho.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v mwecho.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				slog.Error("request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(mwecho.Recover())

	// Admin API
	adminGroup := e.Group("/api/admin")
	adminGroup.Use(mwsvc.AdminAPIKeyAuth(cfg.AdminAPIKey))
	adminhttp.RegisterRoutes(adminGroup, adminHandler)

	// Web UI
	webGroup := e.Group("/web")
	webGroup.Use(mwsvc.Version()) // Add app version to context
	webGroup.Use(mwsvc.WebAuth(cfg.AdminAPIKey, sessions))
	webGroup.Use(mwsvc.CSRFConfig())
	webGroup.Use(mwsvc.CSRF()) // Copy CSRF token to request context for pages
	webhttp.RegisterRoutes(webGroup, webHandler)

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/web/customers")
	})

	//
	// HTTP server
	//
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
	}

	slog.Info("server configured", "addr", cfg.Addr, "driver", cfg.DBDriver)

	return &Server{
		Echo: e,
		HTTP: srv,
		DB:   db,
	}, nil
}
