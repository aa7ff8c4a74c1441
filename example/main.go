package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anvilhq/anvil"
	"github.com/anvilhq/anvil/example/handlers"
	"github.com/anvilhq/anvil/middlewares"
	"github.com/anvilhq/anvil/pkg/logger"
)

func main() {
	cfg, err := LoadConfig(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}

	log := logger.NewWithSentry(logger.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	}, middlewares.RequestIDExtractor())

	engine, err := anvil.NewViews("views")
	if err != nil {
		log.Error("view engine error", "error", err)
		os.Exit(1)
	}
	if cfg.IsDevelopment() {
		if err := engine.EnableReload(); err != nil {
			log.Error("template reload error", "error", err)
			os.Exit(1)
		}
	}

	csrfManager, err := anvil.NewCSRF(cfg.CSRFSecret)
	if err != nil {
		log.Error("csrf error", "error", err)
		os.Exit(1)
	}

	opts := []anvil.Option{
		anvil.WithCustomLogger(log),
		anvil.WithViews(engine),
		anvil.WithCookieOptions(
			anvil.WithCookieSecret(cfg.CookieSecret),
			anvil.WithCookieSecure(!cfg.IsDevelopment()),
		),
		anvil.WithMiddleware(
			middlewares.Recover(),
			middlewares.RequestID(),
			middlewares.Timeout(30*time.Second),
			middlewares.CSRF(csrfManager),
		),
		anvil.WithHandlers(
			handlers.NewPerson(),
			handlers.NewUpload(),
		),
		anvil.WithErrorHandler(handleError),
		anvil.WithNotFoundHandler(handleNotFound),
		anvil.WithHealthChecks(),
	}

	if cfg.Storage.Bucket != "" {
		store, err := anvil.NewStorage(anvil.StorageConfig{
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			log.Error("storage error", "error", err)
			os.Exit(1)
		}
		opts = append(opts, anvil.WithStorage(store))
	}

	app := anvil.New(opts...)

	if err := app.Run(cfg.Address, anvil.Logger(log)); err != nil {
		log.Error("application error", "error", err)
		os.Exit(1)
	}
}

// errorPage is the model for the Error template.
type errorPage struct {
	Code    int
	Title   string
	Message string
}

// handleError renders the error page, mapping HTTPError codes through
// and everything else to 500.
func handleError(c anvil.Context, err error) error {
	page := errorPage{
		Code:    http.StatusInternalServerError,
		Title:   "Internal Server Error",
		Message: "Something went wrong.",
	}
	if httpErr := anvil.AsHTTPError(err); httpErr != nil {
		page.Code = httpErr.Code
		page.Title = http.StatusText(httpErr.Code)
		page.Message = httpErr.Message
	}

	c.LogError("handler error", "error", err.Error(), "status", page.Code)
	return c.Render(page.Code, "Error", anvil.WithModel(page))
}

// handleNotFound renders a 404 error page.
func handleNotFound(c anvil.Context) error {
	return c.Render(http.StatusNotFound, "Error", anvil.WithModel(errorPage{
		Code:    http.StatusNotFound,
		Title:   "Not Found",
		Message: "The page you're looking for doesn't exist.",
	}))
}

// getEnv returns environment variable value or default if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
