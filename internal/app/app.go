// Package app initializes and runs the main application service.
// It configures logging, storage, authentication, and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patric-chuzhbe/storeapi/internal/auth"
	"github.com/patric-chuzhbe/storeapi/internal/config"
	"github.com/patric-chuzhbe/storeapi/internal/db/jsonfile"
	"github.com/patric-chuzhbe/storeapi/internal/db/memstore"
	"github.com/patric-chuzhbe/storeapi/internal/logger"
	"github.com/patric-chuzhbe/storeapi/internal/products"
	"github.com/patric-chuzhbe/storeapi/internal/router"
	"github.com/patric-chuzhbe/storeapi/internal/users"
)

type persister interface {
	Load(dest interface{}) error
	Save(data interface{}) error
}

// App encapsulates the configuration, repositories and HTTP handler
// needed to run the service.
type App struct {
	cfg         *config.Config
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up storage per resource
// - setting up the repositories and the router
func New() (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	authCookieSigningSecretKey, err := base64.URLEncoding.DecodeString(app.cfg.AuthCookieSigningSecretKey)
	if err != nil {
		return nil, err
	}

	app.httpHandler = router.New(
		users.New(getStorageByFileName(app.cfg.UsersFileName)),
		products.New(getStorageByFileName(app.cfg.ProductsFileName)),
		auth.New(app.cfg.AuthCookieName, authCookieSigningSecretKey),
	)

	return app, nil
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon
// termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Log.Infoln("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal, exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

// getStorageByFileName picks the persistence backend for one
// resource: a JSON file when a path is configured, the in-memory
// store otherwise.
func getStorageByFileName(fileName string) persister {
	if fileName != "" {
		return jsonfile.New(fileName)
	}

	return memstore.New()
}
