package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/goevery/ordercast/internal/persistence"
	"github.com/goevery/ordercast/internal/persistence/badger"
	"github.com/goevery/ordercast/internal/persistence/memory"
	"github.com/goevery/ordercast/internal/server"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type App struct {
	logger            *zap.Logger
	settings          Settings
	persistenceEngine persistence.Engine
	websocketServer   *server.WebSocketServer
	restServer        *server.RESTServer
}

func NewApp(logger *zap.Logger, settings Settings) (*App, error) {
	persistenceEngine, err := newPersistenceEngine(logger, settings.MenuEngine)
	if err != nil {
		return nil, err
	}

	originChecker := server.NewOriginChecker(settings.allowedOrigins())
	websocketUpgrader := &websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		CheckOrigin:       originChecker.Check,
		EnableCompression: true,
	}

	chefIdValidator := handler.NewChefIdValidator()
	payloadValidator := handler.NewPayloadValidator()
	registry := broadcaster.NewInMemoryRegistry(logger)
	eventRouter := broadcaster.NewEventRouter(logger, registry)

	heartbeatHandler := handler.NewHeartbeatHandler()
	registerChefHandler := handler.NewRegisterChefHandler(chefIdValidator, registry)
	sendOrderHandler := handler.NewSendOrderHandler(logger, payloadValidator, eventRouter)
	getMenuHandler := handler.NewGetMenuHandler(chefIdValidator, persistenceEngine)
	saveMenuHandler := handler.NewSaveMenuHandler(chefIdValidator, persistenceEngine)

	router := server.NewRouter(
		logger,
		heartbeatHandler,
		registerChefHandler,
		sendOrderHandler,
	)

	websocketServer := server.NewWebSocketServer(
		logger,
		websocketUpgrader,
		registry,
		router,
		settings.SendBufferSize,
	)
	restServer := server.NewRESTServer(
		logger,
		originChecker,
		getMenuHandler,
		saveMenuHandler,
		sendOrderHandler,
		settings.MaxMenuBytes,
	)

	return &App{
		logger,
		settings,
		persistenceEngine,
		websocketServer,
		restServer,
	}, nil
}

func newPersistenceEngine(logger *zap.Logger, engine string) (persistence.Engine, error) {
	switch engine {
	case "memory":
		return memory.NewPersistenceEngine(), nil
	case "badger":
		return badger.NewPersistenceEngine(logger)
	default:
		return nil, fmt.Errorf("unknown menu engine %q", engine)
	}
}

func (a *App) setup(ctx context.Context) error {
	defer func() {
		if err := a.persistenceEngine.Close(); err != nil {
			a.logger.Error("failed to close menu engine", zap.Error(err))
		}
	}()

	a.logger.Warn("menus are kept in memory and are lost on restart",
		zap.String("engine", a.settings.MenuEngine))

	return a.startHttpServer(ctx)
}

func (a *App) startHttpServer(ctx context.Context) error {
	notifyCtx, notifyCtxCancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer notifyCtxCancel()

	address := fmt.Sprintf("0.0.0.0:%d", a.settings.Port)

	router := mux.NewRouter()
	if a.settings.BasePath != "" {
		router = router.PathPrefix(a.settings.BasePath).Subrouter()
	}

	a.websocketServer.Register(router)
	a.restServer.Register(router)

	httpServer := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("starting http server",
		zap.String("address", address))

	serveErr := make(chan error, 1)

	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-notifyCtx.Done():
	}

	a.logger.Info("stopping http server")

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCtxCancel()

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	a.logger.Info("http server stopped")

	return nil
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	var settings Settings
	_, err := env.UnmarshalFromEnviron(&settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse settings from environment: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildZapLogger(settings.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(logger, settings)
	if err != nil {
		logger.Fatal("failed to create app", zap.Error(err))
	}

	err = app.setup(ctx)
	if err != nil {
		logger.Fatal("failed to setup", zap.Error(err))
	}
}
