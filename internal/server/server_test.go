package server

import (
	"net/http/httptest"
	"testing"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/goevery/ordercast/internal/persistence/memory"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type testStack struct {
	server   *httptest.Server
	registry *broadcaster.InMemoryRegistry
	router   *broadcaster.EventRouter
}

func newTestStack(t *testing.T, sendBufferSize int) *testStack {
	t.Helper()

	logger := zap.NewNop()
	registry := broadcaster.NewInMemoryRegistry(logger)
	eventRouter := broadcaster.NewEventRouter(logger, registry)
	engine := memory.NewPersistenceEngine()
	chefIdValidator := handler.NewChefIdValidator()
	sendOrderHandler := handler.NewSendOrderHandler(logger, handler.NewPayloadValidator(), eventRouter)

	rpcRouter := NewRouter(
		logger,
		handler.NewHeartbeatHandler(),
		handler.NewRegisterChefHandler(chefIdValidator, registry),
		sendOrderHandler,
	)

	originChecker := NewOriginChecker(nil)
	wsServer := NewWebSocketServer(logger, &websocket.Upgrader{CheckOrigin: originChecker.Check}, registry, rpcRouter, sendBufferSize)
	restServer := NewRESTServer(
		logger,
		originChecker,
		handler.NewGetMenuHandler(chefIdValidator, engine),
		handler.NewSaveMenuHandler(chefIdValidator, engine),
		sendOrderHandler,
		1024,
	)

	mainRouter := mux.NewRouter()
	wsServer.Register(mainRouter)
	restServer.Register(mainRouter)

	server := httptest.NewServer(mainRouter)
	t.Cleanup(server.Close)

	return &testStack{
		server,
		registry,
		eventRouter,
	}
}
