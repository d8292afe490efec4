package client

import (
	"net/http/httptest"
	"testing"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/goevery/ordercast/internal/persistence/memory"
	"github.com/goevery/ordercast/internal/server"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type testStack struct {
	server   *httptest.Server
	registry *broadcaster.InMemoryRegistry
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	logger := zap.NewNop()
	registry := broadcaster.NewInMemoryRegistry(logger)
	eventRouter := broadcaster.NewEventRouter(logger, registry)
	engine := memory.NewPersistenceEngine()
	chefIdValidator := handler.NewChefIdValidator()
	sendOrderHandler := handler.NewSendOrderHandler(logger, handler.NewPayloadValidator(), eventRouter)

	rpcRouter := server.NewRouter(
		logger,
		handler.NewHeartbeatHandler(),
		handler.NewRegisterChefHandler(chefIdValidator, registry),
		sendOrderHandler,
	)

	originChecker := server.NewOriginChecker(nil)
	wsServer := server.NewWebSocketServer(logger, &websocket.Upgrader{CheckOrigin: originChecker.Check}, registry, rpcRouter, 16)
	restServer := server.NewRESTServer(
		logger,
		originChecker,
		handler.NewGetMenuHandler(chefIdValidator, engine),
		handler.NewSaveMenuHandler(chefIdValidator, engine),
		sendOrderHandler,
		1<<20,
	)

	mainRouter := mux.NewRouter()
	wsServer.Register(mainRouter)
	restServer.Register(mainRouter)

	httpServer := httptest.NewServer(mainRouter)
	t.Cleanup(httpServer.Close)

	return &testStack{
		httpServer,
		registry,
	}
}

func (s *testStack) menuClient() *MenuClient {
	return NewMenuClient(s.server.URL, s.server.Client())
}

func (s *testStack) dialer() Dialer {
	return NewDialer(zap.NewNop(), s.server.URL)
}
