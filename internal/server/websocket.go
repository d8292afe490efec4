package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	maxMessageSize = 4096
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	writeWait      = 10 * time.Second
)

type WebSocketServer struct {
	logger   *zap.Logger
	upgrader *websocket.Upgrader

	registry       broadcaster.Registry
	router         *Router
	sendBufferSize int
}

func NewWebSocketServer(
	logger *zap.Logger,
	upgrader *websocket.Upgrader,
	registry broadcaster.Registry,
	router *Router,
	sendBufferSize int,
) *WebSocketServer {
	return &WebSocketServer{
		logger,
		upgrader,
		registry,
		router,
		sendBufferSize,
	}
}

func (s *WebSocketServer) Register(router *mux.Router) {
	router.HandleFunc("/websocket", func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		connection := broadcaster.NewConnection(uuid.NewString(), s.sendBufferSize)
		logger := s.logger.With(
			zap.String("connectionId", connection.Id),
			zap.String("remoteAddr", r.RemoteAddr))

		logger.Info("websocket connection established")

		session := &session{
			logger:     logger,
			conn:       conn,
			connection: connection,
			registry:   s.registry,
			router:     s.router,
			done:       make(chan struct{}),
		}
		session.run(broadcaster.WithConnection(r.Context(), connection))

		logger.Info("websocket connection closed")
	})
}

// session owns one client connection from upgrade to disconnect.
type session struct {
	logger     *zap.Logger
	conn       *websocket.Conn
	connection *broadcaster.Connection
	registry   broadcaster.Registry
	router     *Router

	writeMu sync.Mutex
	done    chan struct{}
}

func (s *session) run(ctx context.Context) {
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)

		s.writeLoop()
	}()

	defer func() {
		close(s.done)
		s.registry.Unregister(s.connection.Id)
		s.connection.Close()
		<-writerDone
		_ = s.conn.Close()
	}()

	s.readLoop(ctx)
}

func (s *session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read failed", zap.Error(err))
			}

			return
		}

		var request handler.Request
		if err := json.Unmarshal(data, &request); err != nil {
			s.logger.Warn("invalid message received, closing connection", zap.Error(err))
			s.writeClose(websocket.CloseInvalidFramePayloadData, "invalid message")

			return
		}

		response := s.router.RouteRequest(ctx, request)
		if response == nil {
			continue
		}

		if err := s.write(response); err != nil {
			s.logger.Debug("failed to write response", zap.Error(err))

			return
		}
	}
}

func (s *session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.connection.Outbound():
			if !ok {
				select {
				case <-s.done:
				default:
					s.writeClose(websocket.CloseTryAgainLater, "connection too slow")
					_ = s.conn.Close()
				}

				return
			}

			if err := s.writeEvent(event); err != nil {
				s.logger.Debug("failed to deliver event", zap.String("event", event.Name), zap.Error(err))
			}
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

func (s *session) writeEvent(event broadcaster.Event) error {
	rawJson, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	params := json.RawMessage(rawJson)

	return s.write(handler.NewNotification(event.Name, &params))
}

func (s *session) write(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return s.conn.WriteJSON(v)
}

func (s *session) writeClose(code int, text string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, text),
		time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.logger.Debug("failed to write close message", zap.Error(err))
	}
}
