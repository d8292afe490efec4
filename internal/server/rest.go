package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goevery/ordercast/internal/broadcaster"
	"github.com/goevery/ordercast/internal/handler"
	"github.com/goevery/ordercast/internal/ierr"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RESTServer struct {
	logger        *zap.Logger
	originChecker *OriginChecker

	getMenuHandler   handler.GetMenuHandlerInterface
	saveMenuHandler  handler.SaveMenuHandlerInterface
	sendOrderHandler handler.SendOrderHandlerInterface
	maxMenuBytes     int64
}

func NewRESTServer(
	logger *zap.Logger,
	originChecker *OriginChecker,
	getMenuHandler handler.GetMenuHandlerInterface,
	saveMenuHandler handler.SaveMenuHandlerInterface,
	sendOrderHandler handler.SendOrderHandlerInterface,
	maxMenuBytes int64,
) *RESTServer {
	return &RESTServer{
		logger,
		originChecker,
		getMenuHandler,
		saveMenuHandler,
		sendOrderHandler,
		maxMenuBytes,
	}
}

func (s *RESTServer) Register(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.cors)

	api.HandleFunc("/menu/{chefId}", s.getMenu).Methods(http.MethodGet)
	api.HandleFunc("/menu/{chefId}", s.saveMenu).Methods(http.MethodPost, http.MethodPut)
	api.HandleFunc("/orders/{chefId}", s.sendOrder).Methods(http.MethodPost)
	api.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}).Methods(http.MethodOptions)
}

func (s *RESTServer) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if allowOrigin := s.originChecker.AllowOrigin(r); allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		}

		next.ServeHTTP(w, r)
	})
}

func (s *RESTServer) getMenu(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.getMenuHandler.Handle(r.Context(), handler.GetMenuRequest{
		ChefId: mux.Vars(r)["chefId"],
	})
	if err != nil {
		if errors.Is(err, handler.ErrMenuNotFound) {
			s.writeError(w, http.StatusNotFound, "Menu not found")
			return
		}

		s.handleError(w, "failed to handle get menu request", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snapshot)
}

func (s *RESTServer) saveMenu(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.handleError(w, "failed to read menu body", err)
		return
	}

	response, err := s.saveMenuHandler.Handle(r.Context(), handler.SaveMenuRequest{
		ChefId: mux.Vars(r)["chefId"],
		Body:   body,
	})
	if err != nil {
		s.handleError(w, "failed to handle save menu request", err)
		return
	}

	s.writeJSON(w, response)
}

func (s *RESTServer) sendOrder(w http.ResponseWriter, r *http.Request) {
	var order broadcaster.Order
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&order)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	response, err := s.sendOrderHandler.Handle(r.Context(), handler.SendOrderRequest{
		ChefId: mux.Vars(r)["chefId"],
		Order:  order,
	})
	if err != nil {
		s.handleError(w, "failed to handle send order request", err)
		return
	}

	s.writeJSON(w, response)
}

func (s *RESTServer) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxMenuBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, ierr.New(ierr.ErrorCodeTooLarge, errors.New("menu too large"))
		}

		return nil, ierr.New(ierr.ErrorCodeInvalidArgument, err)
	}

	return body, nil
}

func (s *RESTServer) handleError(w http.ResponseWriter, message string, err error) {
	code := ierr.CodeOf(err)
	if code == ierr.ErrorCodeInternal {
		s.logger.Error(message, zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var handlerErr ierr.Error
	errors.As(err, &handlerErr)

	s.writeError(w, ierr.HTTPStatus(code), handlerErr.Message)
}

func (s *RESTServer) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(map[string]string{"error": message})
	if err != nil {
		s.logger.Debug("failed to encode error response", zap.Error(err))
	}
}

func (s *RESTServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.logger.Debug("failed to encode response", zap.Error(err))
	}
}
