package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/goevery/ordercast/internal/handler"
	"github.com/goevery/ordercast/internal/ierr"
	"go.uber.org/zap"
)

type Router struct {
	logger *zap.Logger

	heartbeatHandler    handler.HeartbeatHandlerInterface
	registerChefHandler handler.RegisterChefHandlerInterface
	sendOrderHandler    handler.SendOrderHandlerInterface
}

func NewRouter(
	logger *zap.Logger,
	heartbeatHandler handler.HeartbeatHandlerInterface,
	registerChefHandler handler.RegisterChefHandlerInterface,
	sendOrderHandler handler.SendOrderHandlerInterface,
) *Router {
	return &Router{
		logger,
		heartbeatHandler,
		registerChefHandler,
		sendOrderHandler,
	}
}

// RouteRequest returns nil when the request is a notification that needs no
// reply.
func (r *Router) RouteRequest(ctx context.Context, request handler.Request) *handler.Response {
	response, err := r.Handle(ctx, request)
	if err != nil {
		if !request.ReplyExpected() {
			r.logger.Debug("dropping error for request without id",
				zap.String("method", request.Method),
				zap.Error(err))

			return nil
		}

		response := request.ReplyWithError(r.mapError(err))

		return &response
	}

	if !request.ReplyExpected() {
		return nil
	}

	rawJson, err := json.Marshal(response)
	if err != nil {
		response := request.ReplyWithError(r.mapError(err))

		return &response
	}

	payload := json.RawMessage(rawJson)
	reply := request.Reply(&payload)

	return &reply
}

func (r *Router) Handle(ctx context.Context, request handler.Request) (any, error) {
	switch request.Method {
	case handler.MethodHeartbeat:
		return r.heartbeatHandler.Handle(ctx)
	case handler.MethodRegisterChef:
		var registerReq handler.RegisterChefRequest
		if err := decodeParams(request.Params, &registerReq); err != nil {
			return nil, err
		}

		return r.registerChefHandler.Handle(ctx, registerReq)
	case handler.MethodSendOrder:
		var sendOrderReq handler.SendOrderRequest
		if err := decodeParams(request.Params, &sendOrderReq); err != nil {
			return nil, err
		}

		return r.sendOrderHandler.Handle(ctx, sendOrderReq)
	default:
		return nil, ierr.New(ierr.ErrorCodeNotFound, errors.New("method not found: "+request.Method))
	}
}

func (r *Router) mapError(err error) ierr.Error {
	var handlerErr ierr.Error
	if errors.As(err, &handlerErr) {
		return handlerErr
	}

	r.logger.Error("error in rpc handler", zap.Error(err))

	return ierr.New(ierr.ErrorCodeInternal, errors.New("internal error"))
}

func decodeParams(params *json.RawMessage, v any) error {
	if params == nil {
		return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("missing params"))
	}

	if err := json.Unmarshal(*params, v); err != nil {
		return ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("invalid params: "+err.Error()))
	}

	return nil
}
