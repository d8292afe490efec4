package handler

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goevery/ordercast/internal/broadcaster"
	"go.uber.org/zap"
)

type SendOrderRequest struct {
	ChefId string            `json:"chefId" validate:"required,chefid"`
	Order  broadcaster.Order `json:"order"`
}

// SendOrderResponse never says whether a chef received the order.
type SendOrderResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

type SendOrderHandlerInterface interface {
	Handle(ctx context.Context, req SendOrderRequest) (SendOrderResponse, error)
}

type OrderPublisher interface {
	Publish(chefId string, order broadcaster.Order) int
}

type SendOrderHandler struct {
	logger    *zap.Logger
	validate  *validator.Validate
	publisher OrderPublisher
}

func NewSendOrderHandler(
	logger *zap.Logger,
	validate *validator.Validate,
	publisher OrderPublisher,
) *SendOrderHandler {
	return &SendOrderHandler{
		logger,
		validate,
		publisher,
	}
}

func (h *SendOrderHandler) Handle(ctx context.Context, req SendOrderRequest) (SendOrderResponse, error) {
	err := h.validate.StructCtx(ctx, req)
	if err != nil {
		return SendOrderResponse{}, validationError("invalid order", err)
	}

	delivered := h.publisher.Publish(req.ChefId, req.Order)

	h.logger.Debug("order published",
		zap.String("chefId", req.ChefId),
		zap.String("dish", req.Order.Name),
		zap.Int("recipients", delivered))

	return SendOrderResponse{
		Success:   true,
		Timestamp: time.Now(),
	}, nil
}
