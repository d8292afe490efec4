package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/goevery/ordercast/internal/broadcaster"
)

// RegisterChefRequest accepts either a bare identifier ("alice") or an
// object ({"chefId":"alice"}).
type RegisterChefRequest struct {
	ChefId string `json:"chefId"`
}

func (r *RegisterChefRequest) UnmarshalJSON(data []byte) error {
	var chefId string
	if err := json.Unmarshal(data, &chefId); err == nil {
		r.ChefId = chefId

		return nil
	}

	type plain RegisterChefRequest

	return json.Unmarshal(data, (*plain)(r))
}

type RegisterChefResponse struct {
	ConnectionId string    `json:"connectionId"`
	ChefId       string    `json:"chefId"`
	Timestamp    time.Time `json:"timestamp"`
}

type RegisterChefHandlerInterface interface {
	Handle(ctx context.Context, req RegisterChefRequest) (RegisterChefResponse, error)
}

type RegisterChefHandler struct {
	chefIdValidator *ChefIdValidator
	registry        broadcaster.Registry
}

func NewRegisterChefHandler(
	chefIdValidator *ChefIdValidator,
	registry broadcaster.Registry,
) *RegisterChefHandler {
	return &RegisterChefHandler{
		chefIdValidator,
		registry,
	}
}

func (h *RegisterChefHandler) Handle(ctx context.Context, req RegisterChefRequest) (RegisterChefResponse, error) {
	err := h.chefIdValidator.Validate(req.ChefId)
	if err != nil {
		return RegisterChefResponse{}, err
	}

	connection, ok := broadcaster.ConnectionFromContext(ctx)
	if !ok {
		return RegisterChefResponse{}, errors.New("connection not found in context")
	}

	err = h.registry.Register(connection, req.ChefId)
	if err != nil {
		return RegisterChefResponse{}, err
	}

	return RegisterChefResponse{
		ConnectionId: connection.Id,
		ChefId:       req.ChefId,
		Timestamp:    time.Now(),
	}, nil
}
