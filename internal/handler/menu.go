package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/goevery/ordercast/internal/ierr"
	"github.com/goevery/ordercast/internal/persistence"
)

var ErrMenuNotFound = errors.New("menu not found")

type GetMenuRequest struct {
	ChefId string
}

type GetMenuHandlerInterface interface {
	Handle(ctx context.Context, req GetMenuRequest) (persistence.Snapshot, error)
}

type GetMenuHandler struct {
	chefIdValidator   *ChefIdValidator
	persistenceEngine persistence.Engine
}

func NewGetMenuHandler(
	chefIdValidator *ChefIdValidator,
	persistenceEngine persistence.Engine,
) *GetMenuHandler {
	return &GetMenuHandler{
		chefIdValidator,
		persistenceEngine,
	}
}

func (h *GetMenuHandler) Handle(ctx context.Context, req GetMenuRequest) (persistence.Snapshot, error) {
	err := h.chefIdValidator.Validate(req.ChefId)
	if err != nil {
		return nil, err
	}

	snapshot, err := h.persistenceEngine.Get(ctx, req.ChefId)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, ierr.New(ierr.ErrorCodeNotFound, ErrMenuNotFound)
	}
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

type SaveMenuRequest struct {
	ChefId string
	Body   []byte
}

type SaveMenuResponse struct {
	Success bool `json:"success"`
}

type SaveMenuHandlerInterface interface {
	Handle(ctx context.Context, req SaveMenuRequest) (SaveMenuResponse, error)
}

type SaveMenuHandler struct {
	chefIdValidator   *ChefIdValidator
	persistenceEngine persistence.Engine
}

func NewSaveMenuHandler(
	chefIdValidator *ChefIdValidator,
	persistenceEngine persistence.Engine,
) *SaveMenuHandler {
	return &SaveMenuHandler{
		chefIdValidator,
		persistenceEngine,
	}
}

// Handle stores any well-formed JSON object as the chef's snapshot. The shape
// of the menu is not checked.
func (h *SaveMenuHandler) Handle(ctx context.Context, req SaveMenuRequest) (SaveMenuResponse, error) {
	err := h.chefIdValidator.Validate(req.ChefId)
	if err != nil {
		return SaveMenuResponse{}, err
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, req.Body); err != nil {
		return SaveMenuResponse{},
			ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("menu must be valid JSON"))
	}

	if compacted.Len() == 0 || compacted.Bytes()[0] != '{' {
		return SaveMenuResponse{},
			ierr.New(ierr.ErrorCodeInvalidArgument, errors.New("menu must be a JSON object"))
	}

	err = h.persistenceEngine.Put(ctx, req.ChefId, compacted.Bytes())
	if err != nil {
		return SaveMenuResponse{}, err
	}

	return SaveMenuResponse{
		Success: true,
	}, nil
}
