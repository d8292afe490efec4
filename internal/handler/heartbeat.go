package handler

import (
	"context"
	"time"
)

type HeartbeatResponse struct {
	Timestamp time.Time `json:"timestamp"`
}

type HeartbeatHandlerInterface interface {
	Handle(ctx context.Context) (HeartbeatResponse, error)
}

type HeartbeatHandler struct{}

func NewHeartbeatHandler() *HeartbeatHandler {
	return &HeartbeatHandler{}
}

func (h *HeartbeatHandler) Handle(ctx context.Context) (HeartbeatResponse, error) {
	return HeartbeatResponse{
		Timestamp: time.Now(),
	}, nil
}
