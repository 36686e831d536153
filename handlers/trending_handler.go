package handlers

import (
	"encoding/json"
	"net/http"

	"prompthub/helper"
	"prompthub/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type TrendingHandler struct {
	trendingService services.TrendingService
	hub             *TrendingHub
	logger          *zap.Logger
	upgrader        websocket.Upgrader
	Helper          *helper.HTTPHelper
}

func NewTrendingHandler(trendingService services.TrendingService, hub *TrendingHub, logger *zap.Logger) *TrendingHandler {
	return &TrendingHandler{
		trendingService: trendingService,
		hub:             hub,
		logger:          logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		Helper: helper.NewHTTPHelper(),
	}
}

// GetTrending returns the current board for clients that poll instead
// of subscribing.
func (h *TrendingHandler) GetTrending(c *gin.Context) {
	h.Helper.SendSuccess(c, "Success", h.trendingService.Snapshot())
}

// ServeWS upgrades the connection and subscribes it to board updates.
// The current snapshot is pushed immediately so a new subscriber does
// not wait for the next change.
func (h *TrendingHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.add(conn)
	go client.writePump()

	if payload, err := json.Marshal(h.trendingService.Snapshot()); err == nil {
		select {
		case client.send <- payload:
		default:
		}
	}

	go client.readPump(h.hub)
}
