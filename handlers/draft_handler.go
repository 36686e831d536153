package handlers

import (
	"encoding/json"

	"prompthub/helper"
	"prompthub/models"
	"prompthub/services"

	"github.com/gin-gonic/gin"
)

// The draft slot is keyed by this header alone, not by the
// authenticated user: one device, one draft.
const deviceIDHeader = "X-Device-ID"

type DraftHandler struct {
	draftService services.DraftService
	Helper       *helper.HTTPHelper
}

func NewDraftHandler(draftService services.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService, Helper: helper.NewHTTPHelper()}
}

func (h *DraftHandler) SaveDraft(c *gin.Context) {
	var form models.JSONMap
	if err := c.ShouldBindJSON(&form); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	draft, err := h.draftService.SaveDraft(c.Request.Context(), c.GetHeader(deviceIDHeader), form)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Draft saved", draft)
}

func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft, err := h.draftService.GetDraft(c.Request.Context(), c.GetHeader(deviceIDHeader))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	if draft == nil {
		h.Helper.SendSuccess(c, "No draft", gin.H{"draft": nil})
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"draft": draft})
}

func (h *DraftHandler) ClearDraft(c *gin.Context) {
	if err := h.draftService.ClearDraft(c.Request.Context(), c.GetHeader(deviceIDHeader)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Draft cleared", h.Helper.EmptyJsonMap())
}

// SavePreview stores a one-shot payload and returns the token that
// redeems it.
func (h *DraftHandler) SavePreview(c *gin.Context) {
	var payload json.RawMessage
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	token, err := h.draftService.SavePreview(c.Request.Context(), payload)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Preview stored", gin.H{"token": token})
}

func (h *DraftHandler) TakePreview(c *gin.Context) {
	payload, err := h.draftService.TakePreview(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{"preview": payload})
}
