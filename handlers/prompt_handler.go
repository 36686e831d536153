package handlers

import (
	"strconv"

	"prompthub/helper"
	"prompthub/models"
	"prompthub/services"

	"github.com/gin-gonic/gin"
)

type PromptHandler struct {
	promptService services.PromptService
	authService   services.AuthService
	Helper        *helper.HTTPHelper
}

func NewPromptHandler(promptService services.PromptService, authService services.AuthService) *PromptHandler {
	return &PromptHandler{
		promptService: promptService,
		authService:   authService,
		Helper:        helper.NewHTTPHelper(),
	}
}

func promptID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *PromptHandler) currentUser(c *gin.Context) *models.User {
	userID := currentUserID(c)
	if userID == 0 {
		return nil
	}
	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		return nil
	}
	return user
}

func (h *PromptHandler) ListPrompts(c *gin.Context) {
	var params models.PromptListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	prompts, total, err := h.promptService.List(params)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	page := params.Pagination()
	h.Helper.SendSuccess(c, "Success", gin.H{
		"prompts":    prompts,
		"pagination": h.Helper.GeneratePaging(c, page.PerPage, page.Page, total),
	})
}

func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	user := h.currentUser(c)

	var req models.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	prompt, err := h.promptService.Create(req, user)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Prompt created", prompt)
}

func (h *PromptHandler) GetPrompt(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	detail, err := h.promptService.GetDetail(id, currentUserID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", detail)
}

func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	prompt, err := h.promptService.Update(id, req, currentUserID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Prompt updated", prompt)
}

func (h *PromptHandler) ForkPrompt(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	user := h.currentUser(c)

	var req models.CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	prompt, err := h.promptService.Fork(id, req, user)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Prompt forked", prompt)
}

func (h *PromptHandler) AddComment(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	user := h.currentUser(c)

	var req models.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.promptService.AddComment(id, req, user)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Comment added", comment)
}

// CopyPrompt records one use. Anonymous callers are counted too.
func (h *PromptHandler) CopyPrompt(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.promptService.Copy(id, currentUserID(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Usage recorded", h.Helper.EmptyJsonMap())
}

func (h *PromptHandler) ListVersions(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	versions, err := h.promptService.ListVersions(id, currentUserID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", versions)
}

func (h *PromptHandler) PurchasePrompt(c *gin.Context) {
	id, ok := promptID(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	purchase, err := h.promptService.Purchase(id, currentUserID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Purchase recorded", purchase)
}

func (h *PromptHandler) ListTags(c *gin.Context) {
	tags, err := h.promptService.ListTags()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", tags)
}
