package handlers

import (
	"strconv"

	"prompthub/helper"
	"prompthub/models"
	"prompthub/services"

	"github.com/gin-gonic/gin"
	"gopkg.in/go-playground/validator.v9"
)

type UserHandler struct {
	userService services.UserService
	Helper      *helper.HTTPHelper
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService, Helper: helper.NewHTTPHelper()}
}

func userIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func listPagination(c *gin.Context) models.Pagination {
	var params models.PromptListParams
	_ = c.ShouldBindQuery(&params)
	return params.Pagination()
}

// GetProfile returns the caller's own profile with derived stats.
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(currentUserID(c))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	if err := h.Helper.Validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			h.Helper.SendValidationError(c, verrs)
			return
		}
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.userService.UpdateProfile(currentUserID(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile updated", user)
}

// GetUser returns a public profile with derived stats.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	profile, err := h.userService.GetProfile(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", profile)
}

func (h *UserHandler) ListUserPrompts(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	page := listPagination(c)
	prompts, total, err := h.userService.ListOwned(id, c.Query("sort"), page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"prompts":    prompts,
		"pagination": h.Helper.GeneratePaging(c, page.PerPage, page.Page, total),
	})
}

func (h *UserHandler) ListUserForks(c *gin.Context) {
	id, ok := userIDParam(c)
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid user ID", h.Helper.EmptyJsonMap())
		return
	}

	page := listPagination(c)
	prompts, total, err := h.userService.ListForked(id, page)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", gin.H{
		"prompts":    prompts,
		"pagination": h.Helper.GeneratePaging(c, page.PerPage, page.Page, total),
	})
}

func (h *UserHandler) DeletePrompt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		h.Helper.SendBadRequest(c, "Invalid prompt ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.userService.DeletePrompt(uint(id), currentUserID(c)); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Prompt deleted", h.Helper.EmptyJsonMap())
}
