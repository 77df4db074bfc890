package handler

import (
	"net/http"
	"strconv"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/dto"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/apperror"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/response"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/validator"
	"github.com/gin-gonic/gin"
)

type BadgeHandler struct {
	badges *service.BadgeManager
}

func NewBadgeHandler(badges *service.BadgeManager) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

func (h *BadgeHandler) List(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	list, err := h.badges.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": list})
}

// SetDisplayed toggles a badge display slot for the authenticated user.
func (h *BadgeHandler) SetDisplayed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	badgeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ResponseError(c, apperror.ErrBadRequest)
		return
	}

	var req dto.SetDisplayedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ub, err := h.badges.SetDisplayed(c.Request.Context(), userID, uint(badgeID), req.Displayed)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ub})
}
