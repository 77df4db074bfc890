package handler

import (
	"net/http"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/dto"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/response"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/validator"
	"github.com/gin-gonic/gin"
)

type XPHandler struct {
	xpService *service.XPService
}

func NewXPHandler(xpService *service.XPService) *XPHandler {
	return &XPHandler{xpService: xpService}
}

func (h *XPHandler) GetSummary(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	info, err := h.xpService.GetXPInfo(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": info})
}

func (h *XPHandler) GetHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query dto.PaginationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	entries, total, err := h.xpService.History(c.Request.Context(), userID, query.Page, query.PageSize)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      entries,
		"total":     total,
		"page":      query.Page,
		"page_size": query.PageSize,
	})
}

// AdjustXP is the admin-only signed correction path.
func (h *XPHandler) AdjustXP(c *gin.Context) {
	var req dto.AdjustXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.xpService.Adjust(c.Request.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
