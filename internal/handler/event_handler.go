package handler

import (
	"net/http"

	"github.com/JohnMarkCapones/Aralify-sub003/internal/dto"
	"github.com/JohnMarkCapones/Aralify-sub003/internal/service"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/response"
	"github.com/JohnMarkCapones/Aralify-sub003/pkg/validator"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	intake   *service.EventIntake
	leveling *service.LevelingService
}

func NewEventHandler(intake *service.EventIntake, leveling *service.LevelingService) *EventHandler {
	return &EventHandler{intake: intake, leveling: leveling}
}

// ReportEvent accepts one "the user did X" event and runs the engine's
// award + activity pipeline for it.
func (h *EventHandler) ReportEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.DomainEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	result, err := h.intake.Handle(c.Request.Context(), userID, service.DomainEvent{
		Type:            req.Type,
		EntityID:        req.EntityID,
		Difficulty:      req.Difficulty,
		Perfect:         req.Perfect,
		DurationSeconds: req.DurationSeconds,
		EventSlug:       req.EventSlug,
	})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// GetReferenceData serves the level/rank/source catalog for client display.
func (h *EventHandler) GetReferenceData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.intake.ReferenceData(h.leveling)})
}
