package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medmaint/internal/repository"
)

type ActivityHandler struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityHandler(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityRepo: activityRepo, logger: logger}
}

func (h *ActivityHandler) List(c *gin.Context) {
	filter := repository.ActivityFilter{
		EntityType: c.Query("entity_type"),
	}
	if raw := c.Query("entity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity_id"})
			return
		}
		filter.EntityID = &id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		filter.UserID = &id
	}
	if raw := c.Query("limit"); raw != "" {
		filter.Limit, _ = strconv.Atoi(raw)
	}

	entries, err := h.activityRepo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch activity"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}
