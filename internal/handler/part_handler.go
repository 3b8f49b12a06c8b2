package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/internal/service/part"
)

type PartHandler struct {
	partService *part.Service
	logger      *zap.Logger
}

func NewPartHandler(partService *part.Service, logger *zap.Logger) *PartHandler {
	return &PartHandler{partService: partService, logger: logger}
}

func (h *PartHandler) List(c *gin.Context) {
	parts, err := h.partService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list parts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch parts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"parts": parts})
}

func (h *PartHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid part id"})
		return
	}

	p, err := h.partService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "part not found"})
			return
		}
		h.logger.Error("Failed to get part", zap.Int64("part_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch part"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"part": p})
}

func (h *PartHandler) Create(c *gin.Context) {
	var p model.Part
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.partService.Create(c.Request.Context(), &p, CurrentUserID(c))
	if err != nil {
		if isPartValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create part", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create part"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *PartHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid part id"})
		return
	}

	var p model.Part
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = id

	if err := h.partService.Update(c.Request.Context(), &p, CurrentUserID(c)); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "part not found"})
		case isPartValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to update part", zap.Int64("part_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update part"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PartHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid part id"})
		return
	}

	if err := h.partService.Delete(c.Request.Context(), id, CurrentUserID(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "part not found"})
			return
		}
		h.logger.Error("Failed to delete part", zap.Int64("part_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete part"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isPartValidationError(err error) bool {
	return errors.Is(err, part.ErrMissingName) ||
		errors.Is(err, part.ErrNegativeStock) ||
		errors.Is(err, part.ErrNegativeMinimum)
}
