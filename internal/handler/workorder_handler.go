package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/internal/service/workorder"
)

type WorkOrderHandler struct {
	woService *workorder.Service
	logger    *zap.Logger
}

func NewWorkOrderHandler(woService *workorder.Service, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{woService: woService, logger: logger}
}

func (h *WorkOrderHandler) List(c *gin.Context) {
	filter := repository.WorkOrderFilter{
		Status: c.Query("status"),
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		id, err := strconv.ParseInt(assignedTo, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_to"})
			return
		}
		filter.AssignedTo = &id
	}

	orders, err := h.woService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list work orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch work orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_orders": orders})
}

func (h *WorkOrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work order id"})
		return
	}

	w, err := h.woService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "work order not found"})
			return
		}
		h.logger.Error("Failed to get work order", zap.Int64("work_order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch work order"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"work_order": w})
}

func (h *WorkOrderHandler) Create(c *gin.Context) {
	var w model.WorkOrder
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.woService.Create(c.Request.Context(), &w, CurrentUserID(c))
	if err != nil {
		if isWorkOrderValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create work order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create work order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *WorkOrderHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work order id"})
		return
	}

	var w model.WorkOrder
	if err := c.ShouldBindJSON(&w); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w.ID = id

	if err := h.woService.Update(c.Request.Context(), &w, CurrentUserID(c)); err != nil {
		var transitionErr *workorder.InvalidTransitionError
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "work order not found"})
		case errors.As(err, &transitionErr):
			c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
		case isWorkOrderValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to update work order", zap.Int64("work_order_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update work order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WorkOrderHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work order id"})
		return
	}

	if err := h.woService.Delete(c.Request.Context(), id, CurrentUserID(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "work order not found"})
			return
		}
		h.logger.Error("Failed to delete work order", zap.Int64("work_order_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete work order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func isWorkOrderValidationError(err error) bool {
	return errors.Is(err, workorder.ErrInvalidType) ||
		errors.Is(err, workorder.ErrInvalidPriority) ||
		errors.Is(err, workorder.ErrInvalidStatus) ||
		errors.Is(err, workorder.ErrMissingDescription)
}
