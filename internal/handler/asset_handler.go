package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medmaint/internal/model"
	"medmaint/internal/repository"
	"medmaint/internal/service/asset"
)

type AssetHandler struct {
	assetService *asset.Service
	logger       *zap.Logger
}

func NewAssetHandler(assetService *asset.Service, logger *zap.Logger) *AssetHandler {
	return &AssetHandler{assetService: assetService, logger: logger}
}

func (h *AssetHandler) List(c *gin.Context) {
	filter := repository.AssetFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	assets, err := h.assetService.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list assets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch assets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	a, err := h.assetService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		h.logger.Error("Failed to get asset", zap.Int64("asset_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch asset"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": a})
}

func (h *AssetHandler) Create(c *gin.Context) {
	var a model.Asset
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.assetService.Create(c.Request.Context(), &a, CurrentUserID(c))
	if err != nil {
		if errors.Is(err, asset.ErrMissingName) || errors.Is(err, asset.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create asset"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *AssetHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	var a model.Asset
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.ID = id

	if err := h.assetService.Update(c.Request.Context(), &a, CurrentUserID(c)); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
		case errors.Is(err, asset.ErrMissingName), errors.Is(err, asset.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to update asset", zap.Int64("asset_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update asset"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AssetHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return
	}

	if err := h.assetService.Delete(c.Request.Context(), id, CurrentUserID(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "asset not found"})
			return
		}
		h.logger.Error("Failed to delete asset", zap.Int64("asset_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete asset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
