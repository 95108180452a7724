package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"colortool/internal/model"
	"colortool/internal/theme"
)

// MappingPayload 单项映射
type MappingPayload struct {
	Channel   string `json:"channel" binding:"required,notblank,max=32"`
	Purpose   string `json:"purpose" binding:"max=64"`
	ColorCode string `json:"colorCode" binding:"required,notblank,max=32"`
}

// UpdateMappingsRequest 替换映射表请求；空列表恢复默认映射
type UpdateMappingsRequest struct {
	Mappings []MappingPayload `json:"mappings" binding:"dive"`
}

// GetMappings 当前映射表
// GET /api/mappings
func (h *Handler) GetMappings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mappings":      h.processor.Mappings(),
		"fallbackColor": theme.FallbackColor,
	})
}

// UpdateMappings 替换映射表
// PUT /api/mappings
func (h *Handler) UpdateMappings(c *gin.Context) {
	var req UpdateMappingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的映射数据", "details": validationDetails(err)})
		return
	}

	mappings := make([]model.ChannelMapping, len(req.Mappings))
	for i, m := range req.Mappings {
		mappings[i] = model.ChannelMapping{Channel: m.Channel, Purpose: m.Purpose, ColorCode: m.ColorCode}
	}
	if len(mappings) > 0 {
		if err := theme.ValidateMappings(mappings); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的映射数据", "details": err.Error()})
			return
		}
	}

	if h.mappings != nil {
		if err := h.mappings.ReplaceMappings(mappings); err != nil {
			h.logger.WithError(err).Error("failed to persist mappings")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "保存映射失败"})
			return
		}
	}
	if err := h.processor.SetMappings(mappings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的映射数据", "details": err.Error()})
		return
	}

	h.logger.WithField("count", len(h.processor.Mappings())).Info("channel mappings updated")
	c.JSON(http.StatusOK, gin.H{"mappings": h.processor.Mappings()})
}
