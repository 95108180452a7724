package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"colortool/internal/store"
)

// ListHistory 最近的处理记录
// GET /api/history?limit=N
func (h *Handler) ListHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "处理历史未启用"})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 limit 参数"})
			return
		}
		limit = n
	}

	runs, err := h.history.ListRuns(limit)
	if err != nil {
		h.logger.WithError(err).Error("failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询处理历史失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetHistory 单条处理记录
// GET /api/history/:id
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "处理历史未启用"})
		return
	}

	run, err := h.history.GetRun(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "记录不存在"})
			return
		}
		h.logger.WithError(err).Error("failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询处理历史失败"})
		return
	}
	c.JSON(http.StatusOK, run)
}
