package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"colortool/internal/model"
	"colortool/internal/service"
)

const (
	defaultMaxUploadBytes = 20 << 20
	previewDownloadTTL    = 10 * time.Minute
)

// HistoryStore 处理记录查询
type HistoryStore interface {
	ListRuns(limit int) ([]model.Run, error)
	GetRun(id string) (*model.Run, error)
}

// MappingStore 映射覆盖持久化
type MappingStore interface {
	ReplaceMappings(mappings []model.ChannelMapping) error
}

// Options Handler 配置
type Options struct {
	History        HistoryStore // 为 nil 时历史接口返回 503
	Mappings       MappingStore // 为 nil 时映射修改只在内存中生效
	MaxUploadBytes int64
	Logger         *logrus.Logger
}

// Handler 主题处理 API
type Handler struct {
	processor      *service.Processor
	history        HistoryStore
	mappings       MappingStore
	maxUploadBytes int64
	downloads      *downloadStore
	logger         *logrus.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(processor *service.Processor, opts Options) *Handler {
	registerValidators()

	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Handler{
		processor:      processor,
		history:        opts.History,
		mappings:       opts.Mappings,
		maxUploadBytes: opts.MaxUploadBytes,
		downloads:      newDownloadStore(),
		logger:         opts.Logger,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 健康检查
	router.GET("/health", h.Health)

	// 主题处理
	router.POST("/process-theme", h.ProcessTheme)
	router.POST("/preview-theme", h.PreviewTheme)
	router.GET("/download/:token", h.Download)

	// 映射表
	router.GET("/mappings", h.GetMappings)
	router.PUT("/mappings", h.UpdateMappings)

	// 处理历史
	router.GET("/history", h.ListHistory)
	router.GET("/history/:id", h.GetHistory)
}
