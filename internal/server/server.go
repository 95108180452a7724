package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"colortool/internal/api"
	"colortool/internal/config"
	"colortool/internal/service"
	"colortool/internal/store"
)

const dbFileName = "colortool.db"

// Server HTTP 服务器
type Server struct {
	router *gin.Engine
	http   *http.Server
	store  *store.Store
	logger *logrus.Logger
}

// NewServer 创建服务器：初始化数据目录、历史存储、处理器与路由
func NewServer(cfg *config.AppConfig, logger *logrus.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = config.GetLogger()
	}

	s := &Server{logger: logger}

	procOpts := service.Options{
		Mappings:      cfg.EffectiveMappings(),
		ClampRGB:      cfg.Theme.ClampRGB,
		SourceSheet:   cfg.Theme.SourceSheet,
		Highlight:     cfg.Theme.HighlightCells,
		IncludeReport: cfg.Theme.IncludeReport,
		Logger:        logger,
	}
	apiOpts := api.Options{
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		Logger:         logger,
	}

	if cfg.Data.History {
		if _, err := config.EnsureDataDir(cfg); err != nil {
			return nil, fmt.Errorf("failed to prepare data directory: %w", err)
		}
		st, err := store.New(config.GetDataPath(cfg, dbFileName))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		s.store = st

		// 已保存的映射覆盖优先于配置文件
		saved, err := st.GetMappings()
		if err != nil {
			_ = st.Close()
			return nil, err
		}
		if len(saved) > 0 {
			procOpts.Mappings = saved
		}

		procOpts.Recorder = st
		apiOpts.History = st
		apiOpts.Mappings = st
	}

	processor, err := service.NewProcessor(procOpts)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(logger))
	s.router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	handler := api.NewHandler(processor, apiOpts)
	handler.RegisterRoutes(s.router.Group("/api"))

	return s, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AddAllowMethods("GET", "POST", "PUT", "OPTIONS")
	c.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	c.AddExposeHeaders("Content-Disposition", "X-Theme-Row-Index", "X-Theme-Updated",
		"X-Theme-Not-Found", "X-Theme-Created", "X-Theme-Run-Id", "X-Request-Id")
	return c
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到关闭
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭并释放存储
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	s.closeStore()
	return err
}

func (s *Server) closeStore() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.WithError(err).Warn("failed to close store")
		}
		s.store = nil
	}
}
