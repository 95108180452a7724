package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"colortool/internal/config"
	"colortool/internal/server"
	"colortool/internal/util"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认为可执行文件同目录下的 config.toml)")
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  ColorTool - RSC 主题配色填充工具")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
		cfg.Log.Level = "debug"
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	logger := config.SetupLogger(cfg.Log)

	// 端口未显式指定时自动避开被占用的端口
	if !info.PortSpecified && *port == 0 {
		if p, err := util.FindAvailablePort(cfg.Server.Port, 20); err == nil {
			cfg.Server.Port = p
		}
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		config.LogError(logger, "main", "main", "create server", nil, err)
		os.Exit(1)
	}
	if cfg.Data.History {
		logger.WithField("data_dir", config.ResolveDataDir(cfg)).Info("run history enabled")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.WithField("addr", addr).Info("server listening")
		if err := srv.Run(addr); err != nil {
			config.LogError(logger, "main", "Run", "listen", addr, err)
			os.Exit(1)
		}
	}()

	fmt.Printf("接口地址: http://localhost:%d/api\n", cfg.Server.Port)
	fmt.Println("\n按 Ctrl+C 停止服务...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		config.LogError(logger, "main", "Shutdown", "graceful shutdown", nil, err)
	}
}
