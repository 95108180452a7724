package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"colortool/internal/config"
	"colortool/internal/service"
	"colortool/internal/theme"
	"colortool/internal/util"
)

var (
	rscPath    = flag.String("rsc", "", "RSC 工作簿路径 (.xlsx/.xls/.csv)")
	sourcePath = flag.String("source", "", "配色源工作簿路径 (.xlsx/.xls/.csv)")
	themeName  = flag.String("theme", "", "主题名称 (匹配 notes 列)")
	outPath    = flag.String("out", "", "输出路径 (默认写入当前目录，使用带时间戳的文件名)")
	configPath = flag.String("config", "", "配置文件路径")
	jsonReport = flag.Bool("json", false, "以 JSON 输出处理报告")
	openResult = flag.Bool("open", false, "完成后用系统默认程序打开结果")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "themefill: %v\n", err)
		if errors.Is(err, service.ErrInvalidInput) || theme.IsStructural(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	if *rscPath == "" || *sourcePath == "" || *themeName == "" {
		flag.Usage()
		return fmt.Errorf("%w: -rsc, -source and -theme are required", service.ErrInvalidInput)
	}

	cfg, _, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		return err
	}
	logger := config.SetupLogger(cfg.Log)
	logger.SetOutput(os.Stderr)

	rscContent, err := os.ReadFile(*rscPath)
	if err != nil {
		return err
	}
	sourceContent, err := os.ReadFile(*sourcePath)
	if err != nil {
		return err
	}

	processor, err := service.NewProcessor(service.Options{
		Mappings:      cfg.EffectiveMappings(),
		ClampRGB:      cfg.Theme.ClampRGB,
		SourceSheet:   cfg.Theme.SourceSheet,
		Highlight:     cfg.Theme.HighlightCells,
		IncludeReport: cfg.Theme.IncludeReport,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	out, err := processor.Process(context.Background(), service.Input{
		RSCName:       filepath.Base(*rscPath),
		RSCContent:    rscContent,
		SourceName:    filepath.Base(*sourcePath),
		SourceContent: sourceContent,
		ThemeName:     *themeName,
	})
	if err != nil {
		return err
	}

	target := *outPath
	if target == "" {
		target = out.Filename
	}
	if err := os.WriteFile(target, out.Workbook, 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}

	if *jsonReport {
		if err := writeJSONReport(os.Stdout, out, target); err != nil {
			return err
		}
	} else {
		writeTextReport(os.Stdout, out, target)
	}

	if *openResult {
		if err := util.OpenPathWithFallback(target); err != nil {
			logger.WithError(err).Warn("failed to open result")
		}
	}
	return nil
}
