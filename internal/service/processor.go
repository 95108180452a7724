package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"colortool/internal/model"
	"colortool/internal/theme"
	"colortool/internal/workbook"
)

// ErrInvalidInput 上传内容无法作为工作簿读取，或缺少主题名
var ErrInvalidInput = errors.New("invalid input")

// RunRecorder 处理记录存储（可选）
type RunRecorder interface {
	CreateRun(themeName, rscFile, sourceFile string) (string, error)
	FinishRun(id, sourceSheet string, res *model.UpdateResult, runErr error) error
}

// Options 处理器配置
type Options struct {
	Mappings      []model.ChannelMapping // 为空时使用默认映射
	ClampRGB      bool
	SourceSheet   string
	Highlight     bool
	IncludeReport bool
	Recorder      RunRecorder // 为 nil 时不记录历史
	Logger        *logrus.Logger
	Now           func() time.Time
}

// Input 一次处理的输入
type Input struct {
	RSCName       string
	RSCContent    []byte
	SourceName    string
	SourceContent []byte
	ThemeName     string
}

// Output 一次处理的输出
type Output struct {
	RunID       string
	Result      *model.UpdateResult
	SourceSheet string
	Workbook    []byte
	Filename    string
}

// Processor 读取上传的工作簿，执行主题更新并导出结果
type Processor struct {
	mu       sync.RWMutex
	mappings []model.ChannelMapping

	resolver *theme.Resolver
	exporter *workbook.Exporter
	opts     Options
	logger   *logrus.Logger
}

// NewProcessor 创建处理器
func NewProcessor(opts Options) (*Processor, error) {
	mappings := opts.Mappings
	if len(mappings) == 0 {
		mappings = theme.DefaultMappings()
	}
	if err := theme.ValidateMappings(mappings); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Processor{
		mappings: append([]model.ChannelMapping(nil), mappings...),
		resolver: theme.NewResolver(theme.ResolverOptions{ClampRGB: opts.ClampRGB}),
		exporter: workbook.NewExporter(workbook.WriteOptions{
			Highlight:     opts.Highlight,
			IncludeReport: opts.IncludeReport,
		}),
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

// Mappings 当前映射表（副本）
func (p *Processor) Mappings() []model.ChannelMapping {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]model.ChannelMapping(nil), p.mappings...)
}

// SetMappings 替换映射表；传入空切片恢复默认映射
func (p *Processor) SetMappings(mappings []model.ChannelMapping) error {
	if len(mappings) == 0 {
		mappings = theme.DefaultMappings()
	}
	if err := theme.ValidateMappings(mappings); err != nil {
		return err
	}
	p.mu.Lock()
	p.mappings = append([]model.ChannelMapping(nil), mappings...)
	p.mu.Unlock()
	return nil
}

// Process 执行一次完整处理：读取、更新、导出、记录
func (p *Processor) Process(ctx context.Context, in Input) (*Output, error) {
	if in.ThemeName == "" || len(in.RSCContent) == 0 || len(in.SourceContent) == 0 {
		return nil, fmt.Errorf("%w: rsc file, source file and theme name are required", ErrInvalidInput)
	}

	log := p.logger.WithFields(logrus.Fields{
		"theme":  in.ThemeName,
		"rsc":    in.RSCName,
		"source": in.SourceName,
	})

	runID := ""
	if p.opts.Recorder != nil {
		id, err := p.opts.Recorder.CreateRun(in.ThemeName, in.RSCName, in.SourceName)
		if err != nil {
			// 历史记录失败不影响处理
			log.WithError(err).Warn("failed to create run record")
		} else {
			runID = id
			log = log.WithField("run_id", runID)
		}
	}

	out, err := p.process(ctx, in)

	if runID != "" {
		var res *model.UpdateResult
		sheet := ""
		if out != nil {
			res, sheet = out.Result, out.SourceSheet
		}
		if ferr := p.opts.Recorder.FinishRun(runID, sheet, res, err); ferr != nil {
			log.WithError(ferr).Warn("failed to finish run record")
		}
	}

	if err != nil {
		log.WithError(err).Error("theme processing failed")
		return nil, err
	}

	out.RunID = runID

	log.WithFields(logrus.Fields{
		"row_index": out.Result.RowIndex,
		"created":   out.Result.Created,
		"total":     out.Result.Summary.Total,
		"updated":   out.Result.Summary.Updated,
		"not_found": out.Result.Summary.NotFound,
	}).Info("theme processed")
	return out, nil
}

func (p *Processor) process(ctx context.Context, in Input) (*Output, error) {
	dest, err := workbook.LoadTable(in.RSCName, in.RSCContent)
	if err != nil {
		return nil, fmt.Errorf("%w: rsc file: %v", ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, sheet, err := workbook.LoadRecords(in.SourceName, in.SourceContent, p.opts.SourceSheet)
	if err != nil {
		return nil, fmt.Errorf("%w: source file: %v", ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := theme.NewUpdater(p.Mappings(), p.resolver).Update(dest, records, in.ThemeName)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := p.exporter.Write(&buf, res); err != nil {
		return nil, fmt.Errorf("failed to export workbook: %w", err)
	}

	return &Output{
		Result:      res,
		SourceSheet: sheet,
		Workbook:    buf.Bytes(),
		Filename:    workbook.DownloadFilename(p.opts.Now()),
	}, nil
}

// IsClientError 是否为输入方面的错误（HTTP 400）
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || theme.IsStructural(err)
}
