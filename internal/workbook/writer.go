package workbook

import (
	"fmt"
	"io"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/xuri/excelize/v2"

	"colortool/internal/model"
	"colortool/internal/theme"
)

const (
	defaultSheetName = "Sheet"
	reportSheetName  = "更新记录"
)

// WriteOptions 导出选项
type WriteOptions struct {
	Highlight     bool // 用颜色值本身填充已写入的通道单元格
	IncludeReport bool // 追加“更新记录”工作表
}

// Exporter 结果工作簿导出器
type Exporter struct {
	opts WriteOptions
}

// NewExporter 创建导出器
func NewExporter(opts WriteOptions) *Exporter {
	return &Exporter{opts: opts}
}

// Export 将更新结果渲染为新的工作簿
func (e *Exporter) Export(res *model.UpdateResult) (*excelize.File, error) {
	if res == nil || res.Table == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	t := res.Table

	f := excelize.NewFile()
	sheetName := t.SheetName
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, c := range row {
			values[j] = cellValue(c)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if e.opts.Highlight {
		if err := highlightChannels(f, sheetName, res); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	if e.opts.IncludeReport {
		if err := writeReportSheet(f, res); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

// Write 导出并写入 w
func (e *Exporter) Write(w io.Writer, res *model.UpdateResult) error {
	f, err := e.Export(res)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return f.Write(w)
}

func cellValue(c model.Cell) interface{} {
	switch c.Kind {
	case model.CellString:
		return c.Str
	case model.CellNumber:
		return c.Num
	default:
		return nil
	}
}

func highlightChannels(f *excelize.File, sheetName string, res *model.UpdateResult) error {
	styles := make(map[string]int)
	rowNum := res.RowIndex + 2

	for _, entry := range res.UpdatedColors {
		hex, ok := theme.NormalizeHex(entry.Value)
		if !ok {
			continue
		}
		col := res.Table.ColumnIndex(entry.Channel)
		if col < 0 {
			continue
		}

		styleID, ok := styles[hex]
		if !ok {
			id, err := f.NewStyle(&excelize.Style{
				Font: &excelize.Font{Color: "#" + contrastFontColor(hex)},
				Fill: excelize.Fill{Type: "pattern", Color: []string{"#" + hex}, Pattern: 1},
			})
			if err != nil {
				return fmt.Errorf("failed to create style for %s: %w", hex, err)
			}
			styles[hex] = id
			styleID = id
		}

		cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
		if err := f.SetCellStyle(sheetName, cell, cell, styleID); err != nil {
			return fmt.Errorf("failed to style %s: %w", cell, err)
		}
	}
	return nil
}

// contrastFontColor 按 Lab 明度选择黑/白字色
func contrastFontColor(hex string) string {
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return "000000"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "000000"
	}
	return "FFFFFF"
}

func writeReportSheet(f *excelize.File, res *model.UpdateResult) error {
	if _, err := f.NewSheet(reportSheetName); err != nil {
		return fmt.Errorf("failed to create report sheet: %w", err)
	}

	rows := [][]interface{}{
		{"通道", "颜色代码", "颜色值", "是否默认值"},
	}
	for _, e := range res.UpdatedColors {
		isDefault := "否"
		if e.IsDefault {
			isDefault = "是"
		}
		rows = append(rows, []interface{}{e.Channel, e.ColorCode, e.Value, isDefault})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"主题", res.ThemeName},
		[]interface{}{"行索引", res.RowIndex},
		[]interface{}{"通道总数", res.Summary.Total},
		[]interface{}{"已更新", res.Summary.Updated},
		[]interface{}{"未找到", res.Summary.NotFound},
	)
	for _, msg := range res.Summary.Errors {
		rows = append(rows, []interface{}{"错误", msg})
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(reportSheetName, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", i+1, err)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetRowStyle(reportSheetName, 1, 1, headerStyle)
	_ = f.SetColWidth(reportSheetName, "A", "D", 14)
	return nil
}

// DownloadFilename 导出文件名
func DownloadFilename(t time.Time) string {
	return fmt.Sprintf("RSC_Theme_Updated_%s.xlsx", t.Format("20060102_150405"))
}
