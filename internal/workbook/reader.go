package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/yamitzky/xlrd-go/xlrd"
	"golang.org/x/text/unicode/norm"

	"colortool/internal/model"
)

// Sheet 读入内存的单个工作表
type Sheet struct {
	Name string
	Rows [][]model.Cell
}

// Workbook 读入内存的工作簿（与具体文件格式无关）
type Workbook struct {
	Format Format
	Active int // 活动工作表索引
	Sheets []Sheet
}

// Open 读取工作簿内容；filename 仅用于判断格式
func Open(filename string, content []byte) (*Workbook, error) {
	format, err := DetectFormat(filename, content)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return readXLSX(content)
	case FormatXLS:
		return readXLS(content)
	case FormatCSV:
		return readCSV(filename, content)
	}
	return nil, fmt.Errorf("unsupported workbook format: %s", format)
}

// OpenFile 从磁盘读取工作簿
func OpenFile(path string) (*Workbook, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Open(filepath.Base(path), content)
}

// SheetNames 工作表名称列表
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet 按名称获取工作表
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

// ActiveSheet 活动工作表
func (w *Workbook) ActiveSheet() (*Sheet, error) {
	if len(w.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	idx := w.Active
	if idx < 0 || idx >= len(w.Sheets) {
		idx = 0
	}
	return &w.Sheets[idx], nil
}

func readXLSX(content []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	wb := &Workbook{Format: FormatXLSX}
	activeName := f.GetSheetName(f.GetActiveSheetIndex())

	for i, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}

		typed := make([][]model.Cell, len(rows))
		for r, row := range rows {
			cells := make([]model.Cell, len(row))
			for c, raw := range row {
				cells[c] = model.ParseCell(raw, isNumericCell(f, name, c+1, r+1))
			}
			typed[r] = cells
		}

		if name == activeName {
			wb.Active = i
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: typed})
	}
	return wb, nil
}

func isNumericCell(f *excelize.File, sheet string, col, row int) bool {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}
	ct, err := f.GetCellType(sheet, axis)
	if err != nil {
		return false
	}
	// 未标注类型的单元格按 OOXML 默认视为数值
	return ct == excelize.CellTypeNumber || ct == excelize.CellTypeUnset
}

func readXLS(content []byte) (*Workbook, error) {
	// xlrd 只接受文件路径
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("colortool_%s.xls", uuid.New().String()))
	if err := os.WriteFile(tmp, content, 0600); err != nil {
		return nil, fmt.Errorf("failed to stage xls: %w", err)
	}
	defer os.Remove(tmp)

	book, err := xlrd.OpenWorkbook(tmp, &xlrd.OpenWorkbookOptions{Logfile: io.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	defer book.ReleaseResources()

	wb := &Workbook{Format: FormatXLS}
	for i, name := range book.SheetNames() {
		sh, err := book.SheetByIndex(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		rows := make([][]model.Cell, sh.NRows)
		for r := 0; r < sh.NRows; r++ {
			cells := make([]model.Cell, sh.NCols)
			for c := 0; c < sh.NCols; c++ {
				cells[c] = xlsCell(sh.CellType(r, c), sh.CellValue(r, c))
			}
			rows[r] = cells
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

func xlsCell(ctype int, value interface{}) model.Cell {
	switch ctype {
	case xlrd.XL_CELL_EMPTY, xlrd.XL_CELL_BLANK:
		return model.EmptyCell()
	case xlrd.XL_CELL_NUMBER, xlrd.XL_CELL_DATE:
		switch v := value.(type) {
		case float64:
			return model.NumberCell(v)
		case int:
			return model.NumberCell(float64(v))
		}
	}
	if value == nil {
		return model.EmptyCell()
	}
	return model.ParseCell(fmt.Sprint(value), false)
}

func readCSV(filename string, content []byte) (*Workbook, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	rows := make([][]model.Cell, len(records))
	for i, rec := range records {
		cells := make([]model.Cell, len(rec))
		// CSV 没有类型信息，单元格一律按文本保留（如 00E676 不能被当作数值）
		for j, raw := range rec {
			cells[j] = model.ParseCell(raw, false)
		}
		rows[i] = cells
	}

	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" || name == "." {
		name = "Sheet1"
	}
	return &Workbook{
		Format: FormatCSV,
		Sheets: []Sheet{{Name: name, Rows: rows}},
	}, nil
}

// Table 将工作表转换为目标表：首行为表头，表头按最宽行补齐空列名
func (s *Sheet) Table() *model.Table {
	t := &model.Table{SheetName: s.Name}
	if len(s.Rows) == 0 {
		return t
	}

	width := 0
	for _, row := range s.Rows {
		if len(row) > width {
			width = len(row)
		}
	}

	t.Header = make([]string, width)
	for i, c := range s.Rows[0] {
		t.Header[i] = c.Text()
	}

	t.Rows = make([][]model.Cell, 0, len(s.Rows)-1)
	for _, row := range s.Rows[1:] {
		padded := make([]model.Cell, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

// Records 将工作表转换为源数据记录。列名做 NFKC 规范化与去空白；
// 空列名与重复列名（保留第一个）被忽略，整行为空的数据行被跳过。
func (s *Sheet) Records() []model.SourceRecord {
	if len(s.Rows) == 0 {
		return []model.SourceRecord{}
	}

	header := s.Rows[0]
	fields := make([]string, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, c := range header {
		name := NormalizeFieldName(c.Text())
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		fields[i] = name
	}

	records := make([]model.SourceRecord, 0, len(s.Rows)-1)
	for _, row := range s.Rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(model.SourceRecord, len(seen))
		for i, name := range fields {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = model.EmptyCell()
			}
		}
		records = append(records, rec)
	}
	return records
}

// NormalizeFieldName 源表列名规范化（全角转半角、去首尾空白）
func NormalizeFieldName(name string) string {
	return strings.TrimSpace(norm.NFKC.String(name))
}

func isBlankRow(row []model.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
