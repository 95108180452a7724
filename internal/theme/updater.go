package theme

import (
	"fmt"
	"strconv"

	"colortool/internal/model"
)

const (
	notesColumn = "notes"
	idColumn    = "id"
)

// Updater 将源数据中的颜色写入 RSC 表的主题行
type Updater struct {
	mappings []model.ChannelMapping
	resolver *Resolver
}

// NewUpdater 创建主题更新器；mappings 为空时使用默认映射，resolver 为 nil 时使用默认查找器
func NewUpdater(mappings []model.ChannelMapping, resolver *Resolver) *Updater {
	if len(mappings) == 0 {
		mappings = DefaultMappings()
	}
	if resolver == nil {
		resolver = NewResolver(ResolverOptions{})
	}
	return &Updater{
		mappings: append([]model.ChannelMapping(nil), mappings...),
		resolver: resolver,
	}
}

// Mappings 当前使用的映射表（副本）
func (u *Updater) Mappings() []model.ChannelMapping {
	return append([]model.ChannelMapping(nil), u.mappings...)
}

// Update 定位或新建 themeName 对应的行，逐个通道写入颜色。
// 输入表不会被修改，结果中的表为更新后的副本。
func (u *Updater) Update(dest *model.Table, source []model.SourceRecord, themeName string) (*model.UpdateResult, error) {
	if dest == nil || len(dest.Header) == 0 {
		return nil, ErrEmptyTable
	}

	table := dest.Clone()
	if err := alignRows(table); err != nil {
		return nil, err
	}

	notesIdx := table.ColumnIndex(notesColumn)
	if notesIdx < 0 {
		return nil, ErrMissingNotesColumn
	}

	rowIndex, created := findOrCreateRow(table, notesIdx, themeName)

	result := &model.UpdateResult{
		Table:         table,
		UpdatedColors: make([]model.UpdateEntry, 0, len(u.mappings)),
		Summary:       model.Summary{Errors: []string{}},
		ThemeName:     themeName,
		RowIndex:      rowIndex,
		Created:       created,
	}

	row := table.Rows[rowIndex]
	for _, m := range u.mappings {
		col := table.ColumnIndex(m.Channel)
		if col < 0 {
			result.Summary.Errors = append(result.Summary.Errors, fmt.Sprintf("未找到列: %s", m.Channel))
			continue
		}

		result.Summary.Total++

		value, ok := u.resolver.Resolve(source, m.ColorCode)
		if !ok {
			value = FallbackColor
			result.Summary.NotFound++
		} else {
			result.Summary.Updated++
		}

		row[col] = model.StringCell(value)
		result.UpdatedColors = append(result.UpdatedColors, model.UpdateEntry{
			Channel:   m.Channel,
			ColorCode: m.ColorCode,
			Value:     value,
			IsDefault: !ok,
		})
	}

	return result, nil
}

// alignRows 短行补空单元格；表头之外存在非空值时报错
func alignRows(t *model.Table) error {
	width := len(t.Header)
	for i, row := range t.Rows {
		if len(row) < width {
			padded := make([]model.Cell, width)
			copy(padded, row)
			t.Rows[i] = padded
			continue
		}
		for j := width; j < len(row); j++ {
			if !row[j].IsEmpty() {
				return fmt.Errorf("row %d column %d: %w", i+1, j+1, ErrRaggedRow)
			}
		}
		t.Rows[i] = row[:width]
	}
	return nil
}

func findOrCreateRow(t *model.Table, notesIdx int, themeName string) (int, bool) {
	for i, row := range t.Rows {
		c := row[notesIdx]
		if c.Kind == model.CellString && c.Str == themeName {
			return i, false
		}
	}

	row := make([]model.Cell, len(t.Header))
	row[notesIdx] = model.StringCell(themeName)
	if idIdx := t.ColumnIndex(idColumn); idIdx >= 0 {
		row[idIdx] = model.StringCell(strconv.Itoa(maxID(t.Rows, idIdx) + 1))
	}
	t.Rows = append(t.Rows, row)
	return len(t.Rows) - 1, true
}

// maxID 现有 id 的最大值，非数字视为 0
func maxID(rows [][]model.Cell, idIdx int) int {
	maxVal := 0
	for _, row := range rows {
		if v := numericID(row[idIdx]); v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

func numericID(c model.Cell) int {
	switch c.Kind {
	case model.CellNumber:
		if c.Num >= 0 && c.Num == float64(int64(c.Num)) {
			return int(c.Num)
		}
	case model.CellString:
		if c.Str == "" {
			return 0
		}
		for i := 0; i < len(c.Str); i++ {
			if c.Str[i] < '0' || c.Str[i] > '9' {
				return 0
			}
		}
		if n, err := strconv.Atoi(c.Str); err == nil {
			return n
		}
	}
	return 0
}
