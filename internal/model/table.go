package model

import "encoding/json"

// Table 目标表：首行为表头，其余为与表头对齐的数据行
type Table struct {
	SheetName string
	Header    []string
	Rows      [][]Cell
}

// ColumnIndex 返回列名对应的索引，不存在返回 -1（重名列取第一个）
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// HasColumn 是否存在该列
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Clone 深拷贝
func (t *Table) Clone() *Table {
	out := &Table{
		SheetName: t.SheetName,
		Header:    append([]string(nil), t.Header...),
		Rows:      make([][]Cell, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]Cell(nil), row...)
	}
	return out
}

// Matrix 表头 + 数据行的二维形式
func (t *Table) Matrix() [][]Cell {
	out := make([][]Cell, 0, len(t.Rows)+1)
	header := make([]Cell, len(t.Header))
	for i, h := range t.Header {
		header[i] = StringCell(h)
	}
	out = append(out, header)
	out = append(out, t.Rows...)
	return out
}

// MarshalJSON 以二维数组输出
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Matrix())
}

// SourceRecord 源数据的一行：字段名 -> 单元格
type SourceRecord map[string]Cell

// Get 读取字段，ok 表示字段存在（即使为空）
func (r SourceRecord) Get(field string) (Cell, bool) {
	c, ok := r[field]
	return c, ok
}
