package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty  CellKind = iota // 空
	CellString                 // 文本
	CellNumber                 // 数值
)

// Cell 表格单元格（文本/数值/空 三态）
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
}

// EmptyCell 空单元格
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// StringCell 文本单元格
func StringCell(s string) Cell {
	return Cell{Kind: CellString, Str: s}
}

// NumberCell 数值单元格
func NumberCell(f float64) Cell {
	return Cell{Kind: CellNumber, Num: f}
}

// IsEmpty 是否为空单元格
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Text 单元格的文本形式；整数不带小数点
func (c Cell) Text() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Truthy 是否视为“有值”：非空文本、非零数值
func (c Cell) Truthy() bool {
	switch c.Kind {
	case CellString:
		return c.Str != ""
	case CellNumber:
		return c.Num != 0
	default:
		return false
	}
}

// Int 解析为整数。数值按截断取整，文本需整体为十进制整数（允许首尾空白与正负号）
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return 0, false
		}
		if math.Abs(c.Num) > 1<<53 {
			return 0, false
		}
		return int(math.Trunc(c.Num)), true
	case CellString:
		n, err := strconv.Atoi(strings.TrimSpace(c.Str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// MarshalJSON 空单元格输出 null，数值输出数字，文本输出字符串
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellString:
		return json.Marshal(c.Str)
	case CellNumber:
		if math.IsNaN(c.Num) || math.IsInf(c.Num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.Num)
	default:
		return []byte("null"), nil
	}
}

// ParseCell 将工作簿读出的原始文本转换为单元格；numeric 为 true 时尝试按数值解析
func ParseCell(raw string, numeric bool) Cell {
	if raw == "" {
		return EmptyCell()
	}
	if numeric {
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return NumberCell(f)
		}
	}
	return StringCell(raw)
}
