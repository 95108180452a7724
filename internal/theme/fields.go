package theme

import "colortool/internal/model"

// FieldAliases 源表逻辑字段的候选列名，按优先级排列
type FieldAliases struct {
	Code []string // 颜色代码
	Hex  []string // 16 进制颜色值
	R    string
	G    string
	B    string
}

// DefaultFieldAliases 默认字段别名
func DefaultFieldAliases() FieldAliases {
	return FieldAliases{
		Code: []string{"颜色代码", "colorCode", "code", "代码"},
		Hex:  []string{"16进制值", "颜色值", "hex", "HEX", "hexValue"},
		R:    "R值",
		G:    "G值",
		B:    "B值",
	}
}

// withDefaults 逐项补齐未设置的别名
func (a FieldAliases) withDefaults() FieldAliases {
	d := DefaultFieldAliases()
	if len(a.Code) == 0 {
		a.Code = d.Code
	}
	if len(a.Hex) == 0 {
		a.Hex = d.Hex
	}
	if a.R == "" {
		a.R = d.R
	}
	if a.G == "" {
		a.G = d.G
	}
	if a.B == "" {
		a.B = d.B
	}
	return a
}

// firstTruthy 按顺序返回第一个有值的字段
func firstTruthy(rec model.SourceRecord, fields []string) (model.Cell, bool) {
	for _, f := range fields {
		if c, ok := rec.Get(f); ok && c.Truthy() {
			return c, true
		}
	}
	return model.Cell{}, false
}
