package theme

import (
	"fmt"
	"strings"

	"colortool/internal/model"
)

// ResolverOptions 颜色查找选项
type ResolverOptions struct {
	Fields FieldAliases
	// ClampRGB 为 true 时 R/G/B 超出 0-255 的值被截断到边界；
	// 默认不截断，超范围的值会生成多于 2 位的十六进制片段
	ClampRGB bool
}

// Resolver 在源数据中按颜色代码查找颜色值
type Resolver struct {
	fields   FieldAliases
	clampRGB bool
}

// NewResolver 创建颜色查找器；Fields 中未设置的字段使用默认别名
func NewResolver(opts ResolverOptions) *Resolver {
	fields := opts.Fields.withDefaults()
	return &Resolver{
		fields:   fields,
		clampRGB: opts.ClampRGB,
	}
}

// Resolve 返回第一条颜色代码匹配且能取到合法颜色值的记录对应的 6 位十六进制颜色
func (r *Resolver) Resolve(records []model.SourceRecord, colorCode string) (string, bool) {
	target := strings.ToUpper(strings.TrimSpace(colorCode))

	for _, rec := range records {
		code, ok := firstTruthy(rec, r.fields.Code)
		if !ok {
			continue
		}
		if strings.ToUpper(strings.TrimSpace(code.Text())) != target {
			continue
		}

		if v, ok := r.hexValue(rec); ok {
			return v, true
		}
		if v, ok := r.rgbValue(rec); ok {
			return v, true
		}
	}
	return "", false
}

func (r *Resolver) hexValue(rec model.SourceRecord) (string, bool) {
	for _, f := range r.fields.Hex {
		c, ok := rec.Get(f)
		if !ok || !c.Truthy() {
			continue
		}
		if v, ok := NormalizeHex(c.Text()); ok {
			return v, true
		}
	}
	return "", false
}

func (r *Resolver) rgbValue(rec model.SourceRecord) (string, bool) {
	rc, okR := rec.Get(r.fields.R)
	gc, okG := rec.Get(r.fields.G)
	bc, okB := rec.Get(r.fields.B)
	if !okR || !okG || !okB {
		return "", false
	}

	red, ok := rc.Int()
	if !ok {
		return "", false
	}
	green, ok := gc.Int()
	if !ok {
		return "", false
	}
	blue, ok := bc.Int()
	if !ok {
		return "", false
	}

	if r.clampRGB {
		red, green, blue = clampByte(red), clampByte(green), clampByte(blue)
	}
	return fmt.Sprintf("%02X%02X%02X", red, green, blue), true
}

// NormalizeHex 去空白、转大写、去掉前导 #，仅接受恰好 6 位 [0-9A-F]
func NormalizeHex(raw string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, "#")
	if len(v) != 6 {
		return "", false
	}
	for i := 0; i < len(v); i++ {
		ch := v[i]
		if (ch < '0' || ch > '9') && (ch < 'A' || ch > 'F') {
			return "", false
		}
	}
	return v, true
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
