package theme

import (
	"fmt"
	"strings"

	"colortool/internal/model"
)

// FallbackColor 未找到颜色时写入的默认值
const FallbackColor = "FFFFFF"

// DefaultMappings 返回默认的 13 项通道映射（每次调用返回新切片）
func DefaultMappings() []model.ChannelMapping {
	return []model.ChannelMapping{
		{Channel: "P1", Purpose: "地板颜色", ColorCode: "P1"},
		{Channel: "P5", Purpose: "跳板颜色", ColorCode: "P2"},
		{Channel: "G1", Purpose: "装饰颜色1", ColorCode: "G1"},
		{Channel: "G2", Purpose: "装饰颜色2", ColorCode: "G2"},
		{Channel: "G3", Purpose: "装饰颜色3", ColorCode: "G3"},
		{Channel: "G4", Purpose: "装饰颜色4", ColorCode: "G4"},
		{Channel: "P2", Purpose: "地板描边颜色", ColorCode: "P1-1"},
		{Channel: "P9", Purpose: "地板侧面颜色", ColorCode: "P1-2"},
		{Channel: "P6", Purpose: "跳板描边颜色", ColorCode: "P2-1"},
		{Channel: "P10", Purpose: "跳板侧面颜色", ColorCode: "P2-2"},
		{Channel: "G5", Purpose: "装饰颜色5", ColorCode: "G5"},
		{Channel: "G6", Purpose: "装饰颜色6", ColorCode: "G6"},
		{Channel: "G7", Purpose: "装饰颜色7", ColorCode: "G7"},
	}
}

// ValidateMappings 校验映射表：通道与颜色代码非空，通道不重复
func ValidateMappings(mappings []model.ChannelMapping) error {
	if len(mappings) == 0 {
		return fmt.Errorf("mapping table is empty")
	}
	seen := make(map[string]struct{}, len(mappings))
	for i, m := range mappings {
		if strings.TrimSpace(m.Channel) == "" {
			return fmt.Errorf("mapping #%d: empty channel", i+1)
		}
		if strings.TrimSpace(m.ColorCode) == "" {
			return fmt.Errorf("mapping #%d (%s): empty color code", i+1, m.Channel)
		}
		if _, ok := seen[m.Channel]; ok {
			return fmt.Errorf("mapping #%d: duplicate channel %q", i+1, m.Channel)
		}
		seen[m.Channel] = struct{}{}
	}
	return nil
}
