package model

// ChannelMapping 主题通道 -> 颜色代码 映射
type ChannelMapping struct {
	Channel   string `json:"channel" toml:"channel"`      // RSC 目标列
	Purpose   string `json:"purpose" toml:"purpose"`      // 作用说明
	ColorCode string `json:"colorCode" toml:"color_code"` // 源表颜色代码
}

// UpdateEntry 单个通道的更新记录
type UpdateEntry struct {
	Channel   string `json:"channel"`
	ColorCode string `json:"colorCode"`
	Value     string `json:"value"`
	IsDefault bool   `json:"isDefault"` // 未找到匹配，使用了默认值
}

// Summary 更新汇总
type Summary struct {
	Total    int      `json:"total"`
	Updated  int      `json:"updated"`
	NotFound int      `json:"notFound"`
	Errors   []string `json:"errors"`
}

// UpdateResult 主题更新结果
type UpdateResult struct {
	Table         *Table        `json:"data"`
	UpdatedColors []UpdateEntry `json:"updatedColors"`
	Summary       Summary       `json:"summary"`
	ThemeName     string        `json:"themeName"`
	RowIndex      int           `json:"rowIndex"` // 数据行索引（不含表头，从 0 开始）
	Created       bool          `json:"created"`  // 是否新建了主题行
}
