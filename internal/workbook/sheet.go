package workbook

import (
	"errors"
	"strings"

	"colortool/internal/model"
)

// DefaultSourceSheet 源文件中优先读取的工作表
const DefaultSourceSheet = "完整配色表"

var sourceSheetKeywords = []string{"配色", "颜色", "color", "Color"}

// PickSourceSheet 选择源数据工作表：指定名称 > 名称含配色关键词 > 第一个
func PickSourceSheet(names []string, preferred string) string {
	if len(names) == 0 {
		return ""
	}
	if preferred == "" {
		preferred = DefaultSourceSheet
	}
	for _, n := range names {
		if n == preferred {
			return n
		}
	}
	for _, n := range names {
		for _, kw := range sourceSheetKeywords {
			if strings.Contains(n, kw) {
				return n
			}
		}
	}
	return names[0]
}

// LoadTable 读取 RSC 工作簿的活动工作表
func LoadTable(filename string, content []byte) (*model.Table, error) {
	wb, err := Open(filename, content)
	if err != nil {
		return nil, err
	}
	sheet, err := wb.ActiveSheet()
	if err != nil {
		return nil, err
	}
	return sheet.Table(), nil
}

// LoadRecords 读取源工作簿中的配色记录，返回记录与实际使用的工作表名
func LoadRecords(filename string, content []byte, preferred string) ([]model.SourceRecord, string, error) {
	wb, err := Open(filename, content)
	if err != nil {
		return nil, "", err
	}
	name := PickSourceSheet(wb.SheetNames(), preferred)
	sheet, ok := wb.Sheet(name)
	if !ok {
		return nil, "", errors.New("workbook has no sheets")
	}
	return sheet.Records(), name, nil
}
