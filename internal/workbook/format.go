package workbook

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yamitzky/xlrd-go/xlrd"
)

// Format 工作簿格式
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// DetectFormat 优先按扩展名判断，扩展名未知时按内容嗅探
func DetectFormat(filename string, content []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	}

	if bytes.HasPrefix(content, zipMagic) {
		return FormatXLSX, nil
	}
	if len(content) > 0 {
		if kind, err := xlrd.InspectFormat("", content); err == nil && kind == "xls" {
			return FormatXLS, nil
		}
	}
	return "", fmt.Errorf("unsupported workbook format: %s", filename)
}
