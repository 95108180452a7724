package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"colortool/internal/service"
	"colortool/internal/theme"
)

var (
	labelStyle   = lipgloss.NewStyle().Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5484D"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// swatch 终端色块；不支持颜色的终端输出空白
func swatch(hex string) string {
	if _, ok := theme.NormalizeHex(hex); !ok {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color("#" + hex)).Render("  ")
}

func writeTextReport(w io.Writer, out *service.Output, target string) {
	res := out.Result
	action := "更新"
	if res.Created {
		action = "新建"
	}
	fmt.Fprintf(w, "%s %q (行索引 %d)，源工作表: %s\n",
		labelStyle.Render(action+"主题行"), res.ThemeName, res.RowIndex, out.SourceSheet)

	for _, e := range res.UpdatedColors {
		line := fmt.Sprintf("  %-4s <- %-5s %s %s", e.Channel, e.ColorCode, swatch(e.Value), e.Value)
		if e.IsDefault {
			line += " " + missingStyle.Render("(未找到，使用默认值)")
		}
		fmt.Fprintln(w, line)
	}

	fmt.Fprintf(w, "通道 %d，更新 %d，未找到 %d\n", res.Summary.Total, res.Summary.Updated, res.Summary.NotFound)
	for _, msg := range res.Summary.Errors {
		fmt.Fprintln(w, dimStyle.Render("  ! "+msg))
	}
	fmt.Fprintf(w, "已写入: %s\n", target)
}

func writeJSONReport(w io.Writer, out *service.Output, target string) error {
	res := out.Result
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{
		"output":        target,
		"sourceSheet":   out.SourceSheet,
		"themeName":     res.ThemeName,
		"rowIndex":      res.RowIndex,
		"created":       res.Created,
		"updatedColors": res.UpdatedColors,
		"summary":       res.Summary,
		"finishedAt":    time.Now().Format(time.RFC3339),
	})
}
