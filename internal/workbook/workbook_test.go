package workbook

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"colortool/internal/model"
	"colortool/internal/theme"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for r, row := range sheets[name] {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			values := row
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoadTable_TypesCells(t *testing.T) {
	t.Parallel()

	content := buildWorkbook(t, map[string][][]interface{}{
		"主题": {
			{"id", "notes", "P1", "P2"},
			{1, "Ocean", "1A2B3C", nil},
			{2, "12", 3.5},
		},
	}, []string{"主题"})

	tbl, err := LoadTable("rsc.xlsx", content)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tbl.SheetName != "主题" {
		t.Fatalf("sheet=%q", tbl.SheetName)
	}
	if !reflect.DeepEqual(tbl.Header, []string{"id", "notes", "P1", "P2"}) {
		t.Fatalf("header=%v", tbl.Header)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows=%d", len(tbl.Rows))
	}

	row := tbl.Rows[0]
	if row[0].Kind != model.CellNumber || row[0].Num != 1 {
		t.Fatalf("id cell=%+v", row[0])
	}
	if row[1].Kind != model.CellString || row[1].Str != "Ocean" {
		t.Fatalf("notes cell=%+v", row[1])
	}
	if !row[3].IsEmpty() {
		t.Fatalf("P2 should be empty, got %+v", row[3])
	}

	// 文本形式的数字保持为字符串
	if c := tbl.Rows[1][1]; c.Kind != model.CellString || c.Str != "12" {
		t.Fatalf("text digits=%+v", c)
	}
	if c := tbl.Rows[1][2]; c.Kind != model.CellNumber || c.Num != 3.5 {
		t.Fatalf("float cell=%+v", c)
	}
	// 短行补齐到表头宽度
	if len(tbl.Rows[1]) != 4 {
		t.Fatalf("row width=%d", len(tbl.Rows[1]))
	}
}

func TestLoadTable_PadsHeaderToWidestRow(t *testing.T) {
	t.Parallel()

	sheet := &Sheet{Name: "S", Rows: [][]model.Cell{
		{model.StringCell("notes")},
		{model.StringCell("a"), model.StringCell("extra")},
	}}
	tbl := sheet.Table()
	if !reflect.DeepEqual(tbl.Header, []string{"notes", ""}) {
		t.Fatalf("header=%q", tbl.Header)
	}
}

func TestLoadRecords_PicksSheetAndNormalizesFields(t *testing.T) {
	t.Parallel()

	content := buildWorkbook(t, map[string][][]interface{}{
		"说明": {{"readme"}},
		"完整配色表": {
			{" 颜色代码 ", "１６进制值", "R值", "G值", "B值", "颜色代码"},
			{"P1", "#1a2b3c", nil, nil, nil, "dup"},
			{nil, nil, nil, nil, nil, nil},
			{"P2", nil, 255, 0, 0},
		},
	}, []string{"说明", "完整配色表"})

	records, sheetName, err := LoadRecords("source.xlsx", content, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sheetName != "完整配色表" {
		t.Fatalf("sheet=%q", sheetName)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d, want 2 (blank row skipped)", len(records))
	}

	code, ok := records[0].Get("颜色代码")
	if !ok || code.Str != "P1" {
		t.Fatalf("code=%+v ok=%v", code, ok)
	}
	hex, ok := records[0].Get("16进制值")
	if !ok || hex.Str != "#1a2b3c" {
		t.Fatalf("hex=%+v ok=%v", hex, ok)
	}

	r, _ := records[1].Get("R值")
	if r.Kind != model.CellNumber || r.Num != 255 {
		t.Fatalf("R=%+v", r)
	}
	if hex, ok := records[1].Get("16进制值"); !ok || !hex.IsEmpty() {
		t.Fatalf("missing hex should be empty, got %+v ok=%v", hex, ok)
	}
}

func TestPickSourceSheet(t *testing.T) {
	t.Parallel()

	cases := []struct {
		names     []string
		preferred string
		want      string
	}{
		{[]string{"a", "完整配色表"}, "", "完整配色表"},
		{[]string{"a", "主题颜色"}, "", "主题颜色"},
		{[]string{"a", "ColorList"}, "", "ColorList"},
		{[]string{"a", "b"}, "", "a"},
		{[]string{"a", "b"}, "b", "b"},
		{nil, "", ""},
	}
	for _, tc := range cases {
		if got := PickSourceSheet(tc.names, tc.preferred); got != tc.want {
			t.Fatalf("PickSourceSheet(%v, %q)=%q, want %q", tc.names, tc.preferred, got, tc.want)
		}
	}
}

func TestOpen_CSV(t *testing.T) {
	t.Parallel()

	content := []byte("\xef\xbb\xbf颜色代码,16进制值,R值,G值,B值\nP1,,255,0,16\n P2 ,#ABCDEF,,,\n")
	records, sheetName, err := LoadRecords("colors.csv", content, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sheetName != "colors" {
		t.Fatalf("sheet=%q", sheetName)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d", len(records))
	}
	b, _ := records[0].Get("B值")
	if n, ok := b.Int(); b.Kind != model.CellString || !ok || n != 16 {
		t.Fatalf("B=%+v", b)
	}
	code, _ := records[1].Get("颜色代码")
	if code.Kind != model.CellString || code.Str != " P2 " {
		t.Fatalf("code=%+v", code)
	}
}

func TestOpen_CSVKeepsHexText(t *testing.T) {
	t.Parallel()

	content := []byte("颜色代码,16进制值\nP1,00E676\nG1,12E004\n")
	records, _, err := LoadRecords("colors.csv", content, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	r := theme.NewResolver(theme.ResolverOptions{})
	for code, want := range map[string]string{"P1": "00E676", "G1": "12E004"} {
		if got, ok := r.Resolve(records, code); !ok || got != want {
			t.Fatalf("Resolve(%s)=%q,%v want %q", code, got, ok, want)
		}
	}
}

func TestLoadTable_CSVRoundTripKeepsHexText(t *testing.T) {
	t.Parallel()

	tbl, err := LoadTable("rsc.csv", []byte("id,notes,P1\n1,Forest,00E676\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c := tbl.Rows[0][2]; c.Kind != model.CellString || c.Str != "00E676" {
		t.Fatalf("P1 cell=%+v", c)
	}

	var buf bytes.Buffer
	res := &model.UpdateResult{Table: tbl}
	if err := NewExporter(WriteOptions{}).Write(&buf, res); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := LoadTable("out.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := out.Rows[0][2].Text(); got != "00E676" {
		t.Fatalf("exported P1=%q", got)
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	xlsx := buildWorkbook(t, map[string][][]interface{}{"S": {{"a"}}}, []string{"S"})

	cases := []struct {
		name    string
		content []byte
		want    Format
		wantErr bool
	}{
		{"a.xlsx", nil, FormatXLSX, false},
		{"A.XLSM", nil, FormatXLSX, false},
		{"a.xls", nil, FormatXLS, false},
		{"a.csv", nil, FormatCSV, false},
		{"upload", xlsx, FormatXLSX, false},
		{"notes.txt", []byte("hello"), "", true},
	}
	for _, tc := range cases {
		got, err := DetectFormat(tc.name, tc.content)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("DetectFormat(%q) expected error", tc.name)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("DetectFormat(%q)=%q,%v want %q", tc.name, got, err, tc.want)
		}
	}
}

func sampleResult() *model.UpdateResult {
	return &model.UpdateResult{
		Table: &model.Table{
			SheetName: "主题表",
			Header:    []string{"id", "notes", "P1", "P2"},
			Rows: [][]model.Cell{
				{model.NumberCell(1), model.StringCell("Old"), model.StringCell("000000"), model.EmptyCell()},
				{model.StringCell("2"), model.StringCell("Ocean"), model.StringCell("1A2B3C"), model.StringCell("FFFFFF")},
			},
		},
		UpdatedColors: []model.UpdateEntry{
			{Channel: "P1", ColorCode: "P1", Value: "1A2B3C"},
			{Channel: "P2", ColorCode: "P2", Value: "FFFFFF", IsDefault: true},
		},
		Summary:   model.Summary{Total: 2, Updated: 1, NotFound: 1, Errors: []string{}},
		ThemeName: "Ocean",
		RowIndex:  1,
		Created:   true,
	}
}

func TestExporter_RoundTrip(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	var buf bytes.Buffer
	if err := NewExporter(WriteOptions{}).Write(&buf, res); err != nil {
		t.Fatalf("write: %v", err)
	}

	tbl, err := LoadTable(DownloadFilename(time.Now()), buf.Bytes())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(tbl, res.Table) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", tbl, res.Table)
	}
}

func TestExporter_HighlightAndReport(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	f, err := NewExporter(WriteOptions{Highlight: true, IncludeReport: true}).Export(res)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer func() { _ = f.Close() }()

	p1, err := f.GetCellStyle("主题表", "C3")
	if err != nil || p1 == 0 {
		t.Fatalf("P1 cell not highlighted: style=%d err=%v", p1, err)
	}
	p2, _ := f.GetCellStyle("主题表", "D3")
	if p2 == 0 || p2 == p1 {
		t.Fatalf("P2 style=%d, P1 style=%d", p2, p1)
	}
	if other, _ := f.GetCellStyle("主题表", "C2"); other != 0 {
		t.Fatalf("untouched row styled: %d", other)
	}

	if sheets := f.GetSheetList(); !reflect.DeepEqual(sheets, []string{"主题表", "更新记录"}) {
		t.Fatalf("sheets=%v", sheets)
	}
	if v, _ := f.GetCellValue("更新记录", "C2"); v != "1A2B3C" {
		t.Fatalf("report value=%q", v)
	}
	if v, _ := f.GetCellValue("更新记录", "D3"); v != "是" {
		t.Fatalf("report default flag=%q", v)
	}
}

func TestExporter_DefaultSheetName(t *testing.T) {
	t.Parallel()

	res := sampleResult()
	res.Table.SheetName = ""
	f, err := NewExporter(WriteOptions{}).Export(res)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer func() { _ = f.Close() }()
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Sheet"}) {
		t.Fatalf("sheets=%v", got)
	}

	if _, err := NewExporter(WriteOptions{}).Export(nil); err == nil {
		t.Fatalf("expected error for nil result")
	}
}

func TestContrastFontColor(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"FFFFFF": "000000",
		"FFFF00": "000000",
		"000000": "FFFFFF",
		"1A2B3C": "FFFFFF",
	}
	for in, want := range cases {
		if got := contrastFontColor(in); got != want {
			t.Fatalf("contrastFontColor(%s)=%s, want %s", in, got, want)
		}
	}
}

func TestDownloadFilename(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	if got := DownloadFilename(ts); got != "RSC_Theme_Updated_20240305_070809.xlsx" {
		t.Fatalf("filename=%q", got)
	}
}
