package model

import "time"

// 处理记录状态
const (
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// Run 一次主题处理的记录（只保存报告元数据，不保存表格）
type Run struct {
	ID           string     `json:"id"`
	ThemeName    string     `json:"themeName"`
	RSCFile      string     `json:"rscFile"`
	SourceFile   string     `json:"sourceFile"`
	SourceSheet  string     `json:"sourceSheet"`
	RowIndex     int        `json:"rowIndex"`
	Created      bool       `json:"created"`
	Total        int        `json:"total"`
	Updated      int        `json:"updated"`
	NotFound     int        `json:"notFound"`
	Errors       []string   `json:"errors"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
