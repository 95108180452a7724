package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"colortool/internal/model"
)

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// CreateRun 创建处理记录，返回记录 ID
func (s *Store) CreateRun(themeName, rscFile, sourceFile string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO runs (id, theme_name, rsc_file, source_file, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, themeName, rscFile, sourceFile, model.RunStatusProcessing, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// FinishRun 写入处理结果；res 为 nil 时记录为失败
func (s *Store) FinishRun(id, sourceSheet string, res *model.UpdateResult, runErr error) error {
	status := model.RunStatusCompleted
	errorMessage := ""
	rowIndex, created := -1, false
	summary := model.Summary{Errors: []string{}}

	if res != nil {
		rowIndex, created = res.RowIndex, res.Created
		summary = res.Summary
		if summary.Errors == nil {
			summary.Errors = []string{}
		}
	}
	if runErr != nil {
		status = model.RunStatusFailed
		errorMessage = runErr.Error()
	}

	errorsJSON, err := json.Marshal(summary.Errors)
	if err != nil {
		return fmt.Errorf("failed to encode run errors: %w", err)
	}

	result, err := s.db.Exec(`
		UPDATE runs SET
			source_sheet = ?,
			row_index = ?,
			created = ?,
			total = ?,
			updated = ?,
			not_found = ?,
			errors = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, sourceSheet, rowIndex, created, summary.Total, summary.Updated, summary.NotFound,
		string(errorsJSON), status, errorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

const runColumns = `id, theme_name, rsc_file, source_file, source_sheet, row_index, created,
	total, updated, not_found, errors, status, error_message, created_at, completed_at`

// ListRuns 最近的处理记录（按时间倒序）
func (s *Store) ListRuns(limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs
		ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun 按 ID 获取处理记录
func (s *Store) GetRun(id string) (*model.Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc rowScanner) (*model.Run, error) {
	var (
		run         model.Run
		errorsJSON  string
		completedAt sql.NullTime
	)
	err := sc.Scan(&run.ID, &run.ThemeName, &run.RSCFile, &run.SourceFile, &run.SourceSheet,
		&run.RowIndex, &run.Created, &run.Total, &run.Updated, &run.NotFound,
		&errorsJSON, &run.Status, &run.ErrorMessage, &run.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.Errors = []string{}
	if errorsJSON != "" {
		if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
			return nil, fmt.Errorf("failed to decode run errors: %w", err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return &run, nil
}
