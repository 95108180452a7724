package store

import (
	"fmt"

	"colortool/internal/model"
)

// GetMappings 已保存的映射覆盖表；未保存时返回空切片
func (s *Store) GetMappings() ([]model.ChannelMapping, error) {
	rows, err := s.db.Query(`
		SELECT channel, purpose, color_code FROM channel_mappings ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	mappings := []model.ChannelMapping{}
	for rows.Next() {
		var m model.ChannelMapping
		if err := rows.Scan(&m.Channel, &m.Purpose, &m.ColorCode); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, m)
	}
	return mappings, rows.Err()
}

// ReplaceMappings 整表替换映射覆盖；传入空切片即清除覆盖
func (s *Store) ReplaceMappings(mappings []model.ChannelMapping) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM channel_mappings`); err != nil {
		return fmt.Errorf("failed to clear mappings: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO channel_mappings (position, channel, purpose, color_code)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare mapping insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range mappings {
		if _, err := stmt.Exec(i, m.Channel, m.Purpose, m.ColorCode); err != nil {
			return fmt.Errorf("failed to insert mapping %s: %w", m.Channel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mappings: %w", err)
	}
	return nil
}
