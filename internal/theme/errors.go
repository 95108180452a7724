package theme

import "errors"

// 结构性输入错误：整个更新无法进行
var (
	ErrEmptyTable         = errors.New("destination table has no header row")
	ErrMissingNotesColumn = errors.New("destination table has no notes column")
	ErrRaggedRow          = errors.New("destination row has values beyond the header")
)

// IsStructural 是否为结构性输入错误
func IsStructural(err error) bool {
	return errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrMissingNotesColumn) ||
		errors.Is(err, ErrRaggedRow)
}
