package repositories

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// optionalInt4 将非正数映射为 SQL NULL，用于 LIMIT 这类可选上限。
func optionalInt4(value int) pgtype.Int4 {
	if value <= 0 {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(value), Valid: true}
}
