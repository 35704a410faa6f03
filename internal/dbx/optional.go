package dbx

import (
	"database/sql"

	"github.com/dmitrijs2005/notekeeper/internal/optional"
)

// Arg returns the SQL argument for v: the held value, or nil for absent and
// null values.
func Arg[T any](v optional.Value[T]) any {
	if x, ok := v.Get(); ok {
		return x
	}
	return nil
}

// FromNull converts a scanned nullable column into an optional value.
// SQL NULL becomes an explicit null.
func FromNull[T any](n sql.Null[T]) optional.Value[T] {
	if !n.Valid {
		return optional.Null[T]()
	}
	return optional.Some(n.V)
}
