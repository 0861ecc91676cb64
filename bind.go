package dbregistry

import (
	"database/sql/driver"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TextValue binds a string parameter with an explicit unbounded-text type.
// Some drivers infer short fixed-width types for bare string values and
// truncate; forcing the text path avoids that.
type TextValue string

// Value implements driver.Valuer.
func (t TextValue) Value() (driver.Value, error) {
	return string(t), nil
}

// bindStatement turns a statement with :name placeholders plus a parameter
// map into a driver-ready query and positional argument list, rebound to
// the dialect's bindvar style. It performs no I/O.
//
// String values are wrapped in TextValue; everything else is passed through
// for the driver to type-infer.
func bindStatement(query string, params map[string]any, bindVar int) (string, []any, error) {
	if len(params) == 0 {
		return sqlx.Rebind(bindVar, query), nil, nil
	}

	typed := make(map[string]any, len(params))
	for name, value := range params {
		if s, ok := value.(string); ok {
			typed[name] = TextValue(s)
		} else {
			typed[name] = value
		}
	}

	bound, args, err := sqlx.Named(query, typed)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBinding, err)
	}
	return sqlx.Rebind(bindVar, bound), args, nil
}
