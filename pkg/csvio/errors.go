package csvio

import "fmt"

// HeaderError reports a header row that does not carry the expected column set.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	if len(e.Missing) == 0 {
		return "csv: invalid header"
	}
	return fmt.Sprintf("csv: header is missing required columns %v", e.Missing)
}

// RowArityError reports a data row whose field count differs from the header's.
// Row numbers are 1-based and include the header, so the first data row is 2.
type RowArityError struct {
	Row      int
	Expected int
	Actual   int
}

func (e *RowArityError) Error() string {
	return fmt.Sprintf("csv: row %d has %d fields, expected %d", e.Row, e.Actual, e.Expected)
}

// FieldError reports a field that failed to parse as its expected type.
type FieldError struct {
	Field string
	Row   int
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("csv: row %d: field %q: %v", e.Row, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
