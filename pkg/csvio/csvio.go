// Package csvio imports and exports transactions as CSV. The format is the
// fixed column set id,accountId,categoryId,amount,comment,transactionDate,
// createdAt,updatedAt; on import the columns are located by name, so any
// ordering is accepted as long as every column is present.
package csvio

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/ulwww/fintrack/pkg/domain"
	"github.com/ulwww/fintrack/pkg/dto"
)

// Columns is the canonical export column order.
var Columns = []string{
	"id", "accountId", "categoryId", "amount",
	"comment", "transactionDate", "createdAt", "updatedAt",
}

const delimiter = ','

// splitFields splits one CSV line. A double quote toggles the in-quotes
// state, so quoted fields may contain the delimiter; quote characters
// themselves are not part of the field value.
func splitFields(line string) []string {
	var (
		fields   []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == delimiter && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// ParseTransactions decodes a CSV document into transactions.
// Row numbers in errors are 1-based and count the header row.
func ParseTransactions(data string) ([]domain.Transaction, error) {
	var lines []string
	for _, raw := range strings.FieldsFunc(data, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return nil, &HeaderError{Missing: Columns}
	}

	header := splitFields(lines[0])
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range Columns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	field := func(row []string, name string) string {
		return strings.TrimSpace(row[index[name]])
	}

	txs := make([]domain.Transaction, 0, len(lines)-1)
	for i, line := range lines[1:] {
		rowNum := i + 2
		row := splitFields(line)
		if len(row) != len(header) {
			return nil, &RowArityError{Row: rowNum, Expected: len(header), Actual: len(row)}
		}

		id, err := strconv.ParseInt(field(row, "id"), 10, 64)
		if err != nil {
			return nil, &FieldError{Field: "id", Row: rowNum, Err: err}
		}
		accountID, err := strconv.ParseInt(field(row, "accountId"), 10, 64)
		if err != nil {
			return nil, &FieldError{Field: "accountId", Row: rowNum, Err: err}
		}
		categoryID, err := strconv.ParseInt(field(row, "categoryId"), 10, 64)
		if err != nil {
			return nil, &FieldError{Field: "categoryId", Row: rowNum, Err: err}
		}
		amount, err := decimal.NewFromString(field(row, "amount"))
		if err != nil {
			return nil, &FieldError{Field: "amount", Row: rowNum, Err: err}
		}
		txDate, err := dto.ParseTime(field(row, "transactionDate"))
		if err != nil {
			return nil, &FieldError{Field: "transactionDate", Row: rowNum, Err: err}
		}
		createdAt, err := dto.ParseTime(field(row, "createdAt"))
		if err != nil {
			return nil, &FieldError{Field: "createdAt", Row: rowNum, Err: err}
		}
		updatedAt, err := dto.ParseTime(field(row, "updatedAt"))
		if err != nil {
			return nil, &FieldError{Field: "updatedAt", Row: rowNum, Err: err}
		}

		txs = append(txs, domain.Transaction{
			ID:              id,
			AccountID:       accountID,
			CategoryID:      categoryID,
			Amount:          amount,
			Comment:         field(row, "comment"),
			TransactionDate: txDate,
			CreatedAt:       createdAt,
			UpdatedAt:       updatedAt,
		})
	}
	return txs, nil
}

// EncodeTransactions renders transactions as a CSV document in the canonical
// column order, quoting fields that contain the delimiter.
func EncodeTransactions(txs []domain.Transaction) string {
	var b strings.Builder
	b.WriteString(strings.Join(Columns, ","))
	b.WriteByte('\n')
	for _, t := range txs {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.AccountID, 10),
			strconv.FormatInt(t.CategoryID, 10),
			t.Amount.String(),
			escape(t.Comment),
			dto.FormatTime(t.TransactionDate),
			dto.FormatTime(t.CreatedAt),
			dto.FormatTime(t.UpdatedAt),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func escape(field string) string {
	if strings.ContainsRune(field, delimiter) {
		return `"` + field + `"`
	}
	return field
}
