// Package csvenc renders tabular report data as delimited text.
//
// It intentionally does not use encoding/csv: report fields must keep their
// natural text form (numbers unquoted, strings quoted only when they contain
// a comma, quote or newline), which encoding/csv does not express.
package csvenc

import (
	"fmt"
	"strconv"
	"strings"
)

// Encode renders the header line followed by one line per row, fields in
// header order. A key missing from a row renders as an empty field. An empty
// row set yields the header line alone.
func Encode(headers []string, rows []map[string]any) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))

	for _, row := range rows {
		b.WriteByte('\n')
		for i, h := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(renderField(row[h]))
		}
	}

	return b.String()
}

func renderField(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return escape(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// escape quote-wraps textual values containing a comma, quote or newline,
// doubling any embedded quotes.
func escape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
