package xlite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mizu/xlite/internal/logger"
)

// Format fills "{}" and "{N}" fields of a SQL template with identifier
// fragments such as table and column names. "{}" takes the next argument in
// order, "{N}" the N-th (0-based); "{{" and "}}" produce literal braces.
//
// Arguments are inserted verbatim: Format neither quotes nor escapes them. An
// argument carrying SQL punctuation is still inserted, with a warning in the
// verbose log.
// It exists for identifiers chosen by the calling code, never for data. Pass
// values through Bind instead.
//
//	q, err := xlite.Format("SELECT {0}_name FROM {0} WHERE {0}_id=?", "country")
//	// q == "SELECT country_name FROM country WHERE country_id=?"
func Format(template string, args ...string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))
	next := 0

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch c {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unterminated field at offset %d", ErrFormat, i)
			}
			field := template[i+1 : i+1+end]
			idx := next
			if field == "" {
				next++
			} else {
				n, err := strconv.Atoi(field)
				if err != nil || n < 0 {
					return "", fmt.Errorf("%w: invalid field {%s}", ErrFormat, field)
				}
				idx = n
			}
			if idx >= len(args) {
				return "", fmt.Errorf("%w: argument %d out of range (%d given)", ErrFormat, idx, len(args))
			}
			if suspicious(args[idx]) {
				logger.Warn("format: argument %d %q contains SQL punctuation", idx, args[idx])
			}
			b.WriteString(args[idx])
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: unmatched '}' at offset %d", ErrFormat, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// suspicious reports whether arg carries quotes, statement separators or
// comment markers.
func suspicious(arg string) bool {
	return strings.ContainsAny(arg, ";'\"") || strings.Contains(arg, "--") || strings.Contains(arg, "/*")
}
