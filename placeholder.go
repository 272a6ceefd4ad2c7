package xlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sqlInfo is what the lexer learns about one SQL text before it reaches the engine.
type sqlInfo struct {
	params int      // placeholder slots, as sqlite3_bind_parameter_count would report
	names  []string // per slot, the parameter name without its prefix; "" for ? and ?NNN
	empty  bool     // no statement at all (only whitespace and comments)
	tail   bool     // a second statement follows a top-level ';'
}

// args pairs values with the slots: named slots are passed as sql.Named,
// since the driver matches those by name and ignores their position.
func (info sqlInfo) args(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		if i < len(info.names) && info.names[i] != "" {
			out[i] = sql.Named(info.names[i], v)
			continue
		}
		out[i] = v
	}
	return out
}

// scanSQL counts parameter slots the way SQLite numbers them: every anonymous
// "?" takes the next slot, "?NNN" takes slot NNN, and each distinct ":name",
// "@name" or "$name" takes the next slot on first use. Quoted strings,
// identifiers and comments are skipped.
//
// A name must start with a letter and may not appear under two prefixes
// (":a" and "@a"): the driver binds named slots by the bare name.
func scanSQL(query string) (sqlInfo, error) {
	var (
		info  sqlInfo
		next  int
		body  bool // saw a token of the current statement
		ended bool // saw a top-level ';' after a statement
	)
	bare := map[string]string{} // bare name -> prefixed key
	slots := map[int]string{}   // slot -> bare name
	mark := func() {
		if ended {
			info.tail = true
		}
		body = true
	}

	i := 0
	for i < len(query) {
		r, w := utf8.DecodeRuneInString(query[i:])
		switch {
		case r == '\'':
			j, err := skipQuoted(query, i+w, '\'')
			if err != nil {
				return info, err
			}
			mark()
			i = j
			continue
		case r == '"' || r == '`':
			j, err := skipQuoted(query, i+w, byte(r))
			if err != nil {
				return info, err
			}
			mark()
			i = j
			continue
		case r == '[':
			j := strings.IndexByte(query[i+1:], ']')
			if j < 0 {
				return info, fmt.Errorf("unterminated bracket identifier")
			}
			mark()
			i += j + 2
			continue
		case r == '-' && hasPrefix(query[i:], "--"):
			i = skipLineComment(query, i+2)
			continue
		case r == '/' && hasPrefix(query[i:], "/*"):
			j, err := skipBlockComment(query, i+2)
			if err != nil {
				return info, err
			}
			i = j
			continue
		case r == ';':
			if body {
				ended = true
			}
			i += w
			continue
		case unicode.IsSpace(r):
			i += w
			continue
		case r == '?':
			mark()
			digits, end := parseDigits(query, i+1)
			if digits == "" {
				next++
			} else {
				n, err := strconv.Atoi(digits)
				if err != nil || n < 1 {
					return info, fmt.Errorf("invalid parameter ?%s", digits)
				}
				if n > next {
					next = n
				}
			}
			if next > info.params {
				info.params = next
			}
			i = end
			continue
		case r == ':' && hasPrefix(query[i:], "::"):
			mark()
			i += 2
			continue
		case r == ':' || r == '@' || r == '$':
			mark()
			name, end := parseIdent(query, i+1)
			if name == "" {
				i += w
				continue
			}
			key := string(r) + name
			if r == '$' && isDigits(name) {
				return info, fmt.Errorf("parameter %s: use ?%s for numbered parameters", key, name)
			}
			if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) {
				return info, fmt.Errorf("parameter %s: name must start with a letter", key)
			}
			if prev, ok := bare[name]; ok {
				if prev != key {
					return info, fmt.Errorf("parameter %s: %s already names another slot", key, prev)
				}
			} else {
				bare[name] = key
				next++
				slots[next] = name
				if next > info.params {
					info.params = next
				}
			}
			i = end
			continue
		}
		mark()
		i += w
	}
	info.empty = !body
	if len(slots) > 0 {
		info.names = make([]string, info.params)
		for slot, name := range slots {
			info.names[slot-1] = name
		}
	}
	return info, nil
}

// skipQuoted returns the offset just past the closing quote; doubled quotes are escapes.
func skipQuoted(s string, i int, q byte) (int, error) {
	for i < len(s) {
		c := s[i]
		i++
		if c == q {
			if i < len(s) && s[i] == q {
				i++
				continue
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("unterminated %c-quoted text", q)
}

func skipLineComment(s string, i int) int {
	for i < len(s) {
		if s[i] == '\n' {
			return i + 1
		}
		i++
	}
	return i
}

func skipBlockComment(s string, i int) (int, error) {
	for i < len(s)-1 {
		if s[i] == '*' && s[i+1] == '/' {
			return i + 2, nil
		}
		i++
	}
	return 0, fmt.Errorf("unterminated block comment")
}

func hasPrefix(s, p string) bool { return len(s) >= len(p) && s[:len(p)] == p }

func parseDigits(s string, i int) (string, int) {
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[start:i], i
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func parseIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		i += w
	}
	return s[start:i], i
}

// leadingKeyword returns the first keyword of the statement, upper-cased.
func leadingKeyword(query string) string {
	i := 0
	for i < len(query) {
		switch {
		case hasPrefix(query[i:], "--"):
			i = skipLineComment(query, i+2)
		case hasPrefix(query[i:], "/*"):
			j, err := skipBlockComment(query, i+2)
			if err != nil {
				return ""
			}
			i = j
		case query[i] == ' ' || query[i] == '\t' || query[i] == '\n' || query[i] == '\r':
			i++
		default:
			word, _ := parseIdent(query, i)
			return strings.ToUpper(word)
		}
	}
	return ""
}
