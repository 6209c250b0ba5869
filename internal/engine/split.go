package engine

import "strings"

// SplitStatements splits a script on top-level semicolons. Quoted strings,
// quoted identifiers and comments are respected. Statements holding nothing
// but whitespace and comments are dropped. Trigger bodies (BEGIN ... END)
// are not recognised.
func SplitStatements(script string) []string {
	var (
		stmts   []string
		start   int
		content bool
	)
	flush := func(end int) {
		if content {
			stmts = append(stmts, strings.TrimSpace(script[start:end]))
		}
		start = end + 1
		content = false
	}

	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipQuoted(script, i, c)
			content = true
		case c == '[':
			if j := strings.IndexByte(script[i:], ']'); j >= 0 {
				i += j
			} else {
				i = len(script) - 1
			}
			content = true
		case c == '-' && i+1 < len(script) && script[i+1] == '-':
			if j := strings.IndexByte(script[i:], '\n'); j >= 0 {
				i += j
			} else {
				i = len(script) - 1
			}
		case c == '/' && i+1 < len(script) && script[i+1] == '*':
			if j := strings.Index(script[i+2:], "*/"); j >= 0 {
				i += j + 3
			} else {
				i = len(script) - 1
			}
		case c == ';':
			flush(i)
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
		default:
			content = true
		}
	}
	if start < len(script) {
		flush(len(script))
	}
	return stmts
}

// skipQuoted returns the index of the quote closing the literal opened at i.
// A doubled quote character is an escaped quote.
func skipQuoted(s string, i int, q byte) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		if j+1 < len(s) && s[j+1] == q {
			j++
			continue
		}
		return j
	}
	return len(s) - 1
}
