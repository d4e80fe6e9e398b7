package parser

import (
	"strings"
	"unicode/utf8"
)

// stripJSComments removes // line comments and /* ... */ block comments,
// replacing removed bytes with spaces (newlines preserved) so later
// line/column computation over the original content stays valid. It
// correctly ignores "//" and "/*" that occur inside string or
// template literals.
func stripJSComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	runes := []rune(src)
	n := len(runes)
	i := 0
	for i < n {
		c := runes[i]
		switch {
		case c == '/' && i+1 < n && runes[i+1] == '/':
			for i < n && runes[i] != '\n' {
				b.WriteString(strings.Repeat(" ", utf8.RuneLen(runes[i])))
				i++
			}
		case c == '/' && i+1 < n && runes[i+1] == '*':
			b.WriteByte(' ')
			b.WriteByte(' ')
			i += 2
			for i < n && !(runes[i] == '*' && i+1 < n && runes[i+1] == '/') {
				if runes[i] == '\n' {
					b.WriteByte('\n')
				} else {
					b.WriteString(strings.Repeat(" ", utf8.RuneLen(runes[i])))
				}
				i++
			}
			if i < n {
				b.WriteByte(' ')
				b.WriteByte(' ')
				i += 2
			}
		case c == '\'' || c == '"' || c == '`':
			quote := c
			b.WriteRune(c)
			i++
			depth := 0 // tracks ${ ... } nesting inside template literals
			for i < n {
				cur := runes[i]
				if cur == '\\' && i+1 < n {
					b.WriteRune(cur)
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if quote == '`' && cur == '$' && i+1 < n && runes[i+1] == '{' {
					depth++
					b.WriteRune(cur)
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if quote == '`' && depth > 0 && cur == '}' {
					depth--
					b.WriteRune(cur)
					i++
					continue
				}
				if depth == 0 && cur == quote {
					b.WriteRune(cur)
					i++
					break
				}
				if quote != '`' && cur == '\n' {
					// unterminated single/double-quoted string; stop consuming as a string
					break
				}
				b.WriteRune(cur)
				i++
			}
		default:
			b.WriteRune(c)
			i++
		}
	}
	return b.String()
}

// stripPyComments removes # line comments and '''...'''/"""...""" triple-
// quoted strings, replacing removed bytes with spaces except newlines,
// which are preserved so later line-number math stays correct.
func stripPyComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	runes := []rune(src)
	n := len(runes)
	i := 0
	for i < n {
		c := runes[i]
		switch {
		case c == '#':
			for i < n && runes[i] != '\n' {
				b.WriteString(strings.Repeat(" ", utf8.RuneLen(runes[i])))
				i++
			}
		case (c == '\'' || c == '"') && i+2 < n && runes[i+1] == c && runes[i+2] == c:
			quote := [3]rune{c, c, c}
			b.WriteRune(quote[0])
			b.WriteRune(quote[1])
			b.WriteRune(quote[2])
			i += 3
			for i < n {
				if runes[i] == c && i+2 < n && runes[i+1] == c && runes[i+2] == c {
					b.WriteRune(c)
					b.WriteRune(c)
					b.WriteRune(c)
					i += 3
					break
				}
				if i == n-1 && runes[i] == c {
					b.WriteRune(c)
					i++
					break
				}
				if runes[i] == '\n' {
					b.WriteByte('\n')
				} else {
					b.WriteString(strings.Repeat(" ", utf8.RuneLen(runes[i])))
				}
				i++
			}
		case c == '\'' || c == '"':
			quote := c
			b.WriteRune(c)
			i++
			for i < n {
				cur := runes[i]
				if cur == '\\' && i+1 < n {
					b.WriteRune(cur)
					b.WriteRune(runes[i+1])
					i += 2
					continue
				}
				if cur == quote || cur == '\n' {
					if cur == quote {
						b.WriteRune(cur)
						i++
					}
					break
				}
				b.WriteRune(cur)
				i++
			}
		default:
			b.WriteRune(c)
			i++
		}
	}
	return b.String()
}

// lineColumn returns the 1-based line and column of byte/rune index idx
// within content, per spec §4.D's shared obligations.
func lineColumn(content string, idx int) (line, column int) {
	line = 1
	lastNewline := -1
	for i, r := range content {
		if i >= idx {
			break
		}
		if r == '\n' {
			line++
			lastNewline = i
		}
	}
	column = idx - lastNewline
	return line, column
}
