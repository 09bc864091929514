// Package quoting provides shared identifier quoting and literal escaping.
package quoting

import (
	"encoding/hex"
	"strings"
)

// DoubleQuote quotes a SQL identifier using double quotes (PostgreSQL, ANSI SQL).
// Internal double quotes are escaped by doubling them.
func DoubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Backtick quotes a SQL identifier using backticks (MySQL, SQLite).
// Internal backticks are escaped by doubling them.
func Backtick(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// EscapeString escapes a string literal for MySQL by doubling single quotes
// and escaping backslashes.
//
// SECURITY: This escaping is intended for inline rendering only. Production
// code should render with bound parameters. MySQL with non-default character
// sets (GBK, SJIS) may have multi-byte sequences where a trailing byte
// coincides with backslash or quote; bound parameters avoid this class of
// attack entirely.
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", "''")
}

// EscapeStandardString escapes a string literal for engines that follow the
// SQL standard, where backslash has no special meaning inside quotes.
func EscapeStandardString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Hex returns the lower-case hexadecimal encoding of b.
func Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// UpperHex returns the upper-case hexadecimal encoding of b.
func UpperHex(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
