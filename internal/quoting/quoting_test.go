package quoting

import "testing"

func TestEscapeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain", "glyph", "glyph"},
		{"single quote", "it's", "it''s"},
		{"backslash", `a\b`, `a\\b`},
		{"backslash before quote", `\'`, `\\''`},
		{"injection attempt", "'; DROP TABLE glyph; --", "''; DROP TABLE glyph; --"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeString(tt.input); got != tt.want {
				t.Errorf("EscapeString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeStandardString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"single quote", "it's", "it''s"},
		{"backslash kept", `a\b`, `a\b`},
		{"unicode with quote", "café's", "café''s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeStandardString(tt.input); got != tt.want {
				t.Errorf("EscapeStandardString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentifierQuoting(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		quote func(string) string
		input string
		want  string
	}{
		{"double simple", DoubleQuote, "glyph", `"glyph"`},
		{"double empty", DoubleQuote, "", `""`},
		{"double embedded", DoubleQuote, `gl"yph`, `"gl""yph"`},
		{"double injection", DoubleQuote, `glyph"."font`, `"glyph"".""font"`},
		{"backtick simple", Backtick, "glyph", "`glyph`"},
		{"backtick embedded", Backtick, "gl`yph", "`gl``yph`"},
		{"backtick dash", Backtick, "idx-glyph-aspect", "`idx-glyph-aspect`"},
		{"backtick backslash", Backtick, `gl\yph`, "`gl\\yph`"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.quote(tt.input); got != tt.want {
				t.Errorf("quote(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	t.Parallel()
	in := []byte{0x0a, 0xbc, 0xff}
	if got := Hex(in); got != "0abcff" {
		t.Errorf("Hex = %q", got)
	}
	if got := UpperHex(in); got != "0ABCFF" {
		t.Errorf("UpperHex = %q", got)
	}
	if got := Hex(nil); got != "" {
		t.Errorf("Hex(nil) = %q", got)
	}
}
