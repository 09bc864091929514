package testutil

// Glyph is a column-enum fixture for the "glyph" table.
type Glyph uint8

const (
	GlyphTable Glyph = iota
	GlyphID
	GlyphImage
	GlyphAspect
)

var glyphNames = [...]string{"glyph", "id", "image", "aspect"}

// Name implements nodes.Iden.
func (g Glyph) Name() string { return glyphNames[g] }

// Font is a column-enum fixture for the "font" table.
type Font uint8

const (
	FontTable Font = iota
	FontID
	FontName
	FontVariant
	FontLanguage
)

var fontNames = [...]string{"font", "id", "name", "variant", "language"}

// Name implements nodes.Iden.
func (f Font) Name() string { return fontNames[f] }

// Character is a column-enum fixture for the "character" table.
type Character uint8

const (
	CharacterTable Character = iota
	CharacterID
	CharacterCharacter
	CharacterFontSize
	CharacterSizeW
	CharacterSizeH
	CharacterFontID
)

var characterNames = [...]string{"character", "id", "character", "font_size", "size_w", "size_h", "font_id"}

// Name implements nodes.Iden.
func (c Character) Name() string { return characterNames[c] }
