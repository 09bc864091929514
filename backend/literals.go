package backend

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bawdo/squill/nodes"
)

// literals holds a dialect's lexical forms for inline values.
type literals struct {
	escape     func(string) string
	boolean    func(bool) string
	bytes      func([]byte) string
	timeLayout string
}

func (l literals) write(v nodes.Value, w *SQLWriter) {
	switch k := v.Kind(); {
	case k == nodes.KindNull:
		w.WriteString("NULL")
	case k == nodes.KindBool:
		w.WriteString(l.boolean(v.Bool()))
	case k.IsUnsigned():
		w.WriteString(strconv.FormatUint(v.Uint(), 10))
	case k.IsInteger():
		w.WriteString(strconv.FormatInt(v.Int(), 10))
	case k == nodes.KindFloat:
		writeFloat(v.Float(), 32, w)
	case k == nodes.KindDouble:
		writeFloat(v.Float(), 64, w)
	case k == nodes.KindString:
		l.quoted(v.Str(), w)
	case k == nodes.KindBytes:
		w.WriteString(l.bytes(v.Bytes()))
	case k == nodes.KindDateTime:
		l.quoted(v.Time().Format(l.timeLayout), w)
	case k == nodes.KindUUID:
		l.quoted(v.UUID().String(), w)
	case k == nodes.KindArray:
		w.WriteString("ARRAY[")
		for i, e := range v.Elems() {
			if i > 0 {
				w.WriteByte(',')
			}
			l.write(e, w)
		}
		w.WriteByte(']')
	}
}

// writeFloat fails on NaN and infinities, which have no literal form that
// all dialects accept. Bound parameters carry them unchanged.
func writeFloat(f float64, bits int, w *SQLWriter) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		w.Fail(nodes.Malformed("expression", fmt.Sprintf("float %v has no SQL literal", f)))
		return
	}
	w.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
}

func (l literals) quoted(s string, w *SQLWriter) {
	w.WriteByte('\'')
	w.WriteString(l.escape(s))
	w.WriteByte('\'')
}

func trueFalse(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func oneZero(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
