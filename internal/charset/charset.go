// Package charset translates UTF-8 text into the proprietary character set of
// the BUSE BS210 dot-matrix panel (DPMB 2005 firmware).
//
// The device predates Unicode: accented letters and pictograms are sent as
// 2-byte escape pairs (marker 0x0E followed by one data byte), a couple of
// reserved glyphs occupy a single high byte, and plain ASCII passes through
// unchanged. Everything else is replaced with a space.
package charset

// Escape is the marker byte that opens a 2-byte device character code.
// Truncation logic must never separate the marker from its data byte.
const Escape byte = 0x0E

// Encoder converts UTF-8 strings to device bytes. It is stateless and safe
// for concurrent use; the mapping table is built once at construction.
type Encoder struct {
	table map[string]string
}

// NewEncoder builds an encoder with the full device mapping table.
func NewEncoder() *Encoder {
	return &Encoder{table: buildTable()}
}

// Encode translates s into device bytes using longest-match table lookup.
//
// At each position, table keys of 4, 3, 2 and 1 input bytes are tried and the
// longest match wins. Unmapped ASCII passes through; an unmapped multi-byte
// sequence is skipped whole (its length derived from the leading byte) and
// replaced with one space. The result is device-ready and must not be fed
// back through Encode.
func (e *Encoder) Encode(s string) []byte {
	out := make([]byte, 0, len(s))

	for i := 0; i < len(s); {
		if enc, n := e.lookup(s[i:]); n > 0 {
			out = append(out, enc...)
			i += n
			continue
		}

		c := s[i]
		if c <= 0x7F {
			out = append(out, c)
			i++
			continue
		}

		// Unmapped non-ASCII: skip the whole UTF-8 sequence, keep a space
		// so word boundaries survive.
		i += seqLen(c)
		out = append(out, ' ')
	}

	return out
}

// EncodeToString is Encode with a string result, convenient for logging.
func (e *Encoder) EncodeToString(s string) string {
	return string(e.Encode(s))
}

// lookup finds the longest table key that prefixes s and returns its device
// encoding and the number of input bytes consumed. n == 0 means no match.
func (e *Encoder) lookup(s string) (enc string, n int) {
	max := 4
	if len(s) < max {
		max = len(s)
	}
	for l := max; l >= 1; l-- {
		if v, ok := e.table[s[:l]]; ok {
			return v, l
		}
	}
	return "", 0
}

// seqLen derives the byte length of a UTF-8 sequence from the high bits of
// its leading byte. Continuation or invalid bytes advance by one.
func seqLen(c byte) int {
	switch {
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
