package protocol

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thebys/b48-display-controller/internal/charset"
	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
)

// recordingTransport captures every frame written through it and can be
// primed to fail.
type recordingTransport struct {
	frames [][]byte
	err    error
}

func (r *recordingTransport) WriteFrame(f []byte) error {
	cp := make([]byte, len(f))
	copy(cp, f)
	r.frames = append(r.frames, cp)
	return r.err
}

func newTestEncoder() (*Encoder, *recordingTransport) {
	tr := &recordingTransport{}
	return NewEncoder(charset.NewEncoder(), tr), tr
}

func TestChecksum_KnownVectors(t *testing.T) {
	tests := []struct {
		payload string
		want    byte
	}{
		{"", 0x72},
		{"l048", 0x22},
		{"xC0", 0x79},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Checksum([]byte(tt.payload)), "payload %q", tt.payload)
	}
}

func TestChecksum_Pure(t *testing.T) {
	payload := []byte("zM Mendlovo n\x0e\x20m\x0e\x88st\x0e\x21")

	first := Checksum(payload)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Checksum(payload))
	}
}

func TestFrame_Layout(t *testing.T) {
	payload := []byte("e101000")
	frame := Frame(payload)

	require.Len(t, frame, len(payload)+2)
	assert.Equal(t, payload, frame[:len(payload)])
	assert.Equal(t, CR, frame[len(frame)-2])
	assert.Equal(t, Checksum(payload), frame[len(frame)-1])
}

func TestSafeTruncate(t *testing.T) {
	pair := []byte{charset.Escape, 0x20}

	tests := []struct {
		name string
		in   []byte
		max  int
		want []byte
	}{
		{"short input untouched", []byte("abc"), 15, []byte("abc")},
		{"ascii cut at limit", []byte("abcdef"), 4, []byte("abcd")},
		{"cut before pair at boundary", append([]byte("a"), append(pair, 'b')...), 2, []byte("a")},
		{"pair fits exactly", append([]byte("a"), append(pair, 'b')...), 3, append([]byte("a"), pair...)},
		{"data byte equal to marker stays with its pair", []byte{charset.Escape, charset.Escape, 'a'}, 2, []byte{charset.Escape, charset.Escape}},
		{"zero limit", []byte("abc"), 0, []byte{}},
		{"negative limit", []byte("abc"), -3, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeTruncate(tt.in, tt.max))
		})
	}
}

func TestSafeTruncate_LongScrollNeverSplitsPair(t *testing.T) {
	// 300 escape pairs make a 600-byte encoded message; the 511-byte limit
	// falls in the middle of pair 256, so the cut must land at 510.
	encoded := bytes.Repeat([]byte{charset.Escape, 0x20}, 300)

	out := SafeTruncate(encoded, MaxScrollBytes)

	assert.Len(t, out, 510)
	assert.Equal(t, byte(0x20), out[len(out)-1], "output must end with a complete pair")

	for i := 0; i < len(out); i++ {
		if out[i] == charset.Escape {
			require.Less(t, i+1, len(out), "dangling escape marker at %d", i)
			i++
		}
	}
}

func TestEncoder_FieldCommands(t *testing.T) {
	tests := []struct {
		name    string
		send    func(e *Encoder) error
		payload string
	}{
		{"line number", func(e *Encoder) error { return e.SendLineNumber(48) }, "l048"},
		{"line number padding", func(e *Encoder) error { return e.SendLineNumber(7) }, "l007"},
		{"tariff zone", func(e *Encoder) error { return e.SendTarifZone(101) }, "e101000"},
		{"tariff zone padding", func(e *Encoder) error { return e.SendTarifZone(5) }, "e005000"},
		{"time update", func(e *Encoder) error { return e.SendTimeUpdate(7, 5) }, "u0705"},
		{"cycle content", func(e *Encoder) error { return e.SwitchToCycle(CycleContent) }, "xC0"},
		{"cycle transition", func(e *Encoder) error { return e.SwitchToCycle(CycleTransition) }, "xC6"},
		{"invert", func(e *Encoder) error { return e.SendInvert() }, "i"},
		{"raw passthrough", func(e *Encoder) error { return e.SendRaw([]byte("zzz")) }, "zzz"},
		{"intro prefix", func(e *Encoder) error { return e.SendStaticIntro("Base48") }, "zI Base48"},
		{"hint prefix", func(e *Encoder) error { return e.SendNextMessageHint("Idle") }, "v Idle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, tr := newTestEncoder()

			require.NoError(t, tt.send(enc))
			require.Len(t, tr.frames, 1)
			assert.Equal(t, Frame([]byte(tt.payload)), tr.frames[0])
		})
	}
}

func TestEncoder_TextFieldsEncodedAndTruncated(t *testing.T) {
	enc, tr := newTestEncoder()

	// 20 characters of Czech text encode beyond 15 bytes, so the intro
	// field must be cut without splitting an escape pair.
	require.NoError(t, enc.SendStaticIntro("Náměstí Svobody 1234"))

	require.Len(t, tr.frames, 1)
	frame := tr.frames[0]
	payload := frame[:len(frame)-2]

	require.True(t, bytes.HasPrefix(payload, []byte(CmdStaticIntro)))
	text := payload[len(CmdStaticIntro):]
	assert.LessOrEqual(t, len(text), MaxIntroBytes)
	assert.NotEqual(t, charset.Escape, text[len(text)-1], "field must not end with a dangling escape")

	// N á m ě s t í -> N, pair, m, pair, s, t, pair = 10 bytes, then " Svob" fills 15.
	assert.Equal(t, []byte("N\x0e\x20m\x0e\x88st\x0e\x21 Svob"), text)
}

func TestEncoder_SendMessageFieldsOrder(t *testing.T) {
	enc, tr := newTestEncoder()

	entry, err := domain.NewDurable(40, 48, 101, "Base48", "Support your local hackerspace!", "Loading")
	require.NoError(t, err)

	require.NoError(t, enc.SendMessageFields(entry))
	require.Len(t, tr.frames, 5)

	prefixes := []string{"l048", "e101000", "zI Base48", "zM Support", "v Loading"}
	for i, p := range prefixes {
		assert.True(t, bytes.HasPrefix(tr.frames[i], []byte(p)),
			"frame %d = %q, want prefix %q", i, tr.frames[i], p)
	}
}

func TestEncoder_SendMessageFieldsContinuesAfterError(t *testing.T) {
	enc, tr := newTestEncoder()
	tr.err = errors.New("uart gone")

	entry, err := domain.NewDurable(40, 48, 101, "Base48", "scroll", "hint")
	require.NoError(t, err)

	sendErr := enc.SendMessageFields(entry)

	assert.Error(t, sendErr)
	assert.Len(t, tr.frames, 5, "every field must still be attempted")
}
