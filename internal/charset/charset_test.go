package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode_ASCIIPassesThrough(t *testing.T) {
	e := NewEncoder()

	inputs := []string{
		"",
		"Bus 25",
		"Hlavni nadrazi",
		"!\"#$%&'()*+,-./0123456789:;<=>?@ABCXYZ[\\]^_`abcxyz{|}~",
	}

	for _, in := range inputs {
		assert.Equal(t, []byte(in), e.Encode(in), "input %q", in)
	}
}

func TestEncode_CzechLetters(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"lowercase a acute", "á", []byte{0x0e, 0x20}},
		{"lowercase s caron", "š", []byte{0x0e, 0x28}},
		{"lowercase e caron", "ě", []byte{0x0e, 0x88}},
		{"lowercase u ring", "ů", []byte{0x0e, 0x96}},
		{"uppercase U ring is a single firmware byte", "Ů", []byte{0x96}},
		{"uppercase I acute is a single firmware byte", "Í", []byte{0x7f}},
		{"uppercase N caron", "Ň", []byte{0x0e, 0xa5}},
		{"cafe keeps the ascii prefix", "café", []byte{'c', 'a', 'f', 0x0e, 0x82}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Encode(tt.in))
		})
	}
}

func TestEncode_FullSentence(t *testing.T) {
	e := NewEncoder()

	got := e.Encode("Příští zastávka: Náměstí")
	want := []byte("P\x0e\x29\x0e\x21\x0e\x28t\x0e\x21 zast\x0e\x20vka: N\x0e\x20m\x0e\x88st\x0e\x21")

	assert.Equal(t, want, got)
}

func TestEncode_UnknownRunesBecomeSpaces(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"german umlaut and eszett", "Müller Straße", "M ller Stra e"},
		{"cyrillic word", "пример", "      "},
		{"lone continuation byte", "a\x80b", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []byte(tt.want), e.Encode(tt.in))
		})
	}
}

func TestEncode_PunctuationSubstitution(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		in   string
		want string
	}{
		{"čekejte…", "\x0e\x87ekejte..."},
		{"Brno – Bystrc", "Brno - Bystrc"},
		{"it’s", "it's"},
		{"a—b", "a-b"},
		{"„Výluka“", "\"V\x0e\x98luka\""},
		{"‚jo‘", "'jo'"},
		{"he said ”stop”", "he said \"stop\""},
	}

	for _, tt := range tests {
		assert.Equal(t, []byte(tt.want), e.Encode(tt.in), "input %q", tt.in)
	}
}

func TestEncode_Pictograms(t *testing.T) {
	e := NewEncoder()

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"bus", "🚌", []byte{0x0e, 0x72}},
		{"right arrow", "→", []byte{0x0e, 0x2a}},
		{"terminal arrow", "↔", []byte{0x0e, 0xf0}},
		{"airplane with variation selector", "✈️", []byte{0x0e, 0xf7}},
		{"shield with variation selector", "🛡️", []byte{0x0e, 0xff}},
		{"stop line label", "🛑 Mendlovo nám.", append([]byte{0x0e, 0x71}, []byte(" Mendlovo n\x0e\x20m.")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Encode(tt.in))
		})
	}
}

func TestEncode_NeverEmitsDanglingEscape(t *testing.T) {
	e := NewEncoder()

	// The escape marker must always be followed by its data byte in the
	// output, whatever the input mix.
	inputs := []string{"ářžý", "a á b č c", "Ůša", "🚌→🚊", "x…ž"}

	for _, in := range inputs {
		out := e.Encode(in)
		for i := 0; i < len(out); i++ {
			if out[i] == Escape {
				assert.Less(t, i+1, len(out), "dangling escape in output of %q", in)
				i++
			}
		}
	}
}
