// Package protocol frames and transmits BUSE120 commands.
//
// Every command is an ASCII payload followed by a CR terminator and a one-byte
// XOR checksum. The link is write-only: the panel silently drops malformed
// frames, so correctness rests entirely on building valid frames here. There
// is no acknowledgment and therefore no protocol-level retry.
package protocol

import (
	"fmt"
	"time"

	"github.com/Thebys/b48-display-controller/internal/charset"
	domain "github.com/Thebys/b48-display-controller/internal/domain/message"
)

// Command prefixes and framing constants of the BUSE120 dialect.
const (
	// CR terminates every payload on the wire.
	CR byte = 0x0D

	// ChecksumSeed is the initial value of the XOR fold.
	ChecksumSeed byte = 0x7F

	// CmdLineNumber renders the route number, 3 digits zero-padded.
	CmdLineNumber = "l%03d"

	// CmdTarifZone renders the tariff zone. The zone is zero-padded to
	// 3 digits with a fixed "000" tail; the hardware only honors the low
	// 3 digits of the field regardless of width.
	CmdTarifZone = "e%03d000"

	// CmdStaticIntro prefixes the destination intro text.
	CmdStaticIntro = "zI "

	// CmdScrollingMessage prefixes the main scrolling text.
	CmdScrollingMessage = "zM "

	// CmdNextMessageHint prefixes the next-stop hint text.
	CmdNextMessageHint = "v "

	// CmdTimeUpdate sets the panel clock, hour and minute zero-padded.
	CmdTimeUpdate = "u%02d%02d"

	// CmdSwitchCycle selects the hardware display cycle.
	CmdSwitchCycle = "xC%d"

	// CmdInvert toggles inverted rendering. Untested on real hardware.
	CmdInvert = "i"
)

// Hardware display cycles selected via CmdSwitchCycle.
const (
	// CycleContent renders the main message fields.
	CycleContent = 0

	// CycleTransition renders the next-stop hint between messages.
	CycleTransition = 6
)

// Per-field byte limits, measured after character encoding.
const (
	MaxIntroBytes  = 15
	MaxScrollBytes = 511
	MaxHintBytes   = 15
)

// Transport is the byte sink the encoder writes complete frames to.
// Implementations own the physical link parameters (1200 baud, 7E2).
type Transport interface {
	WriteFrame(frame []byte) error
}

// Checksum folds XOR over the payload starting from ChecksumSeed and then
// mixes in the CR terminator. Pure function of the payload bytes.
func Checksum(payload []byte) byte {
	sum := ChecksumSeed
	for _, b := range payload {
		sum ^= b
	}
	return sum ^ CR
}

// Frame assembles the on-wire form of a payload: payload, CR, checksum.
func Frame(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+2)
	out = append(out, payload...)
	out = append(out, CR)
	out = append(out, Checksum(payload))
	return out
}

// SafeTruncate returns the largest prefix of encoded that fits max bytes
// without splitting a 2-byte escape pair. If the byte at the boundary is the
// escape marker itself, the cut lands before it. Walks the pair structure
// from the start, so a data byte that happens to equal the marker cannot be
// misread as one.
func SafeTruncate(encoded []byte, max int) []byte {
	if max < 0 {
		max = 0
	}
	if len(encoded) <= max {
		return encoded
	}

	i := 0
	for i < len(encoded) {
		step := 1
		if encoded[i] == charset.Escape {
			step = 2
		}
		if i+step > max {
			break
		}
		i += step
	}
	return encoded[:i]
}

// Encoder builds BUSE120 command payloads from message fields and writes the
// framed result to a Transport. It owns the character encoder so callers pass
// plain UTF-8; text fields are encoded and safely truncated here, the last
// step before transmission.
type Encoder struct {
	charset   *charset.Encoder
	transport Transport
}

// NewEncoder creates a protocol encoder writing to the given transport.
func NewEncoder(cs *charset.Encoder, t Transport) *Encoder {
	return &Encoder{charset: cs, transport: t}
}

func (e *Encoder) send(payload []byte) error {
	if err := e.transport.WriteFrame(Frame(payload)); err != nil {
		return fmt.Errorf("write frame %q: %w", payload, err)
	}
	return nil
}

func (e *Encoder) sendText(prefix, text string, maxBytes int) error {
	encoded := SafeTruncate(e.charset.Encode(text), maxBytes)
	payload := make([]byte, 0, len(prefix)+len(encoded))
	payload = append(payload, prefix...)
	payload = append(payload, encoded...)
	return e.send(payload)
}

// SendLineNumber transmits the route number field.
func (e *Encoder) SendLineNumber(line int) error {
	return e.send(fmt.Appendf(nil, CmdLineNumber, line))
}

// SendTarifZone transmits the tariff zone field.
func (e *Encoder) SendTarifZone(zone int) error {
	return e.send(fmt.Appendf(nil, CmdTarifZone, zone))
}

// SendStaticIntro transmits the destination intro, truncated to 15 encoded bytes.
func (e *Encoder) SendStaticIntro(text string) error {
	return e.sendText(CmdStaticIntro, text, MaxIntroBytes)
}

// SendScrollingMessage transmits the main text, truncated to 511 encoded bytes.
func (e *Encoder) SendScrollingMessage(text string) error {
	return e.sendText(CmdScrollingMessage, text, MaxScrollBytes)
}

// SendNextMessageHint transmits the next-stop hint, truncated to 15 encoded bytes.
func (e *Encoder) SendNextMessageHint(text string) error {
	return e.sendText(CmdNextMessageHint, text, MaxHintBytes)
}

// SendTimeUpdate sets the panel clock.
func (e *Encoder) SendTimeUpdate(hour, minute int) error {
	return e.send(fmt.Appendf(nil, CmdTimeUpdate, hour, minute))
}

// SwitchToCycle selects a hardware display cycle (CycleContent, CycleTransition).
func (e *Encoder) SwitchToCycle(cycle int) error {
	return e.send(fmt.Appendf(nil, CmdSwitchCycle, cycle))
}

// SendInvert transmits the invert command.
func (e *Encoder) SendInvert() error {
	return e.send([]byte(CmdInvert))
}

// SendRaw frames and transmits an arbitrary payload without validation.
func (e *Encoder) SendRaw(payload []byte) error {
	return e.send(payload)
}

// SendMessageFields transmits every field of an entry in the order the panel
// expects: line, zone, intro, scrolling text, hint. A failed field does not
// stop the remaining ones; the first error is returned after all sends.
func (e *Encoder) SendMessageFields(entry *domain.Entry) error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	keep(e.SendLineNumber(entry.LineNumber))
	keep(e.SendTarifZone(entry.TarifZone))
	keep(e.SendStaticIntro(entry.StaticIntro))
	keep(e.SendScrollingMessage(entry.ScrollingMessage))
	keep(e.SendNextMessageHint(entry.NextMessageHint))

	return firstErr
}

// SendTimeNow is a convenience wrapper sending the wall-clock time.
func (e *Encoder) SendTimeNow(now time.Time) error {
	return e.SendTimeUpdate(now.Hour(), now.Minute())
}
