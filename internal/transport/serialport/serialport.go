// Package serialport implements the physical BUSE120 link on a serial device.
package serialport

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/Thebys/b48-display-controller/internal/protocol"
)

// Link parameters of the BUSE120 bus. The panel speaks 1200 baud with 7 data
// bits, even parity and 2 stop bits; nothing about this is configurable.
const (
	BaudRate = 1200
	DataBits = 7
)

// Port writes complete frames to a serial device. Writes are expected to come
// from a single goroutine (the display control loop owns the link).
type Port struct {
	device string
	port   serial.Port
}

// Open opens the serial device with the fixed BUSE120 link parameters.
func Open(device string) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: DataBits,
		Parity:   serial.EvenParity,
		StopBits: serial.TwoStopBits,
	}

	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial device %s: %w", device, err)
	}

	return &Port{device: device, port: p}, nil
}

// WriteFrame transmits one complete frame. Partial writes are errors; the
// panel cannot resynchronize mid-frame.
func (p *Port) WriteFrame(frame []byte) error {
	n, err := p.port.Write(frame)
	if err != nil {
		return fmt.Errorf("serial write on %s: %w", p.device, err)
	}
	if n != len(frame) {
		return fmt.Errorf("serial short write on %s: %d of %d bytes", p.device, n, len(frame))
	}
	return nil
}

// Close releases the serial device.
func (p *Port) Close() error {
	return p.port.Close()
}

var _ protocol.Transport = (*Port)(nil)
