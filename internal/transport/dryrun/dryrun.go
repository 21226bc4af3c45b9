// Package dryrun provides a transport for running without panel hardware.
package dryrun

import (
	"log"

	"github.com/Thebys/b48-display-controller/internal/protocol"
)

// Transport hex-dumps every frame to the process log instead of a serial
// device. Used when no serial device is configured, so the whole controller
// can run and be observed on a developer machine.
type Transport struct{}

// New returns a dry-run transport.
func New() *Transport {
	log.Println("[DryRun] No serial device configured, frames will be logged only.")
	return &Transport{}
}

// WriteFrame logs the frame bytes and always succeeds.
func (t *Transport) WriteFrame(frame []byte) error {
	log.Printf("[DryRun] frame % X", frame)
	return nil
}

var _ protocol.Transport = (*Transport)(nil)
