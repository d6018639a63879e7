// Package selftest measures and checks an EEPROM through the store API.
package selftest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
)

// BaseAddress is where the round trip test starts. It is not page aligned
// so the test exercises partial first and last chunks.
const BaseAddress = 0x34

// Lines is the number of template lines in the round trip pattern.
const Lines = 20

// ErrMismatch is returned when data read back differs from what was written.
var ErrMismatch = errors.New("read back mismatch")

// Report is the timing of one transfer.
type Report struct {
	Action  string
	Bytes   int
	Elapsed time.Duration
}

// Rate returns the throughput in bytes per second.
func (r Report) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) / r.Elapsed.Seconds()
}

func (r Report) String() string {
	if r.Elapsed < time.Second {
		return fmt.Sprintf("%s %s in %d ms @ %s/s", r.Action, PrettySize(float64(r.Bytes)), r.Elapsed.Milliseconds(), PrettySize(r.Rate()))
	}
	return fmt.Sprintf("%s %s in %d seconds @ %s/s", r.Action, PrettySize(float64(r.Bytes)), int(r.Elapsed.Seconds()), PrettySize(r.Rate()))
}

// PrettySize formats a byte count with a binary unit.
func PrettySize(n float64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", n/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", n/(1<<10))
	}
	return fmt.Sprintf("%d bytes", int(n))
}

// ReadBandwidth reads the whole device once.
func ReadBandwidth(dev eeprom.Device) (Report, error) {
	start := time.Now()
	data, err := dev.Read(0, dev.Capacity())
	if err != nil {
		return Report{}, err
	}
	return Report{Action: "Read", Bytes: len(data), Elapsed: time.Since(start)}, nil
}

// Pattern returns the ASCII round trip pattern for tag. The tag keeps two
// consecutive runs from passing on stale data.
func Pattern(tag byte) []byte {
	tpl := fmt.Sprintf("This is %02x I2C EEPROM test %%d. ", tag)
	var b strings.Builder
	for i := range Lines {
		fmt.Fprintf(&b, tpl, i)
	}
	return []byte(b.String())
}

// Mismatch describes the first differing byte.
type Mismatch struct {
	Offset int
	Want   byte
	Got    byte
	Length int
}

func (m Mismatch) Error() string {
	return fmt.Sprintf("mismatch %02x/%02x @ 0x%x on %d bytes", m.Want, m.Got, m.Offset, m.Length)
}

func (m Mismatch) Unwrap() error { return ErrMismatch }

// FirstMismatch compares want and got and returns the first difference.
func FirstMismatch(want, got []byte) (Mismatch, bool) {
	n := min(len(want), len(got))
	for i := 0; i < n; i++ {
		if want[i] != got[i] {
			return Mismatch{Offset: i, Want: want[i], Got: got[i], Length: len(want)}, true
		}
	}
	if len(want) != len(got) {
		return Mismatch{Offset: n, Length: len(want)}, true
	}
	return Mismatch{}, false
}

// RoundTripResult is the outcome of RoundTrip.
type RoundTripResult struct {
	Address int
	Write   Report
	Read    Report
	Digest  string
}

// RoundTrip writes Pattern(tag) at BaseAddress, reads it back and compares.
// The pattern is truncated to what fits. A difference is returned as a
// Mismatch error, which wraps ErrMismatch.
func RoundTrip(dev eeprom.Device, tag byte) (RoundTripResult, error) {
	addr := BaseAddress
	if addr >= dev.Capacity() {
		addr = 0
	}
	ref := Pattern(tag)
	ref = ref[:min(len(ref), dev.Capacity()-addr)]

	res := RoundTripResult{Address: addr, Digest: Digest(ref)}

	start := time.Now()
	if err := dev.Write(addr, ref); err != nil {
		return res, err
	}
	res.Write = Report{Action: "Write", Bytes: len(ref), Elapsed: time.Since(start)}

	start = time.Now()
	got, err := dev.Read(addr, len(ref))
	if err != nil {
		return res, err
	}
	res.Read = Report{Action: "Read", Bytes: len(got), Elapsed: time.Since(start)}

	if m, ok := FirstMismatch(ref, got); ok {
		return res, m
	}
	return res, nil
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
