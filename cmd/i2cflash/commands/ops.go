package commands

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i2cflash/i2cflash-go/internal/selftest"
)

// ParseNumber parses a decimal or 0x-prefixed hexadecimal number.
func ParseNumber(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return int(n), nil
}

// span resolves a start and an optional length against the capacity.
// A negative length means "to the end".
func (s *Session) span(start, length int) (int, int) {
	if length < 0 {
		length = max(s.Store.Capacity()-start, 0)
	}
	return start, length
}

// Read reads length bytes at start. A negative length reads to the end.
// With an empty output path the data is hex dumped to s.Out.
func (s *Session) Read(start, length int, output string) error {
	start, length = s.span(start, length)
	began := time.Now()

	data, err := s.Store.Read(start, length)
	s.record("read", start, length, digestOf(data, err), began, err)
	if err != nil {
		return err
	}

	if output == "" {
		dumpAt(s.Out, start, data)
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(s.Out, "Read %d bytes from 0x%04x to %s\n", len(data), start, output)
	return nil
}

// WriteFile writes the contents of input at start.
func (s *Session) WriteFile(start int, input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	return s.Write(start, data)
}

// Write writes data at start.
func (s *Session) Write(start int, data []byte) error {
	began := time.Now()
	err := s.Store.Write(start, data)
	s.record("write", start, len(data), digestOf(data, err), began, err)
	if err != nil {
		return err
	}

	r := selftest.Report{Action: "Wrote", Bytes: len(data), Elapsed: time.Since(began)}
	fmt.Fprintf(s.Out, "%s at 0x%04x\n", r, start)
	return nil
}

// VerifyFile compares the device contents at start with input.
func (s *Session) VerifyFile(start int, input string) error {
	want, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	return s.Verify(start, want)
}

// Verify compares the device contents at start with want. A difference is
// returned as a selftest.Mismatch.
func (s *Session) Verify(start int, want []byte) error {
	began := time.Now()

	got, err := s.Store.Read(start, len(want))
	if err == nil {
		if m, bad := selftest.FirstMismatch(want, got); bad {
			m.Offset += start
			err = m
		}
	}
	s.record("verify", start, len(want), digestOf(want, nil), began, err)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.Out, "Verified %d bytes at 0x%04x, blake2b %s\n", len(want), start, selftest.Digest(want))
	return nil
}

// Erase fills the whole device with value.
func (s *Session) Erase(value byte) error {
	data := bytes.Repeat([]byte{value}, s.Store.Capacity())
	began := time.Now()

	err := s.Store.Write(0, data)
	s.record("erase", 0, len(data), digestOf(data, err), began, err)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Erased %s with 0x%02x in %s\n", selftest.PrettySize(float64(len(data))), value, time.Since(began).Round(time.Millisecond))
	return nil
}

// Selftest measures read bandwidth and runs the unaligned round trip check.
// A tag outside 0-255 picks a random one.
func (s *Session) Selftest(tag int) error {
	if tag < 0 || tag > 0xFF {
		tag = rand.IntN(0x100)
	}
	began := time.Now()

	bw, err := selftest.ReadBandwidth(s.Store)
	if err != nil {
		s.record("selftest", 0, s.Store.Capacity(), "", began, err)
		return err
	}
	fmt.Fprintln(s.Out, bw)

	res, err := selftest.RoundTrip(s.Store, byte(tag))
	s.record("selftest", res.Address, res.Write.Bytes, res.Digest, began, err)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.Out, res.Write)
	fmt.Fprintln(s.Out, res.Read)
	fmt.Fprintf(s.Out, "Round trip at 0x%04x OK (tag %02x)\n", res.Address, tag)
	return nil
}

func digestOf(data []byte, err error) string {
	if err != nil {
		return ""
	}
	return selftest.Digest(data)
}

// dumpAt writes a hex dump of data with offsets relative to base.
func dumpAt(w io.Writer, base int, data []byte) {
	for _, line := range strings.SplitAfter(hex.Dump(data), "\n") {
		if len(line) < 8 {
			continue
		}
		off, err := strconv.ParseUint(line[:8], 16, 32)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%08x%s", base+int(off), line[8:])
	}
}
