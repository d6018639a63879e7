// Package interactive provides the interactive command-line interface
// for i2cflash.
package interactive

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/i2cflash/i2cflash-go/cmd/i2cflash/commands"
)

// DefaultReadLength is the number of bytes shown by "read" without a length.
const DefaultReadLength = 64

// Shell handles interactive mode for i2cflash.
type Shell struct {
	sess *commands.Session
	rl   *readline.Instance
	out  io.Writer
}

// New creates a shell on an opened session. Command output of the session
// is redirected through readline.
func New(sess *commands.Session) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s> ", strings.ToLower(sess.Store.Name())),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(sess, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(sess *commands.Session, out io.Writer) *Shell {
	sess.Out = out
	return &Shell{sess: sess, out: out}
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.Execute(line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns true when the shell should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "info":
		err = commands.RunInfo(s.out, s.sess.Store.Name(), s.sess.Store.Address())
	case "read", "r":
		err = s.cmdRead(args)
	case "write", "w":
		err = s.cmdWrite(input, args)
	case "verify", "v":
		err = s.cmdVerify(input, args)
	case "erase":
		err = s.cmdErase(args)
	case "selftest", "test":
		err = s.cmdSelftest(args)
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
i2cflash Commands:
  Memory:
    read <addr> [len]       - Hex dump len bytes (default 64)
    write <addr> <data>     - Write hex bytes or "quoted text"
    verify <addr> <data>    - Compare memory with hex bytes or "quoted text"
    erase [value]           - Fill the whole device (default 0xff)

  Diagnostics:
    info                    - Show part geometry
    selftest [tag]          - Measure bandwidth and run the round trip check

  General:
    help                    - Show this help
    quit                    - Exit

  Numbers are decimal or 0x-prefixed hex. Hex data may contain spaces.`)
}

func (s *Shell) cmdRead(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: read <addr> [len]")
	}
	start, err := commands.ParseNumber(args[0])
	if err != nil {
		return err
	}
	length := DefaultReadLength
	if len(args) == 2 {
		if length, err = commands.ParseNumber(args[1]); err != nil {
			return err
		}
	}
	// Clip the default length at the end of the device.
	if len(args) == 1 {
		length = min(length, max(s.sess.Store.Capacity()-start, 0))
	}
	return s.sess.Read(start, length, "")
}

func (s *Shell) cmdWrite(input string, args []string) error {
	start, data, err := addressAndData(input, args)
	if err != nil {
		return fmt.Errorf("usage: write <addr> <data>: %w", err)
	}
	return s.sess.Write(start, data)
}

func (s *Shell) cmdVerify(input string, args []string) error {
	start, data, err := addressAndData(input, args)
	if err != nil {
		return fmt.Errorf("usage: verify <addr> <data>: %w", err)
	}
	return s.sess.Verify(start, data)
}

func (s *Shell) cmdErase(args []string) error {
	value := 0xFF
	if len(args) > 0 {
		var err error
		if value, err = commands.ParseNumber(args[0]); err != nil {
			return err
		}
	}
	if value < 0 || value > 0xFF {
		return fmt.Errorf("erase value 0x%x out of byte range", value)
	}
	return s.sess.Erase(byte(value))
}

func (s *Shell) cmdSelftest(args []string) error {
	tag := -1
	if len(args) > 0 {
		var err error
		if tag, err = commands.ParseNumber(args[0]); err != nil {
			return err
		}
	}
	return s.sess.Selftest(tag)
}

// addressAndData parses "<cmd> <addr> <data>". Data is either a double
// quoted string taken verbatim from the input line or hex bytes.
func addressAndData(input string, args []string) (int, []byte, error) {
	if len(args) < 2 {
		return 0, nil, fmt.Errorf("missing data")
	}
	start, err := commands.ParseNumber(args[0])
	if err != nil {
		return 0, nil, err
	}

	if i := strings.IndexByte(input, '"'); i >= 0 {
		j := strings.LastIndexByte(input, '"')
		if j <= i {
			return 0, nil, fmt.Errorf("unterminated string")
		}
		return start, []byte(input[i+1 : j]), nil
	}

	raw := strings.TrimPrefix(strings.Join(args[1:], ""), "0x")
	data, err := hex.DecodeString(raw)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid hex data: %w", err)
	}
	return start, data, nil
}
