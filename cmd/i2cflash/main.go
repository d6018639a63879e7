// Command i2cflash reads, writes and checks 24xx I2C EEPROMs through a USB
// bridge, a Linux i2c-dev adapter or a simulated chip.
//
// Usage:
//
//	i2cflash <command> [flags] [args]
//
// Commands:
//
//	list      List attached MCP2221A bridges
//	catalog   Show the supported parts
//	info      Resolve a part name and show its geometry
//	read      Read memory to a file or a hex dump
//	write     Write a file to memory
//	verify    Compare memory with a file
//	erase     Fill the whole device with one value
//	selftest  Measure read bandwidth and run the round trip check
//	history   Show recorded operations
//	shell     Start an interactive session
//
// Examples:
//
//	# Dump the first 256 bytes of a 24LC256 on address 0x51
//	i2cflash read -part 24LC256 -address 0x51 -length 256
//
//	# Program an image through the second kernel adapter
//	i2cflash write -bridge i2cdev://1 -part 24AA64 -start 0 image.bin
//
//	# Try things out without hardware
//	i2cflash shell -bridge "sim:///tmp/eeprom.bin?cycle=5ms"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/i2cflash/i2cflash-go/cmd/i2cflash/commands"
	"github.com/i2cflash/i2cflash-go/cmd/i2cflash/interactive"
	"github.com/i2cflash/i2cflash-go/pkg/config"
)

const usage = `i2cflash - I2C EEPROM programmer

Usage:
  i2cflash <command> [flags] [args]

Commands:
  list      List attached MCP2221A bridges
  catalog   Show the supported parts
  info      Resolve a part name and show its geometry
  read      Read memory to a file or a hex dump
  write     Write a file to memory
  verify    Compare memory with a file
  erase     Fill the whole device with one value
  selftest  Measure read bandwidth and run the round trip check
  history   Show recorded operations
  shell     Start an interactive session

Use "i2cflash <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "list":
		commands.RunList(os.Stdout)
	case "catalog":
		commands.RunCatalog(os.Stdout)
	case "info":
		runInfo(args)
	case "read":
		runRead(args)
	case "write":
		runWrite(args)
	case "verify":
		runVerify(args)
	case "erase":
		runErase(args)
	case "selftest":
		runSelftest(args)
	case "history":
		runHistory(args)
	case "shell":
		runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// deviceFlags are the flags shared by every command that opens a device.
// Flags that are set override the configuration file and the environment.
type deviceFlags struct {
	configPath string
	bridge     string
	part       string
	address    string
	highSpeed  bool
	strategy   string
	timeout    time.Duration
	trace      string
	history    string
	logLevel   string
}

func (d *deviceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&d.configPath, "config", "", "Configuration file (YAML)")
	fs.StringVar(&d.bridge, "bridge", "", "Bridge URL: mcp2221://N, i2cdev://N, sim://[image]")
	fs.StringVar(&d.part, "part", "", "Part name, e.g. 24AA32A")
	fs.StringVar(&d.address, "address", "", "7-bit bus address, e.g. 0x50")
	fs.BoolVar(&d.highSpeed, "high-speed", false, "Use a 400 kHz bus clock")
	fs.StringVar(&d.strategy, "strategy", "", "Write cycle wait: fixed, ack_polling")
	fs.DurationVar(&d.timeout, "timeout", 0, "Write cycle delay or ACK polling timeout")
	fs.StringVar(&d.trace, "trace", "", "Write a protocol trace to this file")
	fs.StringVar(&d.history, "history", "", "Record operations in this SQLite database")
	fs.StringVar(&d.logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// config merges the file, the environment and the flags.
func (d *deviceFlags) config(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(d.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bridge":
			cfg.Bridge = d.bridge
		case "part":
			cfg.Part = d.part
		case "address":
			n, err := commands.ParseNumber(d.address)
			if err != nil || n < 0 || n > 0x7F {
				flagErr = fmt.Errorf("invalid bus address %q", d.address)
				return
			}
			cfg.Address = uint8(n)
		case "high-speed":
			cfg.HighSpeed = d.highSpeed
		case "strategy":
			cfg.WriteCycle.Strategy = d.strategy
		case "timeout":
			cfg.WriteCycle.Timeout = d.timeout
		case "trace":
			cfg.Log.Trace = d.trace
		case "history":
			cfg.History = d.history
		case "log-level":
			cfg.Log.Level = d.logLevel
		}
	})
	if flagErr != nil {
		return nil, flagErr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogging(cfg.Log.Level)
	return cfg, nil
}

func (d *deviceFlags) open(fs *flag.FlagSet) *commands.Session {
	cfg, err := d.config(fs)
	if err != nil {
		fail(err)
	}
	sess, err := commands.OpenSession(cfg, os.Stdout)
	if err != nil {
		fail(err)
	}
	return sess
}

func runInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash info [flags]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg, err := d.config(fs)
	if err != nil {
		fail(err)
	}
	if err := commands.RunInfo(os.Stdout, cfg.Part, cfg.Address); err != nil {
		fail(err)
	}
}

func runRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	start := fs.String("start", "0", "Start address")
	length := fs.String("length", "-1", "Number of bytes (-1 reads to the end)")
	output := fs.String("o", "", "Output file (default: hex dump to stdout)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash read [flags]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	from := mustNumber(*start)
	n := mustNumber(*length)

	sess := d.open(fs)
	defer sess.Close()
	if err := sess.Read(from, n, *output); err != nil {
		sess.Close()
		fail(err)
	}
}

func runWrite(args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	start := fs.String("start", "0", "Start address")
	verify := fs.Bool("verify", false, "Read back and compare after writing")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash write [flags] <file>")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input file required")
		fs.Usage()
		os.Exit(1)
	}
	from := mustNumber(*start)

	sess := d.open(fs)
	defer sess.Close()
	err := sess.WriteFile(from, fs.Arg(0))
	if err == nil && *verify {
		err = sess.VerifyFile(from, fs.Arg(0))
	}
	if err != nil {
		sess.Close()
		fail(err)
	}
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	start := fs.String("start", "0", "Start address")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash verify [flags] <file>")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input file required")
		fs.Usage()
		os.Exit(1)
	}
	from := mustNumber(*start)

	sess := d.open(fs)
	defer sess.Close()
	if err := sess.VerifyFile(from, fs.Arg(0)); err != nil {
		sess.Close()
		fail(err)
	}
}

func runErase(args []string) {
	fs := flag.NewFlagSet("erase", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	value := fs.String("value", "0xff", "Fill value")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash erase [flags]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	v := mustNumber(*value)
	if v < 0 || v > 0xFF {
		fail(fmt.Errorf("fill value %s out of byte range", *value))
	}

	sess := d.open(fs)
	defer sess.Close()
	if err := sess.Erase(byte(v)); err != nil {
		sess.Close()
		fail(err)
	}
}

func runSelftest(args []string) {
	fs := flag.NewFlagSet("selftest", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	tag := fs.Int("tag", -1, "Pattern tag 0-255 (default: random)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash selftest [flags]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	sess := d.open(fs)
	defer sess.Close()
	if err := sess.Selftest(*tag); err != nil {
		sess.Close()
		fail(err)
	}
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (YAML)")
	db := fs.String("history", "", "SQLite database (default: from config)")
	part := fs.String("part", "", "Only show operations on this part")
	limit := fs.Int("limit", 20, "Maximum number of operations")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash history [flags]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	path := *db
	if path == "" {
		cfg, err := config.LoadOrDefault(*configPath)
		if err != nil {
			fail(err)
		}
		path = cfg.History
	}
	if path == "" {
		fail(fmt.Errorf("no history database configured"))
	}
	if err := commands.RunHistory(os.Stdout, path, *part, *limit); err != nil {
		fail(err)
	}
}

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	var d deviceFlags
	d.register(fs)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: i2cflash shell [flags]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	sess := d.open(fs)
	defer sess.Close()

	sh, err := interactive.New(sess)
	if err != nil {
		sess.Close()
		fail(err)
	}
	log.SetOutput(sh.Stdout())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	sh.Run(ctx, cancel)
}

func mustNumber(s string) int {
	n, err := commands.ParseNumber(s)
	if err != nil {
		fail(err)
	}
	return n
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
