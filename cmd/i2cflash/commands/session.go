// Package commands implements the i2cflash CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/i2cflash/i2cflash-go/internal/history"
	"github.com/i2cflash/i2cflash-go/pkg/bridge"
	"github.com/i2cflash/i2cflash-go/pkg/config"
	"github.com/i2cflash/i2cflash-go/pkg/eeprom"
	"github.com/i2cflash/i2cflash-go/pkg/i2c"
	"github.com/i2cflash/i2cflash-go/pkg/log"
)

// Session is an opened EEPROM with its trace and history sinks.
type Session struct {
	Config    *config.Config
	Store     *eeprom.Store
	SessionID string

	// Out receives command output.
	Out io.Writer

	ctrl    i2c.Controller
	trace   *log.FileLogger
	history *history.Store
}

// OpenSession connects to the bridge and opens the configured part.
func OpenSession(cfg *config.Config, out io.Writer) (*Session, error) {
	s := &Session{
		Config:    cfg,
		SessionID: uuid.NewString(),
		Out:       out,
	}

	var loggers []log.Logger
	if cfg.Log.Trace != "" {
		trace, err := log.NewFileLogger(cfg.Log.Trace)
		if err != nil {
			return nil, fmt.Errorf("failed to create protocol trace: %w", err)
		}
		s.trace = trace
		loggers = append(loggers, trace)
	}
	if cfg.Log.Level == "debug" {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(h)))
	}

	// Only set a bus logger when one exists to avoid a typed-nil interface.
	var traceLogger log.Logger
	if len(loggers) > 0 {
		traceLogger = log.NewMultiLogger(loggers...)
	}

	g, err := eeprom.Resolve(cfg.Part, cfg.Address)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.ctrl, err = bridge.OpenURL(cfg.Bridge, bridge.Options{
		HighSpeed: cfg.HighSpeed,
		Geometry:  g,
		Logger:    traceLogger,
		SessionID: s.SessionID,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open bridge %s: %w", cfg.Bridge, err)
	}

	s.Store, err = eeprom.Open(s.ctrl, cfg.Part, cfg.Address,
		eeprom.WithLogger(traceLogger),
		eeprom.WithSessionID(s.SessionID),
		eeprom.WithWriteCycleWaiter(cfg.Waiter()),
	)
	if err != nil {
		s.Close()
		return nil, err
	}

	if cfg.History != "" {
		s.history, err = history.NewStore(cfg.History)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	stdlog.Printf("Opened %s (%s) at 0x%02x via %s", s.Store.Name(), g, cfg.Address, cfg.Bridge)
	return s, nil
}

// Close releases the store, the bridge and the sinks.
func (s *Session) Close() error {
	var errs []error
	if s.Store != nil {
		errs = append(errs, s.Store.Close())
	}
	if s.ctrl != nil {
		errs = append(errs, s.ctrl.Close())
	}
	if s.trace != nil {
		errs = append(errs, s.trace.Close())
	}
	if s.history != nil {
		errs = append(errs, s.history.Close())
	}
	return errors.Join(errs...)
}

// record stores an operation in the history database, if one is configured.
// History failures are logged and never fail the command.
func (s *Session) record(kind string, start, length int, digest string, started time.Time, opErr error) {
	if s.history == nil {
		return
	}
	op := &history.Operation{
		ID:        uuid.NewString(),
		Kind:      kind,
		Bridge:    s.Config.Bridge,
		Part:      s.Store.Name(),
		Address:   s.Store.Address(),
		Start:     start,
		Length:    length,
		Digest:    digest,
		StartedAt: started,
	}
	op.Finish(opErr)
	if err := s.history.Record(op); err != nil {
		stdlog.Printf("Warning: failed to record history: %v", err)
	}
}
