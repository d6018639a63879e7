package eeprom

import "github.com/i2cflash/i2cflash-go/pkg/log"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the trace logger. Every chunk and write cycle is reported
// as a store-layer event.
func WithLogger(l log.Logger) Option {
	return func(s *Store) {
		s.logger = log.OrNoop(l)
	}
}

// WithWriteCycleWaiter replaces the default FixedDelay waiter.
func WithWriteCycleWaiter(w WriteCycleWaiter) Option {
	return func(s *Store) {
		if w != nil {
			s.waiter = w
		}
	}
}

// WithSessionID sets the session ID stamped on trace events.
func WithSessionID(id string) Option {
	return func(s *Store) {
		s.sessionID = id
	}
}

// WithName sets the part name reported by Store.Name.
func WithName(name string) Option {
	return func(s *Store) {
		s.name = name
	}
}
