// Package log provides structured protocol tracing for EEPROM access.
//
// This package defines the Logger interface and Event types for capturing
// events at two layers: raw I2C bus transactions and page-chunked store
// operations. It is separate from operational logging (slog): the trace is a
// complete machine-readable record for debugging and analysis.
//
// # Basic Usage
//
// Applications configure tracing by providing a Logger implementation:
//
//	// For development: log to console via slog
//	store, _ := eeprom.Open(ctrl, "24AA256", 0x50, eeprom.WithLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For later analysis: write to binary file
//	fl, _ := log.NewFileLogger("/tmp/flash.etrace")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured at two layers:
//   - Bus: raw I2C transactions (TransactionEvent)
//   - Store: page chunks (TransactionEvent) and write-cycle waits (WriteCycleEvent)
//
// State changes and errors have dedicated event types.
//
// # File Format
//
// Trace files use CBOR encoding with .etrace extension. The i2cflash-log CLI
// tool provides viewing, filtering, and export capabilities.
package log
