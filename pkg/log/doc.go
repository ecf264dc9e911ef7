// Package log provides a logging abstraction for bootship components.
//
// The Logger interface can be implemented by any logging library.
// Default implementations are provided for zerolog and a no-op logger
// for testing.
//
// Use the provided zerolog adapter:
//
//	logger := log.NewZerologAdapter()
//
// Or the no-op logger in tests:
//
//	logger := log.NewNoopLogger()
package log
