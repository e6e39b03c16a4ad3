package logger

import "go.uber.org/zap"

// Log is the package-global logger. It is a no-op until Initialize is called.
var Log = zap.NewNop()

// Initialize builds a production logger with the given level and replaces Log.
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = log

	return nil
}
