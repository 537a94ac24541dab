package common

import "log/slog"

// SlogResetLevel sets the default slog level and returns a function
// restoring the previous one. Pairs well with defer; tests exercising
// noisy failure paths quiet them like:
//
//	defer common.SlogResetLevel(slog.Level(slog.LevelError + 1))()
func SlogResetLevel(level slog.Level) (reset func()) {
	oldLevel := slog.SetLogLoggerLevel(level)
	return func() {
		slog.SetLogLoggerLevel(oldLevel)
	}
}
