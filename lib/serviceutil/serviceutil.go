package serviceutil

import (
	"log/slog"
	"os"
)

// Fatal logs err and exits the process, it is only meant for main packages.
func Fatal(logger *slog.Logger, message string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error(message, "err", err.Error())
	os.Exit(1)
}
