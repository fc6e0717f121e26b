package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"

	"eposfetch/internal/components/assert"
)

// FilesystemOutput writes each http message to its own file inside a directory,
// the directory is wiped when the output is created so it only holds one run.
type FilesystemOutput struct {
	directory string
	logger    *slog.Logger
}

func NewFilesystemOutput(dir string, logger *slog.Logger) (FilesystemOutput, error) {
	assert.NotNil(logger)
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir, logger: logger}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".txt"), []byte(contents), 0600)
	if err != nil {
		o.logger.Warn("failed to write message info file", "id", id, "err", err)
	}
}
