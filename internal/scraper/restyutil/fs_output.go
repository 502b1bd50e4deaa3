package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes one file per HTTP message into a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput creates dir if needed.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return FilesystemOutput{}, fmt.Errorf("create dump directory: %w", err)
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".txt"), []byte(contents), 0o600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
