package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

type LocalFileAdapter struct {
	path string
}

func (a *LocalFileAdapter) Init(url string) error {
	a.path = url[7:]
	if a.path == "" {
		return errors.New("No file specified")
	}
	return nil
}

func (a LocalFileAdapter) Write(ctx context.Context, data []byte) error {
	if dir := filepath.Dir(a.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(a.path, data, 0o644)
}
