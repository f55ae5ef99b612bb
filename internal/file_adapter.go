package internal

import (
	"context"
	"fmt"
	"strings"
)

// FileAdapter writes finished results to a destination named by a URL.
type FileAdapter interface {
	Init(url string) error
	Write(ctx context.Context, data []byte) error
}

func NewFileAdapter(url string) (FileAdapter, error) {
	var adapter FileAdapter
	if strings.HasPrefix(url, "file://") {
		adapter = &LocalFileAdapter{}
	} else if strings.HasPrefix(url, "s3://") {
		adapter = &S3Adapter{}
	} else {
		return nil, fmt.Errorf("unsupported output %q, expected file:// or s3://", url)
	}

	if err := adapter.Init(url); err != nil {
		return nil, err
	}
	return adapter, nil
}
