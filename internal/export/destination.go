package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Destination receives a finished snapshot.
type Destination interface {
	// Write sends the JSONL payload to the destination.
	Write(ctx context.Context, data []byte) error
	// String describes the destination for logs.
	String() string
}

// WriterDestination writes snapshots to an io.Writer such as stdout.
type WriterDestination struct {
	W    io.Writer
	Name string
}

func (d *WriterDestination) Write(_ context.Context, data []byte) error {
	_, err := d.W.Write(data)
	return err
}

func (d *WriterDestination) String() string {
	if d.Name == "" {
		return "writer"
	}
	return d.Name
}

// FileDestination replaces a local file with each snapshot. The file is
// written to a temporary sibling and renamed into place.
type FileDestination struct {
	Path string
}

func (d *FileDestination) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(d.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(d.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.Path); err != nil {
		return fmt.Errorf("renaming into %s: %w", d.Path, err)
	}
	return nil
}

func (d *FileDestination) String() string { return "file:" + d.Path }
