package output

import (
	"context"
	"fmt"
	"os"

	"github.com/voyagen/streamcheck/internal/models"
)

// FileWriter writes entries to a playlist file as two lines each: description, then URL.
type FileWriter struct {
	f    *os.File
	path string
}

// CreateFile creates or truncates path.
func CreateFile(path string) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output %s: %w", path, err)
	}
	return &FileWriter{f: f, path: path}, nil
}

// Put writes e straight to the file, unbuffered, so the output grows as entries validate.
func (w *FileWriter) Put(_ context.Context, e models.Entry) error {
	if _, err := fmt.Fprintf(w.f, "%s\n%s\n", e.Description, e.URL); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}

// Close closes the file.
func (w *FileWriter) Close() error {
	return w.f.Close()
}

// Path is the file being written.
func (w *FileWriter) Path() string { return w.path }
