package persist

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/rastraverba/etl/internal/logger"
	"github.com/rastraverba/etl/internal/tracker/types"
)

// Writer persists the linked table as a parquet file. Column names,
// compression and dictionary encoding come from the struct tags on
// types.LinkedRecord.
type Writer struct {
	path   string
	logger *logger.Logger
}

func New(path string, appLogger *logger.Logger) *Writer {
	return &Writer{path: path, logger: appLogger}
}

// Path returns the output file location.
func (w *Writer) Path() string {
	return w.path
}

// Write replaces the output file with the given records.
func (w *Writer) Write(records []types.LinkedRecord) error {
	const component = "ParquetWriter"

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", w.path, err)
	}

	pw := parquet.NewGenericWriter[types.LinkedRecord](file)
	if _, err := pw.Write(records); err != nil {
		file.Close()
		return fmt.Errorf("writing parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finalizing parquet file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", w.path, err)
	}

	info, err := os.Stat(w.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", w.path, err)
	}

	w.logger.Info(component, "Wrote %d rows to %s (%.2f MB)",
		len(records), w.path, float64(info.Size())/(1024*1024))
	return nil
}
