package verify

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// WriteReportFile writes r as JSON to path. The report is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partial report.
func WriteReportFile(path string, r Report) error {
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		return fmt.Errorf("verify: encode report: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("verify: write report: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("verify: write report: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("verify: write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("verify: write report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("verify: write report: %w", err)
	}
	return nil
}
