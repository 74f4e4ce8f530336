// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package repository

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// writeBody streams a response body to dest through a temporary file,
// renaming on success so a failed download never leaves a partial file.
func writeBody(resp *http.Response, dest string) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
