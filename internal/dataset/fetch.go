// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package dataset

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LeQKhai/MovieRec/internal/logging"
)

// EnsureData makes sure dir contains the dataset, downloading and extracting
// the archive from url when the directory does not exist yet. A present
// directory is used as-is, even if incomplete; Load reports what is missing.
// With an empty url the function only checks for the directory.
func EnsureData(ctx context.Context, dir, url string) error {
	if _, err := os.Stat(dir); err == nil {
		logging.Debug().Str("component", "dataset").Str("dir", dir).Msg("data directory present, skipping download")
		return nil
	}

	if url == "" {
		return fmt.Errorf("data directory %s does not exist and no download URL configured", dir)
	}

	logging.Info().Str("component", "dataset").Str("url", url).Str("dir", dir).Msg("downloading dataset archive")

	archive, err := downloadArchive(ctx, url)
	if err != nil {
		return fmt.Errorf("download dataset: %w", err)
	}
	defer os.Remove(archive)

	if err := extractArchive(archive, dir); err != nil {
		return fmt.Errorf("extract dataset: %w", err)
	}

	return nil
}

func downloadArchive(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "movierec-data-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write archive: %w", err)
	}

	return tmp.Name(), nil
}

// extractArchive unpacks the CSV members of the zip into dir, flattening any
// directory structure inside the archive. Non-CSV members are skipped.
func extractArchive(archive, dir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	for _, f := range zr.File {
		name := filepath.Base(f.Name)
		if f.FileInfo().IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		// filepath.Base above also neutralizes zip-slip paths.
		if err := extractMember(f, filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	return nil
}

func extractMember(f *zip.File, dest string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open archive member %s: %w", f.Name, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return nil
}
