// Package export writes chat-history snapshots to disk.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chemchat/internal/contextutil"
	"chemchat/internal/transcript"
)

// FilenamePrefix starts every export file name.
const FilenamePrefix = "chemllm-chat-history-"

// Filename returns the dated file name for snap, e.g. chemllm-chat-history-2026-05-01.json.
func Filename(snap transcript.Snapshot) string {
	return FilenamePrefix + snap.ExportedAt.UTC().Format("2006-01-02") + ".json"
}

// FileSink writes each snapshot as indented JSON into Dir. With HTML set it also
// writes a rendered sibling file. A second export on the same day replaces the first.
type FileSink struct {
	Dir  string
	HTML bool
}

// NewFileSink creates a FileSink rooted at dir.
func NewFileSink(dir string, html bool) *FileSink {
	return &FileSink{Dir: dir, HTML: html}
}

// Save writes snap and returns the JSON file path.
func (s *FileSink) Save(ctx context.Context, snap transcript.Snapshot) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	path := filepath.Join(s.Dir, Filename(snap))
	if err := writeFile(path, append(data, '\n')); err != nil {
		return "", err
	}

	if s.HTML {
		page, err := RenderHTML(snap)
		if err != nil {
			return "", err
		}
		htmlPath := strings.TrimSuffix(path, ".json") + ".html"
		if err := writeFile(htmlPath, page); err != nil {
			return "", err
		}
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "wrote html export", "path", htmlPath)
	}

	return path, nil
}

// writeFile replaces path atomically via a temp file in the same directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
