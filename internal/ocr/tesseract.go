// Package ocr implements the text extraction collaborator on top of the
// system tesseract binary. Recognition runs fully on-device; nothing leaves
// the machine.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/2525Azarashi/manatobi/internal/core"
)

// TesseractEngine shells out to the tesseract CLI. The CLI reports no
// intermediate progress, so the engine emits the start and end fractions only;
// the lifecycle contract allows zero or more progress callbacks.
type TesseractEngine struct {
	binary string
	logger *slog.Logger
}

// NewTesseractEngine creates an engine invoking the given tesseract binary.
func NewTesseractEngine(binary string, logger *slog.Logger) *TesseractEngine {
	return &TesseractEngine{binary: binary, logger: logger}
}

// Recognize runs tesseract over the image at imagePath with the given
// language set (e.g. "jpn+eng") and returns the recognized text.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath, languages string, onProgress core.ProgressFunc) (string, error) {
	if onProgress != nil {
		onProgress(0)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, imagePath, "stdout", "-l", languages)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("running tesseract", "image", imagePath, "languages", languages)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("recognition canceled: %w", ctx.Err())
		}
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("tesseract failed: %s", firstLine(detail))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}

	if onProgress != nil {
		onProgress(1)
	}
	return stdout.String(), nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

var _ core.Engine = (*TesseractEngine)(nil)
