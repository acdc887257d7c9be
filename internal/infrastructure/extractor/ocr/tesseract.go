package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/kirillkom/legalease/internal/core/domain"
	"github.com/kirillkom/legalease/internal/infrastructure/resilience"
)

// CharWhitelist restricts recognition to characters common in legal text.
const CharWhitelist = `0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz.,;:!?()[]{}"-'`

type Config struct {
	Binary      string
	Lang        string
	TessdataDir string
	OEM         int
	PSM         int
	TempDir     string
}

func (c Config) normalize() Config {
	out := c
	if out.Binary == "" {
		out.Binary = "tesseract"
	}
	if out.Lang == "" {
		out.Lang = "eng"
	}
	if out.OEM <= 0 {
		out.OEM = 3
	}
	if out.PSM <= 0 {
		out.PSM = 6
	}
	return out
}

// Tesseract runs the tesseract CLI against a temporary PNG file.
type Tesseract struct {
	cfg      Config
	runner   Runner
	executor *resilience.Executor
}

func NewTesseract(cfg Config, runner Runner, executor *resilience.Executor) *Tesseract {
	if runner == nil {
		runner = NewExecRunner(nil)
	}
	return &Tesseract{
		cfg:      cfg.normalize(),
		runner:   runner,
		executor: executor,
	}
}

// CheckAvailable reports domain.ErrBackendUnavailable when the binary is not on PATH.
func CheckAvailable(binary string) error {
	if binary == "" {
		binary = "tesseract"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return domain.WrapError(domain.ErrBackendUnavailable, "locate tesseract", err)
	}
	return nil
}

func (t *Tesseract) args(path string) []string {
	args := []string{path, "stdout", "-l", t.cfg.Lang,
		"--oem", fmt.Sprintf("%d", t.cfg.OEM),
		"--psm", fmt.Sprintf("%d", t.cfg.PSM),
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return append(args, "-c", "tessedit_char_whitelist="+CharWhitelist)
}

func (t *Tesseract) Recognize(ctx context.Context, png []byte) (string, error) {
	f, err := os.CreateTemp(t.cfg.TempDir, "legalease-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("create ocr temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write ocr temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close ocr temp file: %w", err)
	}

	var text string
	call := func(callCtx context.Context) error {
		out, stderr, err := t.runner.Run(callCtx, t.cfg.Binary, t.args(path)...)
		if err != nil {
			return fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(string(stderr)))
		}
		text = string(out)
		return nil
	}

	if t.executor != nil {
		err = t.executor.Execute(ctx, "ocr.tesseract", call, classifyOCRError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapOCRError(err)
	}
	return text, nil
}

func classifyOCRError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if errors.Is(err, exec.ErrNotFound) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}
	if errors.Is(err, syscall.EAGAIN) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	return resilience.ClassifyDomainError(err)
}

func wrapOCRError(err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return domain.WrapError(domain.ErrBackendUnavailable, "ocr", err)
	case resilience.IsCircuitOpen(err):
		return domain.WrapError(domain.ErrTemporary, "ocr", err)
	default:
		return err
	}
}
