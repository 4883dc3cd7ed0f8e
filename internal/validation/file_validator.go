package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "solpedcli/internal/errors"
)

// Workbooks are zip containers (OOXML)
var zipMagic = []byte("PK\x03\x04")

// WorkbookExtensions lists the accepted workbook extensions, lower case
var WorkbookExtensions = []string{".xlsx", ".xlsm"}

// ErrEmptyWorkbook is the cause of an InvalidWorkbookError for a zero-byte input
var ErrEmptyWorkbook = errors.New("workbook is empty")

// WorkbookValidator checks workbook inputs before they reach the parser,
// for both HTTP uploads and local CLI files.
type WorkbookValidator struct {
	logger *slog.Logger
}

// NewWorkbookValidator creates a new workbook validator
func NewWorkbookValidator(logger *slog.Logger) *WorkbookValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookValidator{
		logger: logger,
	}
}

// ValidateUpload checks the file name and leading bytes of an upload, then
// rewinds r so the caller can read it from the start.
func (v *WorkbookValidator) ValidateUpload(r io.ReadSeeker, filename string) error {
	if err := v.checkExtension(filename); err != nil {
		return err
	}

	if err := v.sniff(r, filename); err != nil {
		return err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload %s: %w", filename, err)
	}
	return nil
}

// ValidateFile checks that path is a readable workbook file
func (v *WorkbookValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	if err := v.checkExtension(path); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	defer file.Close()

	if err := v.sniff(file, path); err != nil {
		return err
	}

	v.logger.Debug("Workbook validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputPath ensures the directory of path exists or can be created
func (v *WorkbookValidator) ValidateOutputPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("output path %s is a directory", path)
	}
	return nil
}

func (v *WorkbookValidator) checkExtension(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range WorkbookExtensions {
		if ext == allowed {
			if strings.HasPrefix(filepath.Base(name), "~$") {
				v.logger.Warn("Rejected temporary Excel file", slog.String("file", name))
				return &apperrors.InvalidWorkbookError{Cause: fmt.Errorf("%s is a temporary Excel lock file", filepath.Base(name))}
			}
			return nil
		}
	}

	v.logger.Warn("Rejected file with unsupported extension",
		slog.String("file", name),
		slog.String("extension", ext))
	return &apperrors.InvalidWorkbookError{
		Cause: fmt.Errorf("unsupported extension %q, expected one of %s", ext, strings.Join(WorkbookExtensions, ", ")),
	}
}

func (v *WorkbookValidator) sniff(r io.Reader, name string) error {
	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(r, head)
	switch {
	case n == 0 && (err == io.EOF || err == nil):
		return &apperrors.InvalidWorkbookError{Cause: ErrEmptyWorkbook}
	case err != nil && err != io.ErrUnexpectedEOF:
		return fmt.Errorf("read %s: %w", name, err)
	}

	if !bytes.Equal(head[:n], zipMagic) {
		v.logger.Warn("Rejected file that is not a zip container", slog.String("file", name))
		return &apperrors.InvalidWorkbookError{Cause: fmt.Errorf("%s is not an Excel workbook", filepath.Base(name))}
	}
	return nil
}
