// Package validation checks uploaded dataset workbooks before they reach
// the spreadsheet parser.
package validation

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// Workbook magic numbers: xlsx files are zip archives, legacy xls files
// use the OLE compound document header.
var (
	zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}
	oleMagic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}
)

// UploadValidator validates dataset workbook uploads.
type UploadValidator struct {
	logger *slog.Logger
}

// NewUploadValidator creates an upload validator.
func NewUploadValidator(logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		logger: logger.With(slog.String("component", "upload_validator")),
	}
}

// ValidateFilename checks the uploaded name: the extension must be a
// recognized workbook format and Office lock files are rejected.
func (v *UploadValidator) ValidateFilename(name string) error {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("rejected temporary workbook file",
			slog.String("filename", base))
		return fmt.Errorf("%s is a temporary workbook file", base)
	}

	ext := strings.ToLower(filepath.Ext(base))
	switch ext {
	case ".xlsx", ".xls":
		return nil
	default:
		v.logger.Warn("rejected upload with unsupported extension",
			slog.String("filename", base),
			slog.String("extension", ext))
		return fmt.Errorf("unsupported file extension %q", ext)
	}
}

// ValidateContent sniffs the stream's magic number and returns a reader
// that replays the consumed bytes. The content check catches renamed
// files the extension check lets through.
func (v *UploadValidator) ValidateContent(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(oleMagic))
	if err != nil {
		return nil, fmt.Errorf("read workbook header: %w", err)
	}

	if !bytes.HasPrefix(head, zipMagic) && !bytes.HasPrefix(head, oleMagic) {
		v.logger.Warn("upload content is not a workbook")
		return nil, fmt.Errorf("content is not a recognized workbook format")
	}
	return br, nil
}
