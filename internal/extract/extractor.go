package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"

	"github.com/symptom-intake-server/internal/domain"
)

// fileKind is the coarse category an upload is handled as.
type fileKind string

const (
	kindPDF     fileKind = "pdf"
	kindText    fileKind = "text"
	kindBinary  fileKind = "binary"
	kindImage   fileKind = "image"
	kindUnknown fileKind = "unknown"
)

// FileExtractor converts uploaded files into analyzable text.
// Extraction never fails: when no text can be recovered it returns a
// bracketed placeholder describing the file, so the classifier always
// receives something to work with.
type FileExtractor struct {
	logger *logrus.Logger
}

// NewFileExtractor creates a text extractor.
func NewFileExtractor(logger *logrus.Logger) *FileExtractor {
	return &FileExtractor{logger: logger}
}

// Extract returns the text content of the uploaded file, or a
// placeholder when the content is not textual.
func (e *FileExtractor) Extract(ctx context.Context, file domain.UploadedFile) string {
	kind := classifyKind(file.Name, file.MIMEType, file.Data)

	e.logger.WithFields(logrus.Fields{
		"file_name": file.Name,
		"mime_type": file.MIMEType,
		"kind":      kind,
		"size":      len(file.Data),
	}).Debug("Extracting text from uploaded file")

	switch kind {
	case kindPDF:
		return e.extractPDF(file)
	case kindText:
		return string(file.Data)
	case kindBinary:
		if looksLikeText(file.Data) {
			return string(file.Data)
		}
		return fmt.Sprintf("[Binary file: %s]", file.Name)
	case kindImage:
		return fmt.Sprintf("[Image file uploaded: %s. Image analysis will be added soon.]", file.Name)
	default:
		// Last resort for unrecognized types that still carry text
		if len(file.Data) > 0 && len(file.Data) < 100000 && looksLikeText(file.Data) {
			return string(file.Data)
		}
		return fmt.Sprintf("[File uploaded: %s - Type: %s]", file.Name, file.MIMEType)
	}
}

func (e *FileExtractor) extractPDF(file domain.UploadedFile) string {
	text, pages, err := readPDFText(file.Data)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"file_name": file.Name,
			"error":     err.Error(),
		}).Warn("PDF extraction failed")
		return "[PDF extraction failed. Please type your medical values from the PDF.]"
	}

	text = strings.TrimSpace(text)
	e.logger.WithFields(logrus.Fields{
		"file_name":  file.Name,
		"characters": len(text),
		"pages":      pages,
	}).Info("PDF extracted")

	if text == "" {
		return fmt.Sprintf("[PDF file: %s - No text could be extracted. Please type your medical values.]", file.Name)
	}
	return text
}

// readPDFText pulls the plain text out of a PDF. The parser panics on
// some malformed documents, so recover and report those as errors.
func readPDFText(data []byte) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("opening pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", 0, fmt.Errorf("reading pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, fmt.Errorf("copying pdf text: %w", err)
	}

	return buf.String(), reader.NumPage(), nil
}

// classifyKind decides how to handle an upload based on MIME type,
// file extension, and magic bytes.
func classifyKind(name, mime string, data []byte) fileKind {
	m := strings.ToLower(strings.TrimSpace(mime))
	ext := strings.ToLower(filepath.Ext(name))

	if m == "application/pdf" || ext == ".pdf" || isPDFHeader(data) {
		return kindPDF
	}
	if strings.HasPrefix(m, "text/") || ext == ".txt" || ext == ".md" || ext == ".csv" || ext == ".log" {
		return kindText
	}
	if m == "application/octet-stream" {
		return kindBinary
	}
	if strings.HasPrefix(m, "image/") || ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".webp" {
		return kindImage
	}
	return kindUnknown
}

func isPDFHeader(b []byte) bool {
	if len(b) < 5 {
		return false
	}
	return string(b[:5]) == "%PDF-"
}

// looksLikeText reports whether the bytes are mostly printable
// characters and safe to pass through as-is.
func looksLikeText(data []byte) bool {
	printable := 0
	total := 0
	for _, r := range string(data) {
		total++
		if r == '\n' || r == '\r' || r == '\t' || r == ' ' {
			printable++
			continue
		}
		if r >= 32 && r != 127 {
			printable++
		}
	}
	return total > 0 && float64(printable)/float64(total) > 0.90
}
