package extract

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/symptom-intake-server/internal/domain"
)

func newTestExtractor() *FileExtractor {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewFileExtractor(logger)
}

func TestExtract_TextFile(t *testing.T) {
	e := newTestExtractor()

	result := e.Extract(context.Background(), domain.UploadedFile{
		Name:     "report.txt",
		MIMEType: "text/plain",
		Data:     []byte("HbA1c: 7.2\nBlood pressure: 140/90"),
	})

	assert.Equal(t, "HbA1c: 7.2\nBlood pressure: 140/90", result)
}

func TestExtract_OctetStream(t *testing.T) {
	e := newTestExtractor()

	t.Run("textual content passes through", func(t *testing.T) {
		result := e.Extract(context.Background(), domain.UploadedFile{
			Name:     "report",
			MIMEType: "application/octet-stream",
			Data:     []byte("cholesterol 220 mg/dL"),
		})
		assert.Equal(t, "cholesterol 220 mg/dL", result)
	})

	t.Run("binary content gets placeholder", func(t *testing.T) {
		result := e.Extract(context.Background(), domain.UploadedFile{
			Name:     "report.bin",
			MIMEType: "application/octet-stream",
			Data:     []byte{0x00, 0x01, 0x02, 0x03, 0xff, 0xfe, 0x80, 0x81},
		})
		assert.Equal(t, "[Binary file: report.bin]", result)
	})
}

func TestExtract_Image(t *testing.T) {
	e := newTestExtractor()

	result := e.Extract(context.Background(), domain.UploadedFile{
		Name:     "scan.png",
		MIMEType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
	})

	assert.Equal(t, "[Image file uploaded: scan.png. Image analysis will be added soon.]", result)
}

func TestExtract_CorruptPDF(t *testing.T) {
	e := newTestExtractor()

	result := e.Extract(context.Background(), domain.UploadedFile{
		Name:     "labs.pdf",
		MIMEType: "application/pdf",
		Data:     []byte("%PDF-1.4 this is not a real pdf"),
	})

	assert.Equal(t, "[PDF extraction failed. Please type your medical values from the PDF.]", result)
}

func TestExtract_UnknownType(t *testing.T) {
	e := newTestExtractor()

	t.Run("readable content passes through", func(t *testing.T) {
		result := e.Extract(context.Background(), domain.UploadedFile{
			Name:     "notes.rtf",
			MIMEType: "application/rtf",
			Data:     []byte("patient reports fatigue and weakness"),
		})
		assert.Equal(t, "patient reports fatigue and weakness", result)
	})

	t.Run("unreadable content gets placeholder", func(t *testing.T) {
		result := e.Extract(context.Background(), domain.UploadedFile{
			Name:     "archive.zip",
			MIMEType: "application/zip",
			Data:     []byte{0x50, 0x4b, 0x03, 0x04, 0x00, 0xff, 0xfe, 0x80},
		})
		assert.Equal(t, "[File uploaded: archive.zip - Type: application/zip]", result)
	})
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		mime     string
		data     []byte
		want     fileKind
	}{
		{"pdf by mime", "doc", "application/pdf", nil, kindPDF},
		{"pdf by extension", "report.pdf", "", nil, kindPDF},
		{"pdf by magic bytes", "upload", "application/x-thing", []byte("%PDF-1.7"), kindPDF},
		{"text by mime", "notes", "text/plain", nil, kindText},
		{"markdown by extension", "readme.md", "", nil, kindText},
		{"octet stream", "blob", "application/octet-stream", nil, kindBinary},
		{"image by mime", "x.bin", "image/jpeg", nil, kindImage},
		{"image by extension", "scan.jpeg", "", nil, kindImage},
		{"unknown", "data.xyz", "application/x-custom", nil, kindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyKind(tt.fileName, tt.mime, tt.data))
		})
	}
}

func TestLooksLikeText(t *testing.T) {
	assert.True(t, looksLikeText([]byte("plain medical report text")))
	assert.False(t, looksLikeText([]byte{0x00, 0x01, 0x02, 0xff, 0xfe}))
	assert.False(t, looksLikeText(nil))
}
