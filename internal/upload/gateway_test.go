package upload

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n%%EOF\n")
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
)

func TestProfile_Accept(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		files   []File
		wantErr error
	}{
		{
			name:    "document pdf within limits",
			profile: Document,
			files:   []File{{Name: "sick-note.pdf", MIMEType: "application/pdf", Size: 2 * megabyte, Data: pdfBytes}},
		},
		{
			name:    "document docx",
			profile: Document,
			files:   []File{{Name: "letter.docx", MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 1024}},
		},
		{
			name:    "document five files",
			profile: Document,
			files: []File{
				{Name: "1.txt", MIMEType: "text/plain", Size: 1},
				{Name: "2.txt", MIMEType: "text/plain", Size: 1},
				{Name: "3.txt", MIMEType: "text/plain", Size: 1},
				{Name: "4.txt", MIMEType: "text/plain", Size: 1},
				{Name: "5.txt", MIMEType: "text/plain", Size: 1},
			},
		},
		{
			name:    "document exactly at size limit",
			profile: Document,
			files:   []File{{Name: "scan.png", MIMEType: "image/png", Size: 10 * megabyte}},
		},
		{
			name:    "document over size limit",
			profile: Document,
			files:   []File{{Name: "scan.png", MIMEType: "image/png", Size: 10*megabyte + 1}},
			wantErr: ErrFileTooLarge,
		},
		{
			name:    "document six files",
			profile: Document,
			files: []File{
				{Name: "1.txt", MIMEType: "text/plain", Size: 1},
				{Name: "2.txt", MIMEType: "text/plain", Size: 1},
				{Name: "3.txt", MIMEType: "text/plain", Size: 1},
				{Name: "4.txt", MIMEType: "text/plain", Size: 1},
				{Name: "5.txt", MIMEType: "text/plain", Size: 1},
				{Name: "6.txt", MIMEType: "text/plain", Size: 1},
			},
			wantErr: ErrTooManyFiles,
		},
		{
			name:    "document disallowed type",
			profile: Document,
			files:   []File{{Name: "run.exe", MIMEType: "application/x-msdownload", Size: 10}},
			wantErr: ErrMIMETypeNotAllowed,
		},
		{
			name:    "profile picture png",
			profile: ProfilePicture,
			files:   []File{{Name: "me.png", MIMEType: "image/png", Size: 4 * megabyte}},
		},
		{
			name:    "profile picture rejects pdf",
			profile: ProfilePicture,
			files:   []File{{Name: "me.pdf", MIMEType: "application/pdf", Size: 10}},
			wantErr: ErrMIMETypeNotAllowed,
		},
		{
			name:    "profile picture rejects two files",
			profile: ProfilePicture,
			files: []File{
				{Name: "a.png", MIMEType: "image/png", Size: 1},
				{Name: "b.png", MIMEType: "image/png", Size: 1},
			},
			wantErr: ErrTooManyFiles,
		},
		{
			name:    "profile picture over 5MB",
			profile: ProfilePicture,
			files:   []File{{Name: "me.jpg", MIMEType: "image/jpeg", Size: 5*megabyte + 1}},
			wantErr: ErrFileTooLarge,
		},
		{
			name:    "image gif",
			profile: Image,
			files:   []File{{Name: "a.gif", MIMEType: "image/gif", Size: 100}},
		},
		{
			name:    "image rejects text",
			profile: Image,
			files:   []File{{Name: "a.txt", MIMEType: "text/plain", Size: 100}},
			wantErr: ErrMIMETypeNotAllowed,
		},
		{
			name:    "no files",
			profile: Document,
			wantErr: ErrNoFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.profile.Accept(tt.files...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, len(tt.files))
		})
	}
}

func TestProfile_Accept_ErrorsAreDistinct(t *testing.T) {
	_, err := Document.Accept(File{Name: "big.pdf", MIMEType: "application/pdf", Size: 11 * megabyte})
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.False(t, errors.Is(err, ErrMIMETypeNotAllowed))

	_, err = Document.Accept(File{Name: "a.zip", MIMEType: "application/zip", Size: 1})
	assert.ErrorIs(t, err, ErrMIMETypeNotAllowed)
	assert.False(t, errors.Is(err, ErrFileTooLarge))

	var mimeErr *MIMETypeError
	require.ErrorAs(t, err, &mimeErr)
	assert.Equal(t, "application/zip", mimeErr.MIMEType)
	assert.Contains(t, err.Error(), "application/zip")
}

func TestProfile_Accept_ResolvesMIMEType(t *testing.T) {
	t.Run("sniffs missing type", func(t *testing.T) {
		got, err := Document.Accept(File{Name: "note", Data: pdfBytes})
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", got[0].MIMEType)
		assert.Equal(t, int64(len(pdfBytes)), got[0].Size)
	})

	t.Run("sniffs octet-stream", func(t *testing.T) {
		got, err := ProfilePicture.Accept(File{Name: "me", MIMEType: "application/octet-stream", Data: pngBytes})
		require.NoError(t, err)
		assert.Equal(t, "image/png", got[0].MIMEType)
	})

	t.Run("drops parameters", func(t *testing.T) {
		got, err := Document.Accept(File{Name: "a.txt", MIMEType: "text/plain; charset=utf-8", Data: []byte("hello")})
		require.NoError(t, err)
		assert.Equal(t, "text/plain", got[0].MIMEType)
	})

	t.Run("declared type wins over content", func(t *testing.T) {
		_, err := ProfilePicture.Accept(File{Name: "me.png", MIMEType: "application/pdf", Data: pngBytes})
		assert.ErrorIs(t, err, ErrMIMETypeNotAllowed)
	})
}

func TestNewProfile(t *testing.T) {
	t.Run("defaults allow any type", func(t *testing.T) {
		p := NewProfile("attachment")
		_, err := p.Accept(File{Name: "a.bin", MIMEType: "application/x-custom", Size: megabyte})
		assert.NoError(t, err)

		_, err = p.Accept(File{Name: "a", Size: 1}, File{Name: "b", Size: 1})
		assert.ErrorIs(t, err, ErrTooManyFiles)
	})

	t.Run("custom limits", func(t *testing.T) {
		p := NewProfile("csv-import",
			WithMaxSize(100),
			WithMaxFiles(3),
			WithAllowedMIMETypes("text/csv"),
		)
		assert.Equal(t, int64(100), p.MaxSize)
		assert.Equal(t, 3, p.MaxFiles)

		_, err := p.Accept(File{Name: "a.csv", MIMEType: "text/csv", Data: bytes.Repeat([]byte("x"), 100)})
		assert.NoError(t, err)

		_, err = p.Accept(File{Name: "a.csv", MIMEType: "text/csv", Data: bytes.Repeat([]byte("x"), 101)})
		assert.ErrorIs(t, err, ErrFileTooLarge)

		_, err = p.Accept(File{Name: "a.txt", MIMEType: "text/plain", Size: 1})
		assert.ErrorIs(t, err, ErrMIMETypeNotAllowed)
	})
}
