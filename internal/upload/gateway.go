// Package upload validates candidate files against a constraint profile
// before any of their bytes leave the process.
package upload

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const megabyte = 1 << 20

var (
	ErrNoFile             = errors.New("no file provided")
	ErrTooManyFiles       = errors.New("too many files")
	ErrFileTooLarge       = errors.New("file too large")
	ErrMIMETypeNotAllowed = errors.New("file type not allowed")
)

// MIMETypeError names the MIME type a profile refused.
type MIMETypeError struct {
	MIMEType string
	Profile  string
}

func (e *MIMETypeError) Error() string {
	return fmt.Sprintf("file type %q is not allowed for %s uploads", e.MIMEType, e.Profile)
}

// Is makes errors.Is(err, ErrMIMETypeNotAllowed) hold for any MIMETypeError.
func (e *MIMETypeError) Is(target error) bool {
	return target == ErrMIMETypeNotAllowed
}

// File is an in-memory upload candidate.
type File struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// Profile bundles the limits applied to one kind of upload.
// An empty AllowedMIMETypes list accepts every type.
type Profile struct {
	Name             string
	MaxSize          int64
	MaxFiles         int
	AllowedMIMETypes []string
}

var imageMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var (
	ProfilePicture = Profile{
		Name:             "profile-picture",
		MaxSize:          5 * megabyte,
		MaxFiles:         1,
		AllowedMIMETypes: imageMIMETypes,
	}

	Document = Profile{
		Name:     "document",
		MaxSize:  10 * megabyte,
		MaxFiles: 5,
		AllowedMIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"image/jpeg",
			"image/png",
			"image/gif",
			"text/plain",
		},
	}

	Image = Profile{
		Name:             "image",
		MaxSize:          5 * megabyte,
		MaxFiles:         1,
		AllowedMIMETypes: imageMIMETypes,
	}
)

// Option customizes an ad-hoc profile built with NewProfile.
type Option func(*Profile)

func WithMaxSize(bytes int64) Option {
	return func(p *Profile) { p.MaxSize = bytes }
}

func WithMaxFiles(n int) Option {
	return func(p *Profile) { p.MaxFiles = n }
}

func WithAllowedMIMETypes(types ...string) Option {
	return func(p *Profile) { p.AllowedMIMETypes = types }
}

// NewProfile builds a profile for callers that need other limits.
// Without options it accepts a single file of any type up to 10MB.
func NewProfile(name string, opts ...Option) Profile {
	p := Profile{Name: name, MaxSize: 10 * megabyte, MaxFiles: 1}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Accept checks files against the profile and returns them with their MIME
// type resolved. A missing or generic declared type is replaced by the type
// sniffed from the content.
func (p Profile) Accept(files ...File) ([]File, error) {
	if len(files) == 0 {
		return nil, ErrNoFile
	}
	if p.MaxFiles > 0 && len(files) > p.MaxFiles {
		return nil, fmt.Errorf("%w: %d files given, %s uploads allow at most %d", ErrTooManyFiles, len(files), p.Name, p.MaxFiles)
	}

	out := make([]File, 0, len(files))
	for _, f := range files {
		if f.Size <= 0 {
			f.Size = int64(len(f.Data))
		}
		if p.MaxSize > 0 && f.Size > p.MaxSize {
			return nil, fmt.Errorf("%w: %s is %d bytes, %s uploads allow at most %d", ErrFileTooLarge, f.Name, f.Size, p.Name, p.MaxSize)
		}

		f.MIMEType = resolveMIMEType(f)
		if !p.allows(f.MIMEType) {
			return nil, &MIMETypeError{MIMEType: f.MIMEType, Profile: p.Name}
		}
		out = append(out, f)
	}
	return out, nil
}

func (p Profile) allows(mimeType string) bool {
	if len(p.AllowedMIMETypes) == 0 {
		return true
	}
	for _, allowed := range p.AllowedMIMETypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}

func resolveMIMEType(f File) string {
	declared := baseMIMEType(f.MIMEType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(f.Data) == 0 {
		return declared
	}
	return baseMIMEType(mimetype.Detect(f.Data).String())
}

// baseMIMEType drops parameters such as "; charset=utf-8".
func baseMIMEType(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(v); err == nil {
		return mt
	}
	return strings.ToLower(v)
}
