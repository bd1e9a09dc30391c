// Package images stores product images on an asset host and hands back opaque keys.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const MaxUploadSize = 10 << 20

var (
	ErrUnsupportedType = errors.New("file format should be JPEG, JPG or PNG")
	ErrTooLarge        = errors.New("file is larger than 10 MiB or 40 megapixels")
	ErrAssetNotFound   = errors.New("image asset not found")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// File is an accepted upload held in memory until the owning entity is persisted.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Transform fixes the canonical thumbnail box images are fitted into.
type Transform struct {
	Width  int
	Height int
}

// Backend is an asset host.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type Service struct {
	backend   Backend
	transform Transform
}

func NewService(b Backend, t Transform) *Service {
	return &Service{backend: b, transform: t}
}

// Upload thumbnails f and stores it under a fresh key.
func (s *Service) Upload(ctx context.Context, f *File) (string, error) {
	data, ext, err := Thumbnail(f.Data, s.transform)
	if err != nil {
		return "", err
	}
	key := uuid.NewString() + ext
	if err := s.backend.Put(ctx, key, data, mimetype.Detect(data).String()); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

func (s *Service) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrAssetNotFound
	}
	return s.backend.URL(ctx, key)
}

func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.backend.Delete(ctx, key)
}

// Accept reads a multipart upload, enforcing the size limit and the declared and sniffed types.
func Accept(fh *multipart.FileHeader) (*File, error) {
	if fh.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}
	if !allowedTypes[fh.Header.Get("Content-Type")] {
		return nil, ErrUnsupportedType
	}
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !mt.Is("image/jpeg") && !mt.Is("image/png") {
		return nil, ErrUnsupportedType
	}
	if err := checkDimensions(data); err != nil {
		return nil, err
	}
	return &File{Name: path.Base(fh.Filename), ContentType: mt.String(), Data: data}, nil
}

// Rejected reports whether err is an upload rejection rather than an infrastructure fault.
func Rejected(err error) bool {
	return errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrTooLarge)
}
