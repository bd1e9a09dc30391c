package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxPixels bounds the decoded bitmap; the header is checked before any pixel is allocated.
const MaxPixels = 40_000_000

// checkDimensions reads only the image header and rejects bitmaps over MaxPixels.
func checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ErrUnsupportedType
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ErrUnsupportedType
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// Thumbnail decodes a JPEG or PNG, scales it to fit inside t keeping the aspect ratio (never
// upscaling) and re-encodes it in the source format. It returns the file extension to use.
func Thumbnail(data []byte, t Transform) ([]byte, string, error) {
	if err := checkDimensions(data); err != nil {
		return nil, "", err
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", ErrUnsupportedType
	}
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), t.Width, t.Height)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
		return buf.Bytes(), ".png", err
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
		return buf.Bytes(), ".jpg", err
	default:
		return nil, "", ErrUnsupportedType
	}
}

func fit(w, h, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return w, h
	}
	// scale by the tighter bound
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}
