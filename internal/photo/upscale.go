package photo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	// decoders for the formats the federation embeds
	_ "image/jpeg"

	"golang.org/x/image/draw"
)

// Upscaler enlarges photos by a fixed factor and re-encodes them as PNG.
type Upscaler struct {
	Factor float64
}

// Process implements Processor
func (u Upscaler) Process(ctx context.Context, img []byte, _ string) ([]byte, error) {
	if u.Factor <= 1 {
		return img, nil
	}

	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := src.Bounds()
	w := int(float64(b.Dx()) * u.Factor)
	h := int(float64(b.Dy()) * u.Factor)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", w, h)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
