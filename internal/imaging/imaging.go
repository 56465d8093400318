// Package imaging prepares listing photos for upload: decode, bound the
// dimensions, re-encode as JPEG. Anything the decoders cannot read is
// rejected before a byte leaves the machine.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Bounds the portal compresses listing photos to before upload.
const (
	MaxWidth  = 1200
	MaxHeight = 1200

	// JPEGQuality trades size for fidelity on the re-encode.
	JPEGQuality = 80
)

// Compress decodes data, scales it down to fit MaxWidth x MaxHeight while
// keeping the aspect ratio, and re-encodes it as JPEG. Images already within
// bounds are still re-encoded so every stored asset shares one format.
func Compress(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decode image: empty %s frame", format)
	}

	tw, th := fit(w, h, MaxWidth, MaxHeight)
	out := src
	if tw != w || th != h {
		dst := image.NewRGBA(image.Rect(0, 0, tw, th))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales (w, h) down to the largest size inside (maxW, maxH) with the
// same aspect ratio. Dimensions already inside are returned unchanged.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	rw := float64(maxW) / float64(w)
	rh := float64(maxH) / float64(h)
	r := rw
	if rh < rw {
		r = rh
	}
	tw := int(float64(w) * r)
	th := int(float64(h) * r)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}
