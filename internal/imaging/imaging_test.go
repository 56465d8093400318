package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestCompressKeepsSmallDimensions(t *testing.T) {
	out, err := Compress(encodePNG(t, 640, 480))
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if w, h := decodeSize(t, out); w != 640 || h != 480 {
		t.Fatalf("dimensions changed: %dx%d", w, h)
	}
}

func TestCompressBoundsWideImage(t *testing.T) {
	out, err := Compress(encodePNG(t, 2400, 600))
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != MaxWidth || h != 300 {
		t.Fatalf("got %dx%d, want %dx300", w, h, MaxWidth)
	}
}

func TestCompressBoundsTallImage(t *testing.T) {
	out, err := Compress(encodePNG(t, 600, 2400))
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	w, h := decodeSize(t, out)
	if w != 300 || h != MaxHeight {
		t.Fatalf("got %dx%d, want 300x%d", w, h, MaxHeight)
	}
}

func TestCompressRejectsGarbage(t *testing.T) {
	if _, err := Compress([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH, wantW, wantH int
	}{
		{100, 100, 1200, 1200, 100, 100},
		{1200, 1200, 1200, 1200, 1200, 1200},
		{2400, 1200, 1200, 1200, 1200, 600},
		{1200, 2400, 1200, 1200, 600, 1200},
		{3000, 3000, 1200, 1200, 1200, 1200},
		{5000, 1, 1200, 1200, 1200, 1},
	}
	for _, tc := range cases {
		gotW, gotH := fit(tc.w, tc.h, tc.maxW, tc.maxH)
		if gotW != tc.wantW || gotH != tc.wantH {
			t.Fatalf("fit(%d,%d) = %dx%d, want %dx%d", tc.w, tc.h, gotW, gotH, tc.wantW, tc.wantH)
		}
	}
}
