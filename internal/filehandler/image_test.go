package filehandler

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.PNG")
	data := encodePNG(t, 40, 20)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := ReadImage(path, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.MediaType != MediaTypePNG {
		t.Errorf("MediaType = %q, want image/png", img.MediaType)
	}
	if !bytes.Equal(img.Data, data) {
		t.Error("Data should be the file contents when maxEdge is 0")
	}
	if img.Resized {
		t.Error("Resized = true, want false")
	}
	if img.OriginalSize != len(data) {
		t.Errorf("OriginalSize = %d, want %d", img.OriginalSize, len(data))
	}
}

func TestReadImageDownscales(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.png")
	if err := os.WriteFile(path, encodePNG(t, 400, 100), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := ReadImage(path, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !img.Resized {
		t.Fatal("expected image to be resized")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("resized data does not decode: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if cfg.Width != 100 || cfg.Height != 25 {
		t.Errorf("resized to %dx%d, want 100x25", cfg.Width, cfg.Height)
	}
}

func TestReadImageUndecodableFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.jpg")
	data := []byte("not really a jpeg")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := ReadImage(path, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Resized || !bytes.Equal(img.Data, data) {
		t.Error("undecodable image should be sent unchanged")
	}
	if img.MediaType != MediaTypeJPEG {
		t.Errorf("MediaType = %q, want image/jpeg", img.MediaType)
	}
}

func TestReadImageMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.png")

	_, err := ReadImage(path, 0)
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %T (%v)", err, err)
	}
	if scanErr.Type != ErrTypeImageRead || scanErr.Path != path {
		t.Errorf("unexpected error: %+v", scanErr)
	}
}

func TestDownscaleJPEG(t *testing.T) {
	out, ok, err := Downscale(encodeJPEG(t, 60, 300), MediaTypeJPEG, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected resize")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" || cfg.Width != 30 || cfg.Height != 150 {
		t.Errorf("got %s %dx%d, want jpeg 30x150", format, cfg.Width, cfg.Height)
	}
}

func TestDownscaleAlreadySmall(t *testing.T) {
	data := encodePNG(t, 50, 50)
	out, ok, err := Downscale(data, MediaTypePNG, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("image within bounds should not be resized")
	}
	if !bytes.Equal(out, data) {
		t.Error("data should be returned unchanged")
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
		wantOK       bool
	}{
		{"fits", 100, 80, 100, 100, 80, false},
		{"landscape", 2000, 1000, 1000, 1000, 500, true},
		{"portrait", 1000, 3000, 1500, 500, 1500, true},
		{"square", 4000, 4000, 1000, 1000, 1000, true},
		{"sliver", 5000, 1, 100, 100, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, ok := fitWithin(tt.w, tt.h, tt.max)
			if w != tt.wantW || h != tt.wantH || ok != tt.wantOK {
				t.Errorf("fitWithin(%d, %d, %d) = (%d, %d, %v), want (%d, %d, %v)",
					tt.w, tt.h, tt.max, w, h, ok, tt.wantW, tt.wantH, tt.wantOK)
			}
		})
	}
}

func TestExtractImageMetadataMissingFile(t *testing.T) {
	_, err := ExtractImageMetadata(filepath.Join(t.TempDir(), "nope.jpg"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImageMetadataCamera(t *testing.T) {
	tests := []struct {
		meta ImageMetadata
		want string
	}{
		{ImageMetadata{CameraMake: "Apple", CameraModel: "iPhone 15 Pro"}, "Apple iPhone 15 Pro"},
		{ImageMetadata{CameraModel: "X100V"}, "X100V"},
		{ImageMetadata{}, ""},
	}

	for _, tt := range tests {
		if got := tt.meta.Camera(); got != tt.want {
			t.Errorf("Camera() = %q, want %q", got, tt.want)
		}
	}
}
