package filehandler

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// jpegQuality is used when re-encoding a downscaled JPEG.
const jpegQuality = 90

// Downscale shrinks an encoded PNG or JPEG so that its longer edge is at
// most maxEdge pixels, preserving aspect ratio and format. It reports false
// with the input unchanged when the image already fits.
func Downscale(data []byte, mediaType string, maxEdge int) ([]byte, bool, error) {
	if maxEdge <= 0 {
		return data, false, nil
	}

	var img image.Image
	var err error
	switch mediaType {
	case MediaTypePNG:
		img, err = png.Decode(bytes.NewReader(data))
	case MediaTypeJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	default:
		return nil, false, fmt.Errorf("unsupported media type: %s", mediaType)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight, ok := fitWithin(bounds.Dx(), bounds.Dy(), maxEdge)
	if !ok {
		return data, false, nil
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if mediaType == MediaTypePNG {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode resized image: %w", err)
	}

	return buf.Bytes(), true, nil
}

// fitWithin scales width x height so the longer edge equals maxEdge.
// ok is false when no scaling is needed.
func fitWithin(width, height, maxEdge int) (newWidth, newHeight int, ok bool) {
	if width <= maxEdge && height <= maxEdge {
		return width, height, false
	}

	if width >= height {
		newWidth = maxEdge
		newHeight = height * maxEdge / width
	} else {
		newHeight = maxEdge
		newWidth = width * maxEdge / height
	}

	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}
	return newWidth, newHeight, true
}
