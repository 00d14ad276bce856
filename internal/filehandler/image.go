package filehandler

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// Image is an image file read into memory and ready to upload.
type Image struct {
	Path      string
	MediaType string
	Data      []byte

	// OriginalSize is the size on disk. len(Data) differs when Resized is true.
	OriginalSize int
	Resized      bool
}

// ReadImage reads the file at path and derives its media type from the
// extension. When maxEdge > 0 and the decoded image's longer edge exceeds
// it, the image is downscaled and re-encoded in the same format; a decode or
// encode failure during downscaling falls back to the original bytes.
// Read failures return a *ScanError of type ErrTypeImageRead.
func ReadImage(path string, maxEdge int) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ScanError{Type: ErrTypeImageRead, Path: path, Err: err}
	}

	img := &Image{
		Path:         path,
		MediaType:    MediaTypeForPath(path),
		Data:         data,
		OriginalSize: len(data),
	}

	if maxEdge > 0 {
		resized, ok, err := Downscale(data, img.MediaType, maxEdge)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("path", path).Msg("Failed to downscale image, sending original")
		case ok:
			img.Data = resized
			img.Resized = true
		}
	}

	log.Info().
		Str("path", path).
		Str("media_type", img.MediaType).
		Int("size_bytes", len(img.Data)).
		Bool("resized", img.Resized).
		Msg("Image loaded")

	return img, nil
}

// ImageMetadata contains the EXIF fields shown to the user before upload.
// Screenshots usually carry none; photos of whiteboards usually do.
type ImageMetadata struct {
	DateTaken time.Time
	HasDate   bool

	CameraMake  string
	CameraModel string
}

// ExtractImageMetadata reads EXIF metadata from an image file using the
// imagemeta library. Only the metadata block is read, not the whole image.
func ExtractImageMetadata(filePath string) (*ImageMetadata, error) {
	log.Debug().Str("path", filePath).Msg("Extracting EXIF metadata")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	exifData, err := imagemeta.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EXIF metadata: %w", err)
	}

	metadata := &ImageMetadata{}

	// Priority: DateTimeOriginal > CreateDate > ModifyDate
	if !exifData.DateTimeOriginal().IsZero() {
		metadata.DateTaken = exifData.DateTimeOriginal()
		metadata.HasDate = true
	} else if !exifData.CreateDate().IsZero() {
		metadata.DateTaken = exifData.CreateDate()
		metadata.HasDate = true
	} else if !exifData.ModifyDate().IsZero() {
		metadata.DateTaken = exifData.ModifyDate()
		metadata.HasDate = true
	}

	metadata.CameraMake = strings.TrimSpace(exifData.Make)
	metadata.CameraModel = strings.TrimSpace(exifData.Model)

	log.Debug().
		Str("path", filePath).
		Bool("has_date", metadata.HasDate).
		Msg("Image metadata extraction complete")

	return metadata, nil
}

// Camera returns "Make Model", or "" when neither is known.
func (m *ImageMetadata) Camera() string {
	return strings.TrimSpace(m.CameraMake + " " + m.CameraModel)
}
