// Package filehandler locates the newest screenshot in a directory and
// prepares its bytes for upload.
//
// Only PNG and JPEG are considered; those are what screenshot tools write
// and what every supported vision API accepts inline.
package filehandler

import (
	"path/filepath"
	"strings"
)

// Media types sent to the vision API.
const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// SupportedImageExtensions maps the extensions the locator accepts to their media type.
var SupportedImageExtensions = map[string]string{
	".png":  MediaTypePNG,
	".jpg":  MediaTypeJPEG,
	".jpeg": MediaTypeJPEG,
}

// IsImage returns true if the file extension corresponds to a supported image.
// The comparison is case-insensitive; ext includes the leading dot.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// MediaTypeForPath derives the media type from the file extension alone.
// Anything that is not .png, including a missing extension, is reported as
// image/jpeg.
func MediaTypeForPath(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		return MediaTypePNG
	}
	return MediaTypeJPEG
}
