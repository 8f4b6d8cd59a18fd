package richtext

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxPhotoSize is the largest attachment accepted for upload (25MB).
const MaxPhotoSize = 25 * 1024 * 1024

// DefaultImageType is used when a picked file's type cannot be identified
// as an image.
const DefaultImageType = "image/jpeg"

var mimeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".pdf":  "application/pdf",
}

// DetectMIME returns the MIME type for a file path.
// It uses the extension map first, then falls back to sniffing header bytes.
func DetectMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if mime, ok := mimeByExt[ext]; ok {
		return mime
	}

	f, err := os.Open(path) //nolint:gosec // G304: path chosen by the user
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)
	if n == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(buf[:n])
}

// ImageContentType returns the image MIME type for path, or DefaultImageType
// when the file is not recognisably an image.
func ImageContentType(path string) string {
	mime := DetectMIME(path)
	if strings.HasPrefix(mime, "image/") {
		return mime
	}
	return DefaultImageType
}

// ValidatePhoto checks that path is an existing, regular, readable file
// within MaxPhotoSize.
func ValidatePhoto(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", filepath.Base(path), err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", filepath.Base(path))
	}
	if info.Size() > MaxPhotoSize {
		return fmt.Errorf("%s exceeds maximum size of 25MB", filepath.Base(path))
	}
	f, err := os.Open(path) //nolint:gosec // G304: path chosen by the user
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", filepath.Base(path), err)
	}
	return f.Close()
}
