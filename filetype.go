package ocrbot

import (
	"path/filepath"
	"strings"
)

// FileKind classifies an inbound file for extraction dispatch.
// Callers are expected to switch over all values exhaustively.
type FileKind int

// FileKind values.
const (
	FileUnsupported FileKind = iota
	FileImage
	FilePDF
	FileXML
)

// String returns a short name for logging.
func (k FileKind) String() string {
	switch k {
	case FileImage:
		return "image"
	case FilePDF:
		return "pdf"
	case FileXML:
		return "xml"
	}
	return "unsupported"
}

// imageExts is the accepted set of image filename suffixes.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
}

// DetectFileKind classifies a file by its name, case-insensitively.
// Inline chat photos carry no trustworthy name and are always images.
// Classification looks at the filename suffix only; it never downloads or
// decodes the payload.
func DetectFileKind(filename string, photo bool) FileKind {
	if photo {
		return FileImage
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case imageExts[ext]:
		return FileImage
	case ext == ".pdf":
		return FilePDF
	case ext == ".xml":
		return FileXML
	}
	return FileUnsupported
}
