// File: pkg/extract/category.go
package extract

import (
	"path/filepath"
	"strings"
)

// Category identifies the extraction strategy used for a file extension.
type Category int

const (
	// CategoryUnknown is the fallback for unlisted extensions: a sniffed plain-text read.
	CategoryUnknown Category = iota
	// CategorySkip marks known binary and media formats; no bytes are read.
	CategorySkip
	// CategoryText returns the file bytes verbatim.
	CategoryText
	// CategoryStructured re-serializes JSON with stable indentation.
	CategoryStructured
	// CategoryDocument delegates to the word-processor decoder.
	CategoryDocument
	// CategorySpreadsheet delegates to the per-sheet spreadsheet decoder.
	CategorySpreadsheet
	// CategoryPDF delegates to the PDF decoder.
	CategoryPDF
)

// String returns a short lowercase label for the category.
func (c Category) String() string {
	switch c {
	case CategorySkip:
		return "skip"
	case CategoryText:
		return "text"
	case CategoryStructured:
		return "structured"
	case CategoryDocument:
		return "document"
	case CategorySpreadsheet:
		return "spreadsheet"
	case CategoryPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// skipExtensions lists binary and media formats that never carry displayable text.
var skipExtensions = map[string]bool{
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true, ".dat": true,
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".ico": true,
	".mp3": true, ".wav": true, ".mp4": true, ".avi": true, ".mov": true, ".flv": true,
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true,
	".pyc": true, ".class": true, ".o": true, ".obj": true,
}

// textExtensions are returned as-is: code, markup, config and logs.
var textExtensions = map[string]bool{
	// documents and data
	".txt": true, ".log": true, ".md": true, ".csv": true,
	".xml": true, ".yaml": true, ".yml": true,
	// code
	".js": true, ".py": true, ".java": true, ".cpp": true, ".c": true, ".h": true,
	".hpp": true, ".cs": true, ".php": true, ".rb": true, ".go": true, ".rs": true,
	".swift": true, ".kt": true, ".ts": true, ".coffee": true, ".sh": true,
	".bat": true, ".ps1": true,
	// web
	".html": true, ".htm": true, ".css": true, ".scss": true, ".less": true,
	".jsx": true, ".tsx": true, ".vue": true,
	// config
	".ini": true, ".conf": true, ".config": true, ".env": true,
}

var decoderExtensions = map[string]Category{
	".json": CategoryStructured,
	".doc":  CategoryDocument,
	".docx": CategoryDocument,
	".xls":  CategorySpreadsheet,
	".xlsx": CategorySpreadsheet,
	".pdf":  CategoryPDF,
}

// NormalizeExt returns the lowercased extension of path including the leading dot.
func NormalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Classify maps a file path to its extraction category by lowercased extension.
func Classify(path string) Category {
	ext := NormalizeExt(path)
	if skipExtensions[ext] {
		return CategorySkip
	}
	if textExtensions[ext] {
		return CategoryText
	}
	if c, ok := decoderExtensions[ext]; ok {
		return c
	}
	return CategoryUnknown
}
