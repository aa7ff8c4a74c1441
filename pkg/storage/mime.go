package storage

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// MIMEOctetStream is the fallback type when detection fails.
const MIMEOctetStream = "application/octet-stream"

// http.DetectContentType needs at most 512 bytes.
const mimeDetectionBytes = 512

// mimeExtensions maps detected MIME types to preferred extensions.
var mimeExtensions = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/x-icon":  ".ico",

	"application/pdf": ".pdf",
	"text/plain":      ".txt",
	"text/csv":        ".csv",
	"text/html":       ".html",
	"text/css":        ".css",

	"application/json": ".json",
	"application/xml":  ".xml",

	"video/mp4":  ".mp4",
	"video/webm": ".webm",
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/ogg":  ".ogg",

	"application/zip":  ".zip",
	"application/gzip": ".gz",
}

// DetectMIME detects the MIME type of a multipart upload from its
// magic bytes. Returns MIMEOctetStream when detection fails.
func DetectMIME(fh *multipart.FileHeader) string {
	if fh == nil {
		return MIMEOctetStream
	}

	f, err := fh.Open()
	if err != nil {
		return MIMEOctetStream
	}
	defer f.Close()

	buf := make([]byte, mimeDetectionBytes)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return MIMEOctetStream
	}
	return http.DetectContentType(buf[:n])
}

// ExtFromMIME returns the preferred extension for a MIME type, or "".
func ExtFromMIME(mimeType string) string {
	return mimeExtensions[normalizeMIME(mimeType)]
}

// detectMIMEWithReader detects the MIME type and returns a seekable
// reader over the full content. The AWS SDK needs io.ReadSeeker for the
// payload hash; non-seekable input is buffered into memory.
func detectMIMEWithReader(r io.Reader) (string, io.ReadSeeker) {
	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, mimeDetectionBytes)
		n, _ := rs.Read(buf)
		_, _ = rs.Seek(0, io.SeekStart)
		if n > 0 {
			return http.DetectContentType(buf[:n]), rs
		}
		return MIMEOctetStream, rs
	}

	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return MIMEOctetStream, bytes.NewReader(nil)
	}
	return http.DetectContentType(data), bytes.NewReader(data)
}

// normalizeMIME strips parameters like charset and lowercases the type.
func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}
