// Package mimetype guesses the media type of a served file from its name.
package mimetype

import (
	"mime"
	"path/filepath"
	"strings"
)

// builtin pins the types most sites are made of so that the answer does not
// depend on the host's mime.types files.
var builtin = map[string]string{
	".css":  "text/css",
	".gif":  "image/gif",
	".htm":  "text/html",
	".html": "text/html",
	".ico":  "image/vnd.microsoft.icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".js":   "text/javascript",
	".json": "application/json",
	".mjs":  "text/javascript",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".wasm": "application/wasm",
	".webp": "image/webp",
	".xml":  "text/xml",
}

// Guess returns the media type for name's extension without parameters, or
// "" when the extension is unknown. Callers must treat "" as "no
// Content-Type header".
func Guess(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := builtin[ext]; ok {
		return t
	}

	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}
