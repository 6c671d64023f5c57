package storage

import "strings"

var documentMarkers = []string{"pdf", "document", "text", "sheet"}

// ClassifyMIME maps a MIME type to its storage category.
// Any text type, text/plain included, counts as a document.
func ClassifyMIME(mimeType string) Category {
	if strings.HasPrefix(mimeType, "image/") {
		return CategoryImages
	}
	for _, marker := range documentMarkers {
		if strings.Contains(mimeType, marker) {
			return CategoryDocuments
		}
	}
	return CategoryOthers
}
