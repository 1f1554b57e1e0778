package utils

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AllowedUploadExts is the print-job file allow-list, matched by extension.
var AllowedUploadExts = map[string]bool{
	"pdf":  true,
	"doc":  true,
	"docx": true,
	"ppt":  true,
	"pptx": true,
	"png":  true,
	"jpg":  true,
	"jpeg": true,
}

func AllowedFile(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	return AllowedUploadExts[ext]
}

// StoredFilename builds a collision-free name for an uploaded file, keeping
// only the base name of the client-supplied path.
func StoredFilename(original string) string {
	base := filepath.Base(original)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s_%s", uuid.NewString(), base)
}
