package storage

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// newKey builds a fresh object key such as profiles/3f0c...e1.png.
func newKey(namespace, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(strings.Trim(namespace, "/"), uuid.NewString()+ext)
}
