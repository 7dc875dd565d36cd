package spritesort

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ImageExtensions are the lowercased file extensions treated as sprites.
var ImageExtensions = []string{".png", ".gif", ".jpg", ".jpeg", ".webp"}

// EntityID is the numeric identifier parsed from a sprite file name.
type EntityID int

// SourceFile is a sprite found in the source directory.
type SourceFile struct {
	Dir  string
	Name string
}

// Path returns the full path of the file.
func (f SourceFile) Path() string {
	return filepath.Join(f.Dir, f.Name)
}

// IsImageFile reports whether name has a recognized image extension.
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExtractID parses the leading decimal digit run of name.
// "0006-mega-x.png" yields 6. Names that do not start with a digit, or whose
// digit run does not fit in an int, yield ok=false.
func ExtractID(name string) (EntityID, bool) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[:end])
	if err != nil {
		return 0, false
	}
	return EntityID(n), true
}
