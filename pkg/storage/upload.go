package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var ErrFolderNotAllowed = errors.New("storage: folder not allowed")

// AllowedFolders are the upload destinations exposed to the admin panel.
var AllowedFolders = []string{"paintings", "blog-covers", "music", "videos", "custom-orders"}

func FolderAllowed(folder string) bool {
	for _, f := range AllowedFolders {
		if f == folder {
			return true
		}
	}
	return false
}

// UploadPath returns "<folder>/<unix-millis>-<sanitized-filename>".
func UploadPath(folder, filename string, now time.Time) (string, error) {
	if !FolderAllowed(folder) {
		return "", fmt.Errorf("%w: %q", ErrFolderNotAllowed, folder)
	}
	return fmt.Sprintf("%s/%d-%s", folder, now.UnixMilli(), SanitizeFilename(filename)), nil
}

// SanitizeFilename lowercases name, strips accents and directory parts and
// replaces anything outside [a-z0-9._-] with '-'.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	dash := false
	for _, r := range norm.NFD.String(strings.ToLower(name)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_'):
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}
