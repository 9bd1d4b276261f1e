package answer

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

var videoExts = map[string]struct{}{
	".webm": {},
	".mp4":  {},
	".mkv":  {},
	".mov":  {},
}

// A bracketed alphanumeric token of length >= 6 in a filename is treated as a
// video-platform identifier.
var watchIDPattern = regexp.MustCompile(`\[([A-Za-z0-9_-]{6,})\]`)

// MediaResolver resolves course videos to watchable links by scanning a media
// directory tree. It is a best-effort heuristic lookup, not an index: the
// first match in walk order wins and absence of a match is not an error.
type MediaResolver struct {
	dir string
}

// NewMediaResolver creates a resolver bounded to the given directory. An empty
// directory disables resolution.
func NewMediaResolver(dir string) *MediaResolver {
	return &MediaResolver{dir: dir}
}

// Resolve returns a canonical watch URL when the matched filename carries a
// platform identifier, otherwise the matched file's path relative to the media
// directory. Empty string when nothing matches.
func (r *MediaResolver) Resolve(number, title string) string {
	if r.dir == "" {
		return ""
	}
	var link string
	_ = filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if _, ok := videoExts[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		if !matchesVideo(name, number, title) {
			return nil
		}
		if m := watchIDPattern.FindStringSubmatch(name); m != nil {
			link = "https://youtu.be/" + m[1]
		} else if rel, relErr := filepath.Rel(r.dir, path); relErr == nil {
			link = filepath.ToSlash(rel)
		} else {
			link = filepath.ToSlash(path)
		}
		return fs.SkipAll
	})
	return link
}

func matchesVideo(name, number, title string) bool {
	if number != "" {
		if strings.Contains(name, "#"+number) {
			return true
		}
		if strings.HasPrefix(name, number+"_") || strings.Contains(name, " "+number+"_") {
			return true
		}
	}
	if title != "" && strings.Contains(strings.ToLower(name), strings.ToLower(title)) {
		return true
	}
	return false
}
