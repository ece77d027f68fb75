// Package classify maps directory entries to display categories and icons.
package classify

import (
	"strings"

	"github.com/fruitsalade/livebrowse/pkg/models"
)

// Category is the display class of an entry.
type Category string

const (
	Directory Category = "directory"
	Audio     Category = "media-audio"
	Video     Category = "media-video"
	Image     Category = "media-image"
	Other     Category = "other"
)

// IsMedia reports whether entries of this category are playable or viewable media.
func (c Category) IsMedia() bool {
	return c == Audio || c == Video || c == Image
}

// Kind is the result of classifying an entry.
type Kind struct {
	Category Category
	Icon     string
}

var icons = map[Category]string{
	Directory: "📁",
	Audio:     "🎵",
	Video:     "🎬",
	Image:     "🖼️",
	Other:     "📄",
}

var extensions = map[string]Category{
	"mp3": Audio, "wav": Audio, "flac": Audio, "aac": Audio, "ogg": Audio, "m4a": Audio, "wma": Audio,
	"mp4": Video, "avi": Video, "mkv": Video, "mov": Video, "wmv": Video, "flv": Video, "webm": Video, "m4v": Video,
	"jpg": Image, "jpeg": Image, "png": Image, "gif": Image, "webp": Image, "svg": Image, "bmp": Image, "tiff": Image,
}

// Classify returns the category and icon for e. Directories win over any extension.
func Classify(e models.FileEntry) Kind {
	if e.IsDir {
		return KindOf(Directory)
	}
	return KindOf(ByName(e.Name))
}

// ByName classifies a non-directory by its file name.
func ByName(name string) Category {
	if c, ok := extensions[Extension(name)]; ok {
		return c
	}
	return Other
}

// KindOf returns the Kind for a category.
func KindOf(c Category) Kind {
	return Kind{Category: c, Icon: icons[c]}
}

// Extension returns the lowercased text after the last '.', or "" if name has none.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}
