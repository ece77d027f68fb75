package nav

import (
	"net/url"
	"strings"

	"github.com/fruitsalade/livebrowse/pkg/protocol"
)

// RootLocation is the URL of the root listing.
const RootLocation = "/"

// EncodePath percent-encodes each '/'-separated segment of a logical path
// independently and rejoins them with '/'.
func EncodePath(p string) string {
	if p == "" {
		return ""
	}
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// DecodePath reverses EncodePath.
func DecodePath(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	segs := strings.Split(encoded, "/")
	for i, s := range segs {
		u, err := url.PathUnescape(s)
		if err != nil {
			return "", err
		}
		segs[i] = u
	}
	return strings.Join(segs, "/"), nil
}

// LocationFor returns the URL pathname for a logical path.
func LocationFor(p string) string {
	if p == "" {
		return RootLocation
	}
	return protocol.BrowsePrefix + EncodePath(p)
}

// DecodeLocation derives the logical path from a URL pathname. Anything outside
// /browse/ is the root. A segment that fails to decode is kept as-is.
func DecodeLocation(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}
	if !strings.HasPrefix(location, protocol.BrowsePrefix) {
		return ""
	}
	rest := strings.Trim(strings.TrimPrefix(location, protocol.BrowsePrefix), "/")
	p, err := DecodePath(rest)
	if err != nil {
		return rest
	}
	return p
}

// ParentPath returns the logical parent of p: the text before the last '/',
// or "" for a top-level path.
func ParentPath(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// ChildPath joins a directory path and an entry name.
func ChildPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// Clean normalises user-supplied paths ("/a//b/" -> "a/b").
func Clean(p string) string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
