// Package protocol defines the file-browsing API request/response types.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/fruitsalade/livebrowse/pkg/models"
)

// Endpoints served by the file-browsing server.
const (
	FilesEndpoint       = "/api/files"
	RandomMediaEndpoint = "/api/random-media"
	PushEndpoint        = "/ws"
	BrowsePrefix        = "/browse/"
)

// Query parameter names.
const (
	ParamPath  = "path"
	ParamSort  = "sort"
	ParamOrder = "order"
)

// ListingResponse is returned by GET /api/files?path=&sort=&order=
type ListingResponse struct {
	Files       []FileInfo `json:"files"`
	CurrentPath string     `json:"currentPath"`
	ParentPath  string     `json:"parentPath,omitempty"`
	HasParent   bool       `json:"hasParent"`
}

// FileInfo is a single entry of a ListingResponse.
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Mode    string    `json:"mode"`
	ModTime time.Time `json:"modTime"`
	IsDir   bool      `json:"isDir"`
	Path    string    `json:"path"`
}

// Snapshot converts the wire response into a DirectorySnapshot.
// Negative sizes, which a well-behaved server never sends, are clamped to zero.
func (r *ListingResponse) Snapshot() *models.DirectorySnapshot {
	files := make([]models.FileEntry, 0, len(r.Files))
	for _, f := range r.Files {
		size := uint64(0)
		if f.Size > 0 {
			size = uint64(f.Size)
		}
		files = append(files, models.FileEntry{
			Name:    f.Name,
			IsDir:   f.IsDir,
			Size:    size,
			ModTime: f.ModTime,
			Mode:    f.Mode,
			Path:    f.Path,
		})
	}
	return &models.DirectorySnapshot{
		CurrentPath: r.CurrentPath,
		HasParent:   r.HasParent,
		Files:       files,
	}
}

// Push message types.
const (
	EventUpdate = "update"
)

// PushMessage is an inbound message on the push channel.
type PushMessage struct {
	Type string `json:"type"`
}

// ParsePushMessage decodes a push payload. Payloads that are not JSON objects
// return an error; unknown types decode fine and are left to the caller.
func ParsePushMessage(data []byte) (PushMessage, error) {
	var msg PushMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return PushMessage{}, err
	}
	return msg, nil
}
