package memfs

import (
	"encoding/json"
	"time"
)

// NodeSeedRequest represents user input for node creation. It should be passed
// from entrypoints (i.e. cli, socket/web api, etc layers) to the filesystem
// write/mkdir methods before serving.
type NodeSeedRequest struct {
	Path  string       `json:"path"`
	Type  NodeSeedType `json:"type"`
	UUID  *string      `json:"uuid,omitempty"`  // Optional UUID to enable linking at request time
	Mtime *time.Time   `json:"mtime,omitempty"` // Last Modified at (Default current time)
}

// NodeSeedType valid types are FileNodeType "file", DirNodeType "dir"
type NodeSeedType string

const (
	FileNodeType NodeSeedType = "file"
	DirNodeType  NodeSeedType = "dir"
)

type FileSeedRequest struct {
	NodeSeedRequest
	Content string `json:"content,omitempty"` // Inline content; stored as raw bytes
}

type DirSeedRequest struct {
	NodeSeedRequest
}

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (NodeSeedType, error) {
	var meta struct {
		Type NodeSeedType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalFileSeed handles file-specific unmarshaling with inline content
func UnmarshalFileSeed(data []byte) (*FileSeedRequest, error) {
	var req FileSeedRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// UnmarshalDirSeed handles explicit directory unmarshaling (no content)
func UnmarshalDirSeed(data []byte) (*DirSeedRequest, error) {
	var req DirSeedRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
