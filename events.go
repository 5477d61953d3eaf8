// Package memfs contains core domain types and interfaces for the in-memory filesystem
package memfs

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind discriminates the two entry variants in the tree
type EntryKind uint8

const (
	FileKind EntryKind = iota + 1
	DirectoryKind
)

func (k EntryKind) String() string {
	switch k {
	case FileKind:
		return "file"
	case DirectoryKind:
		return "directory"
	default:
		return "unknown"
	}
}

// EventKind identifies the type of change applied to a path
type EventKind uint8

const (
	Created EventKind = iota + 1
	Changed
	Deleted
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event describes a single mutation applied to the tree. Events are delivered
// to subscribers in ordered batches after the notifier's quiet period elapses.
type Event struct {
	Kind EventKind
	Path string
}

// Metadata is the attribute snapshot returned by Stat and List.
// Size is the content byte length for files and the direct child count for
// directories. There is no ctime distinct from Mtime.
//
// ID is the entry's stable identity: it is assigned at creation and survives
// renames and content updates, so two snapshots with the same ID describe the
// same entry regardless of path.
type Metadata struct {
	ID    uuid.UUID
	Kind  EntryKind
	Mtime time.Time
	Size  int64
}

// DirEntry pairs a child name with its metadata in List results
type DirEntry struct {
	Name string
	Metadata
}

// WriteOptions control how Write treats a missing or pre-existing target.
// Create allows a new file entry to be made when the path is absent;
// Exclusive additionally requires that no entry already exists there.
type WriteOptions struct {
	Create    bool
	Exclusive bool
}

// WatchOptions mirror host watch requests. The core accepts them but does not
// scope delivery by path or excludes; every subscriber sees every batch.
type WatchOptions struct {
	Recursive bool
	Excludes  []string
}

// Disposable releases a resource handed out by the core
type Disposable interface {
	Dispose()
}
