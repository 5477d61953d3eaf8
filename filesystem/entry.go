package filesystem

import (
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/memfs"
)

// Entry is the tagged union over the two node variants in the tree.
// Position in the tree is derived solely by path lookup through child
// mappings; entries hold no parent references.
type Entry interface {
	// Name returns the entry's name (last path component); "" for the root
	Name() string
	Kind() memfs.EntryKind
	// Metadata returns the attribute snapshot served by Stat and List
	Metadata() memfs.Metadata

	setName(name string)
}

// File is the leaf variant. A File owns its content outright: removal from
// its parent's child mapping is the sole ownership edge, so content lifetime
// matches entry lifetime.
type File struct {
	ID    uuid.UUID
	name  string
	mtime time.Time
	size  int64
	data  []byte
}

// NewFile creates an empty file entry stamped with the current time
func NewFile(name string) *File {
	return &File{
		ID:    uuid.New(),
		name:  name,
		mtime: time.Now(),
	}
}

func (f *File) Name() string { return f.name }

func (f *File) Kind() memfs.EntryKind { return memfs.FileKind }

func (f *File) Metadata() memfs.Metadata {
	return memfs.Metadata{ID: f.ID, Kind: memfs.FileKind, Mtime: f.mtime, Size: f.size}
}

func (f *File) setName(name string) { f.name = name }

// Data returns the stored content; may be nil if nothing was ever written
func (f *File) Data() []byte { return f.data }

// SetData replaces the content and refreshes mtime and size
func (f *File) SetData(p []byte) {
	f.data = p
	f.size = int64(len(p))
	f.mtime = time.Now()
}

// Dir is the branch variant. It exclusively owns its children by name;
// discarding a Dir discards its whole subtree.
//
// The size field is a plain metadata counter maintained by Mkdir and Delete.
// It is never consulted for traversal.
type Dir struct {
	ID       uuid.UUID
	name     string
	mtime    time.Time
	size     int64
	children *xsync.Map[string, Entry]
}

// NewDir creates an empty directory entry stamped with the current time
func NewDir(name string) *Dir {
	return &Dir{
		ID:       uuid.New(),
		name:     name,
		mtime:    time.Now(),
		children: xsync.NewMap[string, Entry](),
	}
}

func (d *Dir) Name() string { return d.name }

func (d *Dir) Kind() memfs.EntryKind { return memfs.DirectoryKind }

func (d *Dir) Metadata() memfs.Metadata {
	return memfs.Metadata{ID: d.ID, Kind: memfs.DirectoryKind, Mtime: d.mtime, Size: d.size}
}

func (d *Dir) setName(name string) { d.name = name }

// GetChild returns the child entry mapped under name
func (d *Dir) GetChild(name string) (Entry, bool) {
	return d.children.Load(name)
}

// PutChild maps the entry under its own name, silently replacing any prior
// entry (and its subtree) stored there
func (d *Dir) PutChild(e Entry) {
	d.children.Store(e.Name(), e)
}

// RemoveChild unmaps and returns the child under name
func (d *Dir) RemoveChild(name string) (Entry, bool) {
	return d.children.LoadAndDelete(name)
}

// IterChildren visits each child until fn returns false
func (d *Dir) IterChildren(fn func(name string, e Entry) bool) {
	d.children.Range(fn)
}

// Len returns the number of children currently mapped
func (d *Dir) Len() int { return d.children.Size() }

// Touch refreshes the directory's mtime
func (d *Dir) Touch() { d.mtime = time.Now() }

// AddSize adjusts the metadata child counter
func (d *Dir) AddSize(delta int64) { d.size += delta }
