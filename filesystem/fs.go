package filesystem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/internal/util"
)

// FileSystem is an in-memory tree of directories and files addressed by
// POSIX-style paths. All mutations are applied only after resolution fully
// succeeds, so a failed lookup never leaves the tree half-modified.
//
// Operations are synchronous and complete before returning; the notifier's
// flush timer is the only asynchronous element. Callers mutating from
// multiple goroutines must serialize externally.
type FileSystem struct {
	cfg      *config.Config
	root     *Dir
	notifier *notifier
}

// NewFS creates an empty filesystem whose root is the directory with name ""
func NewFS(cfg *config.Config) *FileSystem {
	return &FileSystem{
		cfg:      cfg,
		root:     NewDir(""),
		notifier: newNotifier(cfg),
	}
}

// Root returns the root directory entry
func (fs *FileSystem) Root() *Dir {
	return fs.root
}

// Stat resolves path and returns its attribute snapshot.
// Fails with EntryNotFound if the path is absent.
func (fs *FileSystem) Stat(path string) (memfs.Metadata, error) {
	entry, err := fs.resolveEntry(path)
	if err != nil {
		return memfs.Metadata{}, err
	}
	return entry.Metadata(), nil
}

// List returns exactly the immediate children of the directory at path,
// sorted by name. Fails with EntryNotADirectory if the target is a file.
func (fs *FileSystem) List(path string) ([]memfs.DirEntry, error) {
	dir, err := fs.resolveDir(path)
	if err != nil {
		return nil, err
	}

	entries := make([]memfs.DirEntry, 0, dir.Len())
	dir.IterChildren(func(name string, e Entry) bool {
		entries = append(entries, memfs.DirEntry{Name: name, Metadata: e.Metadata()})
		return true
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Read returns the content stored at path, or an empty byte sequence if none
// is stored. Fails with EntryNotFound if the path is absent.
func (fs *FileSystem) Read(path string) ([]byte, error) {
	entry, err := fs.resolveEntry(path)
	if err != nil {
		return nil, err
	}
	if file, ok := entry.(*File); ok && file.Data() != nil {
		return file.Data(), nil
	}
	return []byte{}, nil
}

// Write stores content at path, creating a new file entry when permitted by
// opts. Creation emits Created then Changed for the path as one batch; a
// plain update emits only Changed.
func (fs *FileSystem) Write(path string, content []byte, opts memfs.WriteOptions) error {
	logger := util.GetLogger("FS.Write")

	parent, err := fs.resolveParent(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to resolve parent directory")
		return err
	}

	name := basename(path)
	entry, exists := parent.GetChild(name)

	var file *File
	events := make([]memfs.Event, 0, 2)
	switch {
	case !exists && !opts.Create:
		return memfs.NotFound(path)
	case exists && opts.Create && opts.Exclusive:
		return memfs.Exists(path)
	case !exists:
		file = NewFile(name)
		parent.PutChild(file)
		events = append(events, memfs.Event{Kind: memfs.Created, Path: path})
	default:
		f, ok := entry.(*File)
		if !ok {
			// Target is a directory; refuse to clobber it with file content
			return memfs.Exists(path)
		}
		file = f
	}

	file.SetData(content)
	events = append(events, memfs.Event{Kind: memfs.Changed, Path: path})
	fs.notifier.record(events...)

	logger.Debug().Str("path", path).Int("size", len(content)).Msg("Wrote file")
	return nil
}

// Rename moves the entry at oldPath under the destination's parent with the
// destination basename. Any existing entry at newPath is silently replaced
// and becomes unreachable along with its subtree. Emits Deleted for oldPath
// then Created for newPath as one batch.
func (fs *FileSystem) Rename(oldPath, newPath string) error {
	logger := util.GetLogger("FS.Rename")

	entry, err := fs.resolveEntry(oldPath)
	if err != nil {
		logger.Debug().Err(err).Str("path", oldPath).Msg("Rename source not found")
		return err
	}
	oldParent, err := fs.resolveParent(oldPath)
	if err != nil {
		return err
	}
	newParent, err := fs.resolveParent(newPath)
	if err != nil {
		logger.Debug().Err(err).Str("path", newPath).Msg("Failed to resolve destination parent")
		return err
	}

	oldParent.RemoveChild(basename(oldPath))
	entry.setName(basename(newPath))
	newParent.PutChild(entry)

	fs.notifier.record(
		memfs.Event{Kind: memfs.Deleted, Path: oldPath},
		memfs.Event{Kind: memfs.Created, Path: newPath},
	)

	logger.Debug().Str("from", oldPath).Str("to", newPath).Msg("Renamed entry")
	return nil
}

// Delete removes the entry at path and its subtree. The parent's mtime is
// refreshed and its size counter decremented. Emits Changed for the parent
// path then Deleted for path as one batch.
func (fs *FileSystem) Delete(path string) error {
	logger := util.GetLogger("FS.Delete")

	parent, err := fs.resolveParent(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to resolve parent directory")
		return err
	}
	if _, ok := parent.RemoveChild(basename(path)); !ok {
		return memfs.NotFound(path)
	}
	parent.Touch()
	parent.AddSize(-1)

	fs.notifier.record(
		memfs.Event{Kind: memfs.Changed, Path: parentPath(path)},
		memfs.Event{Kind: memfs.Deleted, Path: path},
	)

	logger.Debug().Str("path", path).Msg("Deleted entry")
	return nil
}

// Mkdir creates a fresh empty directory at path. No existence check is made:
// a prior entry under the same name is discarded together with its subtree.
// Emits Changed for the parent path then Created for path as one batch.
func (fs *FileSystem) Mkdir(path string) error {
	logger := util.GetLogger("FS.Mkdir")

	parent, err := fs.resolveParent(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("Failed to resolve parent directory")
		return err
	}

	parent.PutChild(NewDir(basename(path)))
	parent.Touch()
	parent.AddSize(1)

	fs.notifier.record(
		memfs.Event{Kind: memfs.Changed, Path: parentPath(path)},
		memfs.Event{Kind: memfs.Created, Path: path},
	)

	logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// AddDirSeed recursively creates all missing directories along the seed's
// path without disturbing existing ones, like `mkdir -p`. An existing leaf
// directory is not an error; a file anywhere in the path is. The seed's UUID
// and Mtime overrides apply to the leaf when it is newly made.
func (fs *FileSystem) AddDirSeed(req *memfs.DirSeedRequest) error {
	logger := util.GetLogger("FS.AddDirSeed")

	id, err := seedID(&req.NodeSeedRequest)
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create directory seed")
		return err
	}

	cur := fs.root
	curPath := ""
	leafNew := false
	var events []memfs.Event
	newCnt := 0
	for _, name := range splitPath(req.Path) {
		parent := curPath
		if parent == "" {
			parent = "/"
		}
		curPath += "/" + name

		if child, ok := cur.GetChild(name); ok {
			dir, isDir := child.(*Dir)
			if !isDir {
				err := memfs.NotADirectory(curPath)
				logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create directory seed")
				return err
			}
			cur = dir
			leafNew = false
			continue
		}

		dir := NewDir(name)
		cur.PutChild(dir)
		cur.Touch()
		cur.AddSize(1)
		events = append(events,
			memfs.Event{Kind: memfs.Changed, Path: parent},
			memfs.Event{Kind: memfs.Created, Path: curPath},
		)
		cur = dir
		leafNew = true
		newCnt++
	}

	if leafNew {
		cur.ID = id
		if req.Mtime != nil {
			cur.mtime = *req.Mtime
		}
	}
	fs.notifier.record(events...)

	if newCnt > 0 {
		logger.Debug().Str("path", req.Path).Int("created", newCnt).Msg("Added directory seed")
	}
	return nil
}

// AddFileSeed stores the seed's inline content as a new file entry, creating
// any missing ancestor directories first. Unlike Write it never touches an
// existing entry: a prior entry at the path fails with EntryExists.
func (fs *FileSystem) AddFileSeed(req *memfs.FileSeedRequest) error {
	logger := util.GetLogger("FS.AddFileSeed")

	id, err := seedID(&req.NodeSeedRequest)
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create file seed")
		return err
	}

	dirReq := memfs.DirSeedRequest{NodeSeedRequest: memfs.NodeSeedRequest{
		Path: parentPath(req.Path),
		Type: memfs.DirNodeType,
	}}
	if err := fs.AddDirSeed(&dirReq); err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create file seed ancestors")
		return err
	}
	parent, err := fs.resolveParent(req.Path)
	if err != nil {
		return err
	}

	name := basename(req.Path)
	if _, ok := parent.GetChild(name); ok {
		err := memfs.Exists(req.Path)
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create file seed")
		return err
	}

	file := NewFile(name)
	file.ID = id
	file.SetData([]byte(req.Content))
	if req.Mtime != nil {
		file.mtime = *req.Mtime
	}
	parent.PutChild(file)

	fs.notifier.record(
		memfs.Event{Kind: memfs.Created, Path: req.Path},
		memfs.Event{Kind: memfs.Changed, Path: req.Path},
	)

	logger.Debug().Str("path", req.Path).Msg("Added file seed")
	return nil
}

// seedID resolves a seed request's identity: the parsed UUID override when
// one was supplied, a fresh one otherwise
func seedID(req *memfs.NodeSeedRequest) (uuid.UUID, error) {
	if req.UUID == nil {
		return uuid.New(), nil
	}
	id, err := uuid.Parse(*req.UUID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid seed uuid for %s: %w", req.Path, err)
	}
	return id, nil
}

// Walk visits the entry at path and every entry below it depth-first,
// children in name order, invoking fn with each entry's full path.
func (fs *FileSystem) Walk(path string, fn func(path string, md memfs.Metadata)) error {
	entry, err := fs.resolveEntry(path)
	if err != nil {
		return err
	}
	root := "/" + strings.Join(splitPath(path), "/")
	walkEntry(root, entry, fn)
	return nil
}

func walkEntry(path string, e Entry, fn func(path string, md memfs.Metadata)) {
	fn(path, e.Metadata())
	dir, ok := e.(*Dir)
	if !ok {
		return
	}
	names := make([]string, 0, dir.Len())
	dir.IterChildren(func(name string, _ Entry) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	prefix := path
	if prefix != "/" {
		prefix += "/"
	}
	for _, name := range names {
		if child, ok := dir.GetChild(name); ok {
			walkEntry(prefix+name, child, fn)
		}
	}
}

// Watch registers host interest in a path. The core does not scope delivery
// by path: every subscriber sees every batch, and the returned handle's
// Dispose is a no-op.
func (fs *FileSystem) Watch(path string, opts memfs.WatchOptions) memfs.Disposable {
	logger := util.GetLogger("FS.Watch")
	logger.Trace().Str("path", path).Bool("recursive", opts.Recursive).Msg("Watch registered")
	return watchHandle{}
}

type watchHandle struct{}

func (watchHandle) Dispose() {}

// Subscribe returns a subscription delivering each flushed event batch
func (fs *FileSystem) Subscribe() *Subscription {
	return fs.notifier.subscribe()
}

// Close stops any pending flush and closes all subscriber channels.
// The tree itself remains readable.
func (fs *FileSystem) Close() {
	fs.notifier.close()
}
