package filesystem

import (
	"strings"

	"github.com/brettbedarf/memfs"
)

// splitPath splits a slash-delimited path into its non-empty segments.
// Leading, trailing, and doubled separators produce empty segments that are
// discarded, so "", "/" and "//" all denote the root.
func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segs := make([]string, 0, len(parts))
	for _, s := range parts {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// basename returns the final segment of path; "" for the root
func basename(path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// parentPath returns path with its final segment removed
func parentPath(path string) string {
	segs := splitPath(path)
	if len(segs) <= 1 {
		return "/"
	}
	return "/" + strings.Join(segs[:len(segs)-1], "/")
}

// resolveEntry walks the tree from the root one segment at a time. A
// non-terminal segment naming a file yields nothing for that segment, so
// traversal through a file surfaces as EntryNotFound.
func (fs *FileSystem) resolveEntry(path string) (Entry, error) {
	var cur Entry = fs.root
	for _, seg := range splitPath(path) {
		dir, ok := cur.(*Dir)
		if !ok {
			return nil, memfs.NotFound(path)
		}
		child, ok := dir.GetChild(seg)
		if !ok {
			return nil, memfs.NotFound(path)
		}
		cur = child
	}
	return cur, nil
}

// resolveDir resolves path and requires the result to be a directory
func (fs *FileSystem) resolveDir(path string) (*Dir, error) {
	entry, err := fs.resolveEntry(path)
	if err != nil {
		return nil, err
	}
	dir, ok := entry.(*Dir)
	if !ok {
		return nil, memfs.NotADirectory(path)
	}
	return dir, nil
}

// resolveParent resolves the containing directory of path. Used by the
// mutating operations to locate the insertion point before touching the tree.
func (fs *FileSystem) resolveParent(path string) (*Dir, error) {
	return fs.resolveDir(parentPath(path))
}
