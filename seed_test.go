package memfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNodeType(t *testing.T) {
	t.Parallel()

	typ, err := GetNodeType([]byte(`{"type":"file","path":"/a.txt"}`))
	require.NoError(t, err)
	assert.Equal(t, FileNodeType, typ)

	typ, err = GetNodeType([]byte(`{"type":"dir","path":"/d"}`))
	require.NoError(t, err)
	assert.Equal(t, DirNodeType, typ)

	_, err = GetNodeType([]byte(`not json`))
	assert.Error(t, err)
}

func TestUnmarshalFileSeed(t *testing.T) {
	t.Parallel()

	req, err := UnmarshalFileSeed([]byte(`{"type":"file","path":"/docs/readme.txt","content":"hello"}`))
	require.NoError(t, err)

	assert.Equal(t, "/docs/readme.txt", req.Path)
	assert.Equal(t, FileNodeType, req.Type)
	assert.Equal(t, "hello", req.Content)
	assert.Nil(t, req.UUID)
}

func TestUnmarshalDirSeed(t *testing.T) {
	t.Parallel()

	req, err := UnmarshalDirSeed([]byte(`{"type":"dir","path":"/docs"}`))
	require.NoError(t, err)

	assert.Equal(t, "/docs", req.Path)
	assert.Equal(t, DirNodeType, req.Type)

	_, err = UnmarshalDirSeed([]byte(`{`))
	assert.Error(t, err)
}

func TestEventKindStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "changed", Changed.String())
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "file", FileKind.String())
	assert.Equal(t, "directory", DirectoryKind.String())
	assert.Equal(t, "unknown", EventKind(0).String())
}
