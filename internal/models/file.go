package models

import (
	"bytes"
	"io"
	"os"
)

// ContentSource opens the bytes behind a FileHandle. The upload core never
// reads it; only consumers of completed batches do.
type ContentSource interface {
	Open() (io.ReadCloser, error)
}

// FileHandle is a file offered to the upload dialog, from a picker or a drop.
// Identity for duplicate detection is the (Name, Size) pair.
type FileHandle struct {
	Name    string        `json:"name"`
	Size    int64         `json:"size"`
	Path    string        `json:"path,omitempty"` // Local path, empty for in-memory handles
	Content ContentSource `json:"-"`
}

// SameFile reports whether two handles share the duplicate identity.
// Name comparison is case-sensitive, size is exact.
func (h FileHandle) SameFile(other FileHandle) bool {
	return h.Name == other.Name && h.Size == other.Size
}

// localContent reads from a path on disk.
type localContent string

func (p localContent) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

// bytesContent serves an in-memory buffer.
type bytesContent []byte

func (b bytesContent) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// NewLocalFileHandle builds a handle for a file on disk.
func NewLocalFileHandle(path, name string, size int64) FileHandle {
	return FileHandle{
		Name:    name,
		Size:    size,
		Path:    path,
		Content: localContent(path),
	}
}

// NewMemoryFileHandle builds a handle around an in-memory buffer.
func NewMemoryFileHandle(name string, data []byte) FileHandle {
	return FileHandle{
		Name:    name,
		Size:    int64(len(data)),
		Content: bytesContent(data),
	}
}
