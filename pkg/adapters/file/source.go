package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/aretw0/taskstream/pkg/domain"
)

// Source implements ports.DescriptionSource over a file system. Paths are
// slash-separated and relative to the root of the file system.
type Source struct {
	fsys fs.FS
}

// NewSource reads descriptions from fsys (an embed.FS, os.DirFS, ...).
func NewSource(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

// NewDirSource reads descriptions from a directory on disk.
func NewDirSource(dir string) *Source {
	return NewSource(os.DirFS(dir))
}

// ReadDescription returns the document verbatim. A missing or unreadable
// document is a configuration error.
func (s *Source) ReadDescription(ctx context.Context, p string) (domain.Description, error) {
	clean := path.Clean(p)
	data, err := fs.ReadFile(s.fsys, clean)
	if err != nil {
		return domain.Description{}, fmt.Errorf("%w: read description %s: %w", domain.ErrConfiguration, p, err)
	}
	return domain.Description{Path: p, Text: string(data)}, nil
}

// Overlay reads from the first source that has the document.
type Overlay []*Source

// ReadDescription tries every source in order and returns the last error when
// none has the document.
func (o Overlay) ReadDescription(ctx context.Context, p string) (domain.Description, error) {
	err := fmt.Errorf("%w: no source for %s", domain.ErrConfiguration, p)
	for _, s := range o {
		if s == nil {
			continue
		}
		var desc domain.Description
		desc, err = s.ReadDescription(ctx, p)
		if err == nil {
			return desc, nil
		}
	}
	return domain.Description{}, err
}
