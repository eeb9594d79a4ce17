// Package export writes a storyboard's videos, script and contact sheet to a
// local directory or an S3-compatible bucket.
package export

import (
	"context"

	"github.com/dmitrijs2005/storyboard/internal/filex"
)

// Sink stores one named file and returns where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// DirSink writes files into a local directory.
type DirSink struct {
	dir string
}

// NewDirSink creates dir if needed.
func NewDirSink(dir string) (*DirSink, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &DirSink{dir: abs}, nil
}

func (s *DirSink) Dir() string { return s.dir }

func (s *DirSink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return filex.WriteFile(s.dir, name, data)
}
