package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/common"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"go.uber.org/zap"
)

// File keeps one pretty printed JSON document per run in a directory.
type File struct {
	Dir string
}

func (f *File) Setup(*core.Conf) error {
	if f.Dir == "" {
		s, err := loadSetting()
		if err != nil {
			return err
		}
		f.Dir = s.Dir
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return err
	}
	if err := common.IsDirWritable(f.Dir); err != nil {
		zap.L().Error(fmt.Sprintf("failed to set up file store/reason:%s", err))
		return err
	}
	return nil
}

func (f *File) path(id string) string {
	return filepath.Join(f.Dir, objectName(id))
}

func (f *File) Save(_ context.Context, r *core.Result) error {
	b, err := r.MarshalIndent()
	if err != nil {
		return err
	}
	tmp := f.path(r.ID) + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path(r.ID))
}

func (f *File) Get(_ context.Context, id string) (*core.Result, error) {
	if filepath.Base(id) != id {
		return nil, errors.Errorf("invalid result id %q", id)
	}
	b, err := os.ReadFile(f.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return core.UnmarshalResult(b)
}
