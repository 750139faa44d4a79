package fakevar

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/robert-malhotra/go-fakevar/internal/layout"
)

// WriteFile writes the dataset buffer verbatim to path. The file is
// written to a temporary name in the same directory and renamed into
// place, so path never holds a partial buffer.
func WriteFile(path string, ds *Dataset) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			err = multierr.Combine(err, os.Remove(tmp))
		}
	}()

	_, err = ds.WriteTo(f)
	err = multierr.Combine(err, f.Chmod(0o644), f.Close())
	if err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(os.Rename(tmp, path), "writing %s", path)
}

// ReadFile reads a buffer written by WriteFile. The file size is checked
// against dims before reading, so a mismatch returns
// ErrBufferSizeMismatch without loading the file.
func ReadFile(path string, dims Dims) ([]byte, error) {
	want, err := layout.TotalSize(dims)
	if err != nil {
		return nil, kindError(ErrInvalidParameter, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset file")
	}
	if info.IsDir() {
		return nil, errors.Errorf("reading dataset file: %s is a directory", path)
	}
	if got := uint64(info.Size()); got != want {
		return nil, errors.Wrapf(ErrBufferSizeMismatch, "%s is %d bytes, %s needs %d", path, got, dims, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading dataset file")
	}
	return data, nil
}
