package main

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/zintix-labs/picklab/errs"
)

// writeOutput path 為空或 "-" 時寫到 stdout；.gz 結尾時以 gzip 壓縮
func writeOutput(stdout io.Writer, path string, write func(w io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapWithExtra(err, "create output", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errs.WrapWithExtra(cerr, "close output", path)
		}
	}()
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return write(f)
	}
	zw := gzip.NewWriter(f)
	if err := write(zw); err != nil {
		return err
	}
	return zw.Close()
}

// openInput path 為 "-" 時讀 stdin；.gz 結尾時解壓
func openInput(stdin io.Reader, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "open input", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, errs.WrapWithExtra(err, "open gzip input", path)
	}
	return &gzipFile{Reader: zr, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if cerr := g.f.Close(); err == nil {
		err = cerr
	}
	return err
}
