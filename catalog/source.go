// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/zintix-labs/picklab/errs"
)

// Source 頻率表來源。Name 用於判斷格式與壓縮（副檔名），也會出現在診斷訊息中。
type Source interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource 本機檔案
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(s.Path)
}

// FSSource fs.FS 中的檔案（embed、os.DirFS、fstest.MapFS 等）
type FSSource struct {
	FS   fs.FS
	File string
}

func (s FSSource) Name() string { return s.File }

func (s FSSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.FS == nil {
		return nil, errs.NewWarn("nil fs")
	}
	return s.FS.Open(s.File)
}

// BytesSource 記憶體中的資料
type BytesSource struct {
	Label string
	Data  []byte
}

func (s BytesSource) Name() string { return s.Label }

func (s BytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.Data)), nil
}

// DefaultHTTPTimeout HTTPSource 未指定 Client 時的逾時
const DefaultHTTPTimeout = 10 * time.Second

// HTTPSource 以 GET 取得遠端資料，非 2xx 視為失敗
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string {
	if i := strings.IndexAny(s.URL, "?#"); i >= 0 {
		return path.Base(s.URL[:i])
	}
	return path.Base(s.URL)
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errs.Warnf("GET %s: unexpected status %s", s.URL, resp.Status)
	}
	return resp.Body, nil
}

// SourceFor 依字串選擇來源：http(s):// 為 HTTPSource，其餘為 FileSource
func SourceFor(loc string) Source {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return HTTPSource{URL: loc}
	}
	return FileSource{Path: loc}
}

func trimCompression(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".gz", ".zst"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// readAll 讀取來源，依副檔名 (.gz/.zst) 解壓
func readAll(ctx context.Context, src Source) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	switch lower := strings.ToLower(src.Name()); {
	case strings.HasSuffix(lower, ".gz"):
		zr, err := gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(lower, ".zst"):
		zr, err := zstd.NewReader(rc)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return io.ReadAll(r)
}
