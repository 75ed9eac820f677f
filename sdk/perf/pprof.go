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

package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/picklab/errs"
)

// DefaultDir pprof 檔案預設寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 profile 種類
var Modes = []string{"cpu", "heap", "allocs"}

// Run 依 mode 包住 exe 做 profiling，mode 為空字串時直接執行。
// 回傳寫出的 profile 路徑（未 profiling 時為空字串）。
//
// Usage like:
//
//	picklab sim --picks 1000000 --pprof cpu
func Run(dir, mode string, exe func() error) (string, error) {
	if mode == "" {
		return "", exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errs.Wrap(err, "create profiling dir")
	}
	path := filepath.Join(dir, mode+".pprof")
	switch mode {
	case "cpu":
		return path, CPU(path, exe)
	case "heap":
		return path, Heap(path, exe)
	case "allocs":
		return path, Allocs(path, exe)
	default:
		return "", errs.InvalidSettingsf("unknown pprof mode %q", mode)
	}
}

// CPU 在 exe 執行期間收集 CPU profile；也可作為 pgo 的輸入。
func CPU(path string, exe func() error) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapWithExtra(err, "failed to create cpu profile", path)
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start pprof")
	}
	defer pprof.StopCPUProfile()

	return exe()
}

// Heap 會在 exe() 執行完後，寫出一次 Heap Snapshot（in-use memory）。
// 寫出前先呼叫 runtime.GC()，讓 Live Objects 視圖較準確。
func Heap(path string, exe func() error) error {
	if err := exe(); err != nil {
		return err
	}
	runtime.GC()
	return writeProfile(path, "heap")
}

// Allocs 會在 exe() 後寫出「累積配置」(allocs) Profile，
// 需要搭配 -alloc_space / -alloc_objects 指標查看。
func Allocs(path string, exe func() error) error {
	if err := exe(); err != nil {
		return err
	}
	return writeProfile(path, "allocs")
}

func writeProfile(path, name string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Warnf("profile %s not found", name)
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapWithExtra(err, "failed to create profile", path)
	}
	defer f.Close()
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "failed to write "+name+" profile")
	}
	return nil
}
