package assets

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

// FS provides embedded settings presets.
//
//go:embed presets/*.yaml
var FS embed.FS

const presetDir = "presets"

// Presets 列出內嵌的預設組合名稱（不含副檔名，已排序）
func Presets() []string {
	entries, err := fs.ReadDir(FS, presetDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Preset 依名稱載入內嵌設定
func Preset(name string) (*spec.Settings, error) {
	if !slices.Contains(Presets(), name) {
		return nil, errs.InvalidSettingsf("unknown preset %q (available: %s)", name, strings.Join(Presets(), ", "))
	}
	return spec.LoadSettingsFS(FS, path.Join(presetDir, name+".yaml"))
}
