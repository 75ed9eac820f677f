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

package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/picklab/errs"
)

// GetSettingsByYAML
// 以預設值為底讀取 YAML（未知欄位視為錯誤），初始化並檢查後回傳
func GetSettingsByYAML(data []byte) (*Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // 嚴格檢查：多寫/拼錯欄位就報錯
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := s.init(); err != nil {
		return nil, errs.Wrap(err, "settings initialized err")
	}
	return &s, nil
}

// GetSettingsByJSON
// 以預設值為底讀取 JSON，初始化並檢查後回傳
func GetSettingsByJSON(data []byte) (*Settings, error) {
	s := DefaultSettings()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	if err := s.init(); err != nil {
		return nil, errs.Wrap(err, "settings initialized err")
	}
	return &s, nil
}

// GetSettingsByTOML
// 以預設值為底讀取 TOML，未定義的 key 視為錯誤
func GetSettingsByTOML(data []byte) (*Settings, error) {
	s := DefaultSettings()
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errs.Wrap(err, "can not decode toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.InvalidSettingsf("unknown toml keys: %v", undecoded)
	}
	if err := s.init(); err != nil {
		return nil, errs.Wrap(err, "settings initialized err")
	}
	return &s, nil
}

// GetSettingsByExt 依副檔名 (.yaml/.yml/.json/.toml) 選擇解碼方式
func GetSettingsByExt(ext string, data []byte) (*Settings, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return GetSettingsByYAML(data)
	case ".json":
		return GetSettingsByJSON(data)
	case ".toml":
		return GetSettingsByTOML(data)
	default:
		return nil, errs.InvalidSettingsf("unsupported settings format %q", ext)
	}
}

// LoadSettingsFile 讀取設定檔；檔案不存在時 found=false 並回傳預設值。
func LoadSettingsFile(path string) (s *Settings, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d := DefaultSettings()
			return &d, false, nil
		}
		return nil, false, errs.Wrap(err, "read settings file")
	}
	s, err = GetSettingsByExt(filepath.Ext(path), data)
	if err != nil {
		return nil, true, errs.WrapWithExtra(err, "load settings file", path)
	}
	return s, true, nil
}

// LoadSettingsFS 從 fs.FS 讀取設定檔（例如內嵌預設組合）
func LoadSettingsFS(fsys fs.FS, name string) (*Settings, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "read settings", name)
	}
	s, err := GetSettingsByExt(filepath.Ext(name), data)
	if err != nil {
		return nil, errs.WrapWithExtra(err, "load settings", name)
	}
	return s, nil
}

// DefaultConfigPath 依 XDG 規範回傳預設設定檔路徑。
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "picklab", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "picklab.toml")
	}
	return filepath.Join(home, ".config", "picklab", "config.toml")
}
