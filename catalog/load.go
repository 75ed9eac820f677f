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
	"context"
	"log/slog"

	"github.com/zintix-labs/picklab/errs"
)

// Load 讀取、解壓、解析並驗證頻率表。任何失敗都回傳 DataUnavailable。
func Load(ctx context.Context, src Source) (*Table, error) {
	if src == nil {
		return nil, errs.DataUnavailable(errs.NewLog("no source configured"), "")
	}
	raw, err := readAll(ctx, src)
	if err != nil {
		return nil, errs.DataUnavailable(err, src.Name())
	}
	t, err := Parse(raw, FormatByName(src.Name()))
	if err != nil {
		return nil, errs.DataUnavailable(err, src.Name())
	}
	return t, nil
}

// LoadOrDefault 同 Load，失敗時記錄警告並回傳內建預設表。
// fromSource 表示結果是否來自 src。
func LoadOrDefault(ctx context.Context, src Source, log *slog.Logger) (t *Table, fromSource bool) {
	t, err := Load(ctx, src)
	if err == nil {
		return t, true
	}
	if log != nil {
		name := ""
		if src != nil {
			name = src.Name()
		}
		log.Warn("frequency data unavailable, using bundled table",
			slog.String("source", name),
			slog.Any("err", err),
		)
	}
	return Default(), false
}
