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

package dto

import (
	"encoding/json"
	"io"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
)

const maxRequestBody = 1 << 20

// GenerateRequest 以 JSON 描述一次產號 (generate --request)
//
//	{"settings": {"variant": "custom", "preset_main": "7, 14"}, "seed": 42}
//
// 重現 (replay)：把先前結果的 core_state.start_b64u 放入 start_state，
// 搭配相同 settings 即可得到同一批號碼；放入 after_b64u 則接續產號。
type GenerateRequest struct {
	Settings   spec.Patch  `json:"settings,omitempty"`
	Seed       *int64      `json:"seed,omitempty"`
	StartState *StartState `json:"start_state,omitempty"`
}

// StartState 請求端只提供起始快照
type StartState struct {
	StartCoreSnapB64U string `json:"start_b64u,omitempty"`
}

// DecodeGenerateRequest 解碼請求；限制 1MiB、拒絕未知欄位。
// 只做型別轉換，設定合法性由 Session.UpdateSettings 決定。
func DecodeGenerateRequest(r io.Reader) (*GenerateRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(GenerateRequest)
	dec := json.NewDecoder(io.LimitReader(r, maxRequestBody))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(req); err != nil {
		if err == io.EOF {
			return req, nil
		}
		return nil, errs.InvalidSettingsf("invalid request json: %v", err)
	}
	return req, nil
}

// Snapshot 取出起始快照；沒有時回傳 nil
func (r *GenerateRequest) Snapshot() ([]byte, error) {
	if r.StartState == nil || r.StartState.StartCoreSnapB64U == "" {
		return nil, nil
	}
	return DecodeB64U(r.StartState.StartCoreSnapB64U)
}
