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
	"encoding/base64"
	"encoding/json"
	"io"
	"time"

	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/pick"
	"github.com/zintix-labs/picklab/spec"
)

// SessionResult 一次產號結果的對外序列化結構
type SessionResult struct {
	Title       string        `json:"title"`
	Variant     spec.Variant  `json:"variant"`
	Strategy    spec.Strategy `json:"strategy,omitempty"` // 只有 frequency 變體輸出
	GeneratedAt time.Time     `json:"generated_at"`
	Settings    spec.Settings `json:"settings"`
	Picks       []PickDTO     `json:"picks"`
	State       CoreState     `json:"core_state"`
}

// PickDTO 單注號碼；Trace 只在有放寬時輸出
type PickDTO struct {
	Index int         `json:"index"`
	Main  []int       `json:"main"`
	Euro  []int       `json:"euro"`
	Trace *pick.Trace `json:"trace,omitempty"`
}

// CoreState 重現用的亂數狀態
//
//   - seed：建立 Session 時的種子
//   - start_b64u：本次 Run 之前的 Core 快照 (URL-safe base64)，帶回請求即可重現同一批號碼
//   - after_b64u：Run 之後的 Core 快照，帶回請求即可接續產號
//
// 不支援快照的亂數源 (secure) 兩者皆為空。
type CoreState struct {
	Seed      int64  `json:"seed"`
	StartB64U string `json:"start_b64u,omitempty"`
	AfterB64U string `json:"after_b64u,omitempty"`
}

// NewSessionResult 由 Session 內容建立結果；traces 可為 nil。
func NewSessionResult(s spec.Settings, picks []spec.Pick, traces []pick.Trace, at time.Time, st CoreState) (SessionResult, error) {
	if len(picks) == 0 {
		return SessionResult{}, errs.EmptyResultf("no picks to export")
	}
	r := SessionResult{
		Title:       s.Variant.Label(),
		Variant:     s.Variant,
		GeneratedAt: at,
		Settings:    s.Clone(),
		Picks:       make([]PickDTO, len(picks)),
		State:       st,
	}
	if s.Variant == spec.VariantFrequency {
		r.Strategy = s.Strategy
	}
	for i, p := range picks {
		r.Picks[i] = PickDTO{Index: i + 1, Main: p.Main.Ints(), Euro: p.Euro.Ints()}
		if i < len(traces) && traces[i].Degraded() {
			tr := traces[i]
			r.Picks[i].Trace = &tr
		}
	}
	return r, nil
}

// Write 以縮排 JSON 輸出
func (r SessionResult) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// DecodeSessionResult 讀回 Write 的輸出
func DecodeSessionResult(r io.Reader) (*SessionResult, error) {
	res := new(SessionResult)
	if err := json.NewDecoder(r).Decode(res); err != nil {
		return nil, errs.Wrap(err, "invalid session result json")
	}
	return res, nil
}

// ToPicks 轉回號碼並驗證
func (r SessionResult) ToPicks() ([]spec.Pick, error) {
	if len(r.Picks) == 0 {
		return nil, errs.EmptyResultf("session result has no picks")
	}
	out := make([]spec.Pick, len(r.Picks))
	for i, p := range r.Picks {
		out[i] = spec.Pick{Main: spec.NewNumberSet(p.Main...), Euro: spec.NewNumberSet(p.Euro...)}
		if err := out[i].Validate(); err != nil {
			return nil, errs.WrapWithExtra(err, "invalid pick", p.String())
		}
	}
	return out, nil
}

func (p PickDTO) String() string {
	return spec.Pick{Main: p.Main, Euro: p.Euro}.String()
}

// EncodeB64U 快照編碼
func EncodeB64U(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeB64U 快照解碼
func DecodeB64U(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.InvalidSettingsf("invalid base64url core snapshot: %v", err)
	}
	return b, nil
}
