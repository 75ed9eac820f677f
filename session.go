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

package picklab

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zintix-labs/picklab/dto"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/pick"
	"github.com/zintix-labs/picklab/spec"
)

// ExportTimeLayout 匯出檔 "Generated on:" 的時間格式
const ExportTimeLayout = "2006-01-02 15:04:05"

// Session 單一使用者的產號會話：持有設定、最近一次的號碼與亂數核心。
//
// 並發語意：
//   - 所有方法以 mu 保護，可在 UI goroutine 與背景產號之間共用。
//   - Run 失敗時保留上一批號碼；成功時整批取代。
//   - Close 之後所有方法回傳 Closed 錯誤。
type Session struct {
	mu          sync.Mutex
	settings    spec.Settings
	gen         *pick.Generator
	seed        int64
	picks       []spec.Pick
	traces      []pick.Trace
	generatedAt time.Time
	startSnap   []byte // 最近一次 Run 之前的 Core 快照
	closed      bool
	log         *slog.Logger
	now         func() time.Time
}

func newSession(s spec.Settings, g *pick.Generator, seed int64, log *slog.Logger) *Session {
	return &Session{
		settings: s,
		gen:      g,
		seed:     seed,
		log:      log,
		now:      time.Now,
	}
}

// Settings 回傳目前設定的副本
func (s *Session) Settings() spec.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Seed 建立時的 seed
func (s *Session) Seed() int64 {
	return s.seed
}

// UpdateSettings 合併 patch 中認得的欄位，回傳被略過的 key。
// 值不合法時回傳 InvalidSettings，設定保持不變。
func (s *Session) UpdateSettings(p spec.Patch) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errs.Closedf("session closed")
	}
	ignored, err := s.settings.Apply(p)
	if err != nil {
		return nil, err
	}
	if len(ignored) > 0 {
		s.log.Debug("settings keys ignored", slog.Any("keys", ignored))
	}
	return ignored, nil
}

// Run 依目前設定產生 Count 注號碼，成功時取代上一批。
func (s *Session) Run() ([]spec.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errs.Closedf("session closed")
	}
	snap := s.snapshot("start")
	picks, traces, err := s.gen.PickN(&s.settings)
	if err != nil {
		return nil, err
	}
	s.picks = picks
	s.traces = traces
	s.generatedAt = s.now()
	s.startSnap = snap

	degraded := 0
	for _, tr := range traces {
		if tr.Degraded() {
			degraded++
		}
	}
	if degraded > 0 {
		s.log.Debug("constraints relaxed", slog.Int("picks", len(picks)), slog.Int("degraded", degraded))
	}
	return slices.Clone(picks), nil
}

// Cover 產生 n 注補充號碼：歐元號組合不與 existing 重複並盡量覆蓋全部歐元號，
// 主號避開同一歐元號已使用的主號。結果取代目前的號碼。
func (s *Session) Cover(existing []spec.Pick, n int) ([]spec.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errs.Closedf("session closed")
	}
	snap := s.snapshot("start")
	opt := pick.Options{AvoidConsecutive: s.settings.AvoidConsecutive, BalanceRanges: s.settings.BalanceRanges}
	picks, err := s.gen.Coverage(existing, n, opt)
	if err != nil {
		return nil, err
	}
	s.picks = picks
	s.traces = nil
	s.generatedAt = s.now()
	s.startSnap = snap
	return slices.Clone(picks), nil
}

// Picks 最近一次成功產生的號碼
func (s *Session) Picks() []spec.Pick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.picks)
}

// Traces 與 Picks 對齊的放寬紀錄 (Cover 的結果沒有紀錄)
func (s *Session) Traces() []pick.Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.traces)
}

// GeneratedAt 最近一次成功產生的時間，尚未產生時為零值
func (s *Session) GeneratedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generatedAt
}

// ExportText 產生可下載的文字內容；尚未產生號碼時回傳 EmptyResult。
func (s *Session) ExportText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exportable(); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Eurojackpot Generated Numbers - %s\n", s.settings.Variant.Label())
	if s.settings.Variant == spec.VariantFrequency {
		fmt.Fprintf(&b, "Strategy: %s\n", s.settings.Strategy.Label())
	}
	fmt.Fprintf(&b, "Generated on: %s\n", s.generatedAt.Format(ExportTimeLayout))
	fmt.Fprintf(&b, "Number of picks: %d\n", len(s.picks))
	fmt.Fprintf(&b, "Settings: %s\n\n", s.settings.Summary())
	for i, p := range s.picks {
		fmt.Fprintf(&b, "Pick %d: %s\n", i+1, p)
	}
	return b.String(), nil
}

// WriteExport 把 ExportText 寫到 w
func (s *Session) WriteExport(w io.Writer) error {
	text, err := s.ExportText()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// ExportFileName 建議的匯出檔名：eurojackpot-<variant>[-<strategy>]-<unix ms>.txt
func (s *Session) ExportFileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := s.generatedAt
	if at.IsZero() {
		at = s.now()
	}
	name := "eurojackpot-" + string(s.settings.Variant)
	if s.settings.Variant == spec.VariantFrequency {
		name += "-" + string(s.settings.Strategy)
	}
	return fmt.Sprintf("%s-%d.txt", name, at.UnixMilli())
}

// Result 轉為對外結構，包含重現用的 Core 快照
func (s *Session) Result() (dto.SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.exportable(); err != nil {
		return dto.SessionResult{}, err
	}
	after := s.snapshot("after")
	st := dto.CoreState{
		Seed:      s.seed,
		StartB64U: dto.EncodeB64U(s.startSnap),
		AfterB64U: dto.EncodeB64U(after),
	}
	return dto.NewSessionResult(s.settings, s.picks, s.traces, s.generatedAt, st)
}

// ExportJSON 以 JSON 輸出 Result
func (s *Session) ExportJSON(w io.Writer) error {
	res, err := s.Result()
	if err != nil {
		return err
	}
	return res.Write(w)
}

// SnapshotCore 取得亂數核心目前狀態
func (s *Session) SnapshotCore() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errs.Closedf("session closed")
	}
	return s.gen.Core().Snapshot()
}

// RestoreCore 還原亂數核心；搭配相同設定可重現同一批號碼
func (s *Session) RestoreCore(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.Closedf("session closed")
	}
	return s.gen.Core().Restore(b)
}

// Close 釋放 Session：清除號碼，之後的呼叫一律失敗。可重複呼叫。
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.picks = nil
	s.traces = nil
	s.startSnap = nil
	return nil
}

// snapshot 核心不支援快照時 (例如 Secure) 回傳 nil，匯出時省略該欄位
func (s *Session) snapshot(stage string) []byte {
	b, err := s.gen.Core().Snapshot()
	if err != nil {
		s.log.Debug("core snapshot unavailable", slog.String("stage", stage), slog.Any("err", err))
		return nil
	}
	return b
}

func (s *Session) exportable() error {
	if s.closed {
		return errs.Closedf("session closed")
	}
	if len(s.picks) == 0 {
		return errs.EmptyResultf("no picks generated yet")
	}
	return nil
}
