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

// Package picklab 組裝號碼產生器的執行入口。
//
// Picklab 持有兩個地基：
//  1. PRNGFactory：亂數核心工廠，同一個 seed 必須得到同一批號碼。
//  2. catalog.Table：冷熱號頻率表，建立時載入一次；載入失敗時改用內建預設表。
//
// 由 Picklab 建立的 Session 負責單一使用者的設定、產號與匯出；
// Simulator 則以多個 worker 大量產號，統計限制條件被放寬的比例。
package picklab

import (
	"context"
	"log/slog"

	"github.com/zintix-labs/picklab/catalog"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/logger"
	"github.com/zintix-labs/picklab/sdk/core"
	"github.com/zintix-labs/picklab/sdk/pick"
	"github.com/zintix-labs/picklab/spec"
)

// Picklab 組裝器：Session 與 Simulator 都由這裡建立，共用同一份頻率表。
//
// 頻率表在建立後不再變動，可以被多個 Session 同時讀取。
type Picklab struct {
	cf         core.PRNGFactory
	table      *catalog.Table
	fromSource bool
	source     string
	log        *slog.Logger
}

// New 載入頻率表並建立 Picklab。
//
// src 為 nil 或載入失敗時使用內建預設表並記錄警告，不回傳錯誤。
// cf 不能為 nil。
func New(ctx context.Context, cf core.PRNGFactory, src catalog.Source, log *slog.Logger) (*Picklab, error) {
	if cf == nil {
		return nil, errs.NewFatal("core factory required")
	}
	log = logger.OrDiscard(log)
	var (
		t  *catalog.Table
		ok bool
	)
	if src == nil {
		t = catalog.Default()
		log.Debug("no frequency source configured, using bundled table")
	} else {
		t, ok = catalog.LoadOrDefault(ctx, src, log)
	}
	p := &Picklab{
		cf:         cf,
		table:      t,
		fromSource: ok,
		log:        log,
	}
	if ok {
		p.source = src.Name()
		log.Info("frequency table loaded", slog.String("source", p.source), slog.String("last_updated", t.LastUpdated))
	}
	return p, nil
}

// NewWithTable 使用呼叫端提供的頻率表 (例如 analyze 剛產生的表)
func NewWithTable(cf core.PRNGFactory, t *catalog.Table, log *slog.Logger) (*Picklab, error) {
	if cf == nil {
		return nil, errs.NewFatal("core factory required")
	}
	if t == nil {
		return nil, errs.NewFatal("frequency table required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Picklab{cf: cf, table: t.Clone(), fromSource: true, source: "memory", log: logger.OrDiscard(log)}, nil
}

// Table 回傳頻率表副本
func (p *Picklab) Table() *catalog.Table {
	return p.table.Clone()
}

// FromSource 頻率表是否來自外部來源 (false 代表使用內建預設表)
func (p *Picklab) FromSource() bool {
	return p.fromSource
}

func (p *Picklab) Logger() *slog.Logger {
	return p.log
}

// NewSession 以 crypto seed 建立 Session
func (p *Picklab) NewSession(s spec.Settings) (*Session, error) {
	return p.NewSessionWithSeed(s, core.NewSeed())
}

// NewSessionWithSeed 以指定 seed 建立 Session；同一個 seed 與設定會得到相同的號碼。
func (p *Picklab) NewSessionWithSeed(s spec.Settings, seed int64) (*Session, error) {
	s = s.Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return newSession(s, p.newGenerator(seed), seed, p.log), nil
}

// NewSimulator 以 crypto seed 建立模擬器
func (p *Picklab) NewSimulator(s spec.Settings) (*Simulator, error) {
	return p.NewSimulatorWithSeed(s, core.NewSeed())
}

// NewSimulatorWithSeed 以指定 seed 建立模擬器；worker 的 seed 由此 seed 派生。
func (p *Picklab) NewSimulatorWithSeed(s spec.Settings, seed int64) (*Simulator, error) {
	s = s.Clone()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return newSimulator(p, s, seed), nil
}

func (p *Picklab) newGenerator(seed int64) *pick.Generator {
	return pick.New(core.New(p.cf.New(seed))).WithRanking(p.table)
}
