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

package recorder

import (
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/sdk/constraint"
	"github.com/zintix-labs/picklab/sdk/pick"
	"github.com/zintix-labs/picklab/spec"
	"github.com/zintix-labs/picklab/stats"
)

// AuditRecorder 產號紀錄員
//
// AuditRecorder 負責紀錄每一注的結果與放寬軌跡，並透過Done輸出品質報告
type AuditRecorder struct {
	Settings spec.Settings
	Basic    *BasicRecord
	Dist     *DistRecord
}

// BasicRecord 基本計數
type BasicRecord struct {
	Picks          int
	Attempts       int
	Degraded       int
	Relaxed        int
	RangeMisses    int
	RangeFallbacks int
	Adjacent       int
	Balanced       int
}

// DistRecord 號碼出現次數 (index = 號碼 - 區間下限)
type DistRecord struct {
	Main []int
	Euro []int
}

func NewAuditRecorder(s spec.Settings) *AuditRecorder {
	return &AuditRecorder{
		Settings: s.Clone(),
		Basic:    new(BasicRecord),
		Dist: &DistRecord{
			Main: make([]int, spec.MainDomain.Size()),
			Euro: make([]int, spec.EuroDomain.Size()),
		},
	}
}

// MergeAuditRecorder 合併多個 worker 的紀錄，設定必須一致
func MergeAuditRecorder(r []*AuditRecorder) (*AuditRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge audit record err : no recorder")
	}
	r0 := r[0]
	s := NewAuditRecorder(r0.Settings)
	for _, v := range r {
		if v.Settings.Variant != r0.Settings.Variant || v.Settings.Strategy != r0.Settings.Strategy {
			return s, errs.NewFatal("merge audit record err : different settings")
		}
		s.Basic.Picks += v.Basic.Picks
		s.Basic.Attempts += v.Basic.Attempts
		s.Basic.Degraded += v.Basic.Degraded
		s.Basic.Relaxed += v.Basic.Relaxed
		s.Basic.RangeMisses += v.Basic.RangeMisses
		s.Basic.RangeFallbacks += v.Basic.RangeFallbacks
		s.Basic.Adjacent += v.Basic.Adjacent
		s.Basic.Balanced += v.Basic.Balanced
		for i, c := range v.Dist.Main {
			s.Dist.Main[i] += c
		}
		for i, c := range v.Dist.Euro {
			s.Dist.Euro[i] += c
		}
	}
	return s, nil
}

// Record 以單注結果與軌跡更新統計
func (s *AuditRecorder) Record(p spec.Pick, tr pick.Trace) {
	s.recordBasic(p, tr)
	s.recordDist(p)
}

// Done 整理為報告；workers 只作為報告資訊
func (s *AuditRecorder) Done(workers int) *stats.AuditReport {
	sum := stats.AuditSummary{
		Variant:        string(s.Settings.Variant),
		Settings:       s.Settings.Summary(),
		Workers:        workers,
		Picks:          s.Basic.Picks,
		Attempts:       s.Basic.Attempts,
		Degraded:       s.Basic.Degraded,
		Relaxed:        s.Basic.Relaxed,
		RangeMisses:    s.Basic.RangeMisses,
		RangeFallbacks: s.Basic.RangeFallbacks,
		Adjacent:       s.Basic.Adjacent,
		Balanced:       s.Basic.Balanced,
	}
	if s.Settings.Variant == spec.VariantFrequency {
		sum.Strategy = string(s.Settings.Strategy)
	}
	return stats.NewAuditReport(sum, s.Dist.Main, s.Dist.Euro)
}

func (s *AuditRecorder) recordBasic(p spec.Pick, tr pick.Trace) {
	b := s.Basic
	b.Picks++
	b.Attempts += tr.Attempts
	b.RangeMisses += tr.RangeMisses
	b.RangeFallbacks += tr.RangeFallbacks
	if tr.Degraded() {
		b.Degraded++
	}
	if tr.Relaxed {
		b.Relaxed++
	}
	if constraint.HasConsecutiveAdjacency(p.Main) {
		b.Adjacent++
	}
	if width, ok := constraint.Balanceable(spec.MainDomain); ok {
		if len(constraint.RangeOccupancy(p.Main, spec.MainDomain.Min, width)) == spec.RangeBuckets {
			b.Balanced++
		}
	}
}

func (s *AuditRecorder) recordDist(p spec.Pick) {
	for _, n := range p.Main {
		s.Dist.Main[n-spec.MainDomain.Min]++
	}
	for _, n := range p.Euro {
		s.Dist.Euro[n-spec.EuroDomain.Min]++
	}
}
