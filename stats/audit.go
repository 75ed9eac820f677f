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

package stats

import (
	"github.com/zintix-labs/picklab/spec"
	"gonum.org/v1/gonum/stat/distuv"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64 `json:"hat" yaml:"hat"`
	CI  CI      `json:"ci" yaml:"ci"`
}

// AuditReport 大量產生號碼後的品質報告
type AuditReport struct {
	Summary *AuditSummary `json:"summary" yaml:"summary"`
	Rates   *AuditRates   `json:"rates" yaml:"rates"`
	Main    NumberStats   `json:"main" yaml:"main"`
	Euro    NumberStats   `json:"euro" yaml:"euro"`
	Speed   *Throughput   `json:"speed,omitempty" yaml:"speed,omitempty"`
}

// Throughput 模擬速度 (picks/sec 與單注耗時分位數，微秒)
type Throughput struct {
	Count    int64   `json:"count" yaml:"count"`
	MeanRate float64 `json:"meanRate" yaml:"meanRate"`
	P50Micro float64 `json:"p50Micro" yaml:"p50Micro"`
	P99Micro float64 `json:"p99Micro" yaml:"p99Micro"`
}

// AuditSummary 原始計數
type AuditSummary struct {
	Variant        string `json:"variant" yaml:"variant"`
	Strategy       string `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Settings       string `json:"settings" yaml:"settings"`
	Workers        int    `json:"workers" yaml:"workers"`
	Picks          int    `json:"picks" yaml:"picks"`
	Attempts       int    `json:"attempts" yaml:"attempts"`
	Degraded       int    `json:"degraded" yaml:"degraded"`             // 任一放寬發生
	Relaxed        int    `json:"relaxed" yaml:"relaxed"`               // 填補階段放棄不連號
	RangeMisses    int    `json:"rangeMisses" yaml:"rangeMisses"`       // 區段無法覆蓋次數
	RangeFallbacks int    `json:"rangeFallbacks" yaml:"rangeFallbacks"` // 區段內放寬不連號次數
	Adjacent       int    `json:"adjacent" yaml:"adjacent"`             // 結果含連號的組數
	Balanced       int    `json:"balanced" yaml:"balanced"`             // 結果覆蓋五個區段的組數
}

// AuditRates 比例估計 (Clopper-Pearson 95%)
type AuditRates struct {
	AvgAttempts float64   `json:"avgAttempts" yaml:"avgAttempts"`
	Degraded    PointStat `json:"degraded" yaml:"degraded"`
	Relaxed     PointStat `json:"relaxed" yaml:"relaxed"`
	Adjacent    PointStat `json:"adjacent" yaml:"adjacent"`
	Balanced    PointStat `json:"balanced" yaml:"balanced"`
}

const auditConfidence = 0.95

// NewAuditReport 由計數建立報告，mainCounts/euroCounts 以號碼順序排列。
func NewAuditReport(s AuditSummary, mainCounts, euroCounts []int) *AuditReport {
	r := &AuditReport{Summary: &s}
	r.Rates = &AuditRates{
		Degraded: pointStat(s.Degraded, s.Picks),
		Relaxed:  pointStat(s.Relaxed, s.Picks),
		Adjacent: pointStat(s.Adjacent, s.Picks),
		Balanced: pointStat(s.Balanced, s.Picks),
	}
	if s.Picks > 0 {
		r.Rates.AvgAttempts = float64(s.Attempts) / float64(s.Picks)
	}
	r.Main = numberStats("main", spec.MainDomain, s.Picks, mainCounts)
	r.Euro = numberStats("euro", spec.EuroDomain, s.Picks, euroCounts)
	return r
}

func pointStat(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, auditConfidence)
	return PointStat{Hat: hat, CI: ci}
}

// proportionCICP 二項比例的 Clopper-Pearson 信賴區間
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}
