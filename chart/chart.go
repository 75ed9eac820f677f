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

// Package chart 將頻率分析與模擬稽核報告畫成可離線開啟的 HTML 圖表。
package chart

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/stats"
)

const pageTitle = "Eurojackpot Picklab"

// Dashboard 由歷史分析報告組出整頁圖表；audit 可為 nil。
func Dashboard(rep *stats.FrequencyReport, audit *stats.AuditReport) (*components.Page, error) {
	if rep == nil && audit == nil {
		return nil, errs.EmptyResultf("nothing to chart")
	}
	page := components.NewPage()
	page.PageTitle = pageTitle
	if rep != nil {
		page.AddCharts(FrequencyBar(rep.Main))
		for _, ns := range rep.Euro {
			page.AddCharts(FrequencyBar(ns))
		}
		page.AddCharts(RankedLine(rep.Main))
		page.AddCharts(
			EvenOddBar("Main Even/Odd", rep.EvenOdd.Main),
			EvenOddBar("Euro Even/Odd", rep.EvenOdd.Euro),
		)
	}
	if audit != nil {
		page.AddCharts(FrequencyBar(audit.Main), FrequencyBar(audit.Euro))
	}
	return page, nil
}

// Render 將 Dashboard 寫入 w
func Render(w io.Writer, rep *stats.FrequencyReport, audit *stats.AuditReport) error {
	page, err := Dashboard(rep, audit)
	if err != nil {
		return err
	}
	if err := page.Render(w); err != nil {
		return errs.Wrap(err, "render chart failed")
	}
	return nil
}

// FrequencyBar 每個號碼的出現次數，並以標線標出均勻分布的期望次數。
func FrequencyBar(ns stats.NumberStats) *charts.Bar {
	title := fmt.Sprintf("%s %s", ns.Label, ns.Domain)
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions(title, fmt.Sprintf("%d draws, chi2 %.2f, p %.4f", ns.Draws, ns.ChiSquare, ns.PValue))...)
	labels := make([]string, 0, len(ns.Entries))
	items := make([]opts.BarData, 0, len(ns.Entries))
	for _, e := range ns.Entries {
		labels = append(labels, strconv.Itoa(e.Number))
		items = append(items, opts.BarData{Value: e.AbsoluteFrequency})
	}
	bar.SetXAxis(labels).AddSeries("Count", items,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  "Expected",
			YAxis: ns.MeanCount,
		}),
	)
	return bar
}

// RankedLine 將出現次數由高到低排列，與期望值對照。
func RankedLine(ns stats.NumberStats) *charts.Line {
	counts := make([]int, 0, len(ns.Entries))
	for _, e := range ns.Entries {
		counts = append(counts, e.AbsoluteFrequency)
	}
	slices.SortFunc(counts, func(a, b int) int { return b - a })

	line := charts.NewLine()
	line.SetGlobalOptions(baseOptions(ns.Label+" Ranked Counts", "")...)
	labels := make([]string, len(counts))
	observed := make([]opts.LineData, len(counts))
	expected := make([]opts.LineData, len(counts))
	for i, c := range counts {
		labels[i] = strconv.Itoa(i + 1)
		observed[i] = opts.LineData{Value: c}
		expected[i] = opts.LineData{Value: ns.MeanCount}
	}
	line.SetXAxis(labels).
		AddSeries("Observed", observed).
		AddSeries("Expected", expected)
	return line
}

// EvenOddBar 每期偶數個數的實際比例與理論比例
func EvenOddBar(title string, buckets []stats.EvenOddBucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOptions(title, "")...)
	labels := make([]string, len(buckets))
	emp := make([]opts.BarData, len(buckets))
	theo := make([]opts.BarData, len(buckets))
	for i, b := range buckets {
		labels[i] = fmt.Sprintf("%dE/%dO", b.Even, b.Odd)
		emp[i] = opts.BarData{Value: b.Empirical}
		theo[i] = opts.BarData{Value: b.Theoretical}
	}
	bar.SetXAxis(labels).
		AddSeries("Empirical", emp).
		AddSeries("Theoretical", theo)
	return bar
}

func baseOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeChalk,
			PageTitle: pageTitle,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	}
}
