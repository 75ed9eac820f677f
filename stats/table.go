package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// DefaultBarWidth 頻率長條圖預設寬度
const DefaultBarWidth = 30

// StdOut 輸出分析摘要、主號與現行歐元號的頻率表
func (r *FrequencyReport) StdOut(w io.Writer, barWidth int) {
	sk, sm := r.fmtBasic()
	fmt.Fprintln(w, fmtTable("Draw History", sk, sm))
	fmt.Fprintln(w, FrequencyTable(r.Main, barWidth))
	for _, e := range r.Euro {
		fmt.Fprintln(w, FrequencyTable(e, barWidth))
	}
	fmt.Fprintln(w, EvenOddTable("even/odd main", r.EvenOdd.Main))
	if len(r.EvenOdd.Euro) > 0 {
		fmt.Fprintln(w, EvenOddTable("even/odd euro", r.EvenOdd.Euro))
	}
}

// StdOut 輸出模擬耗時與品質摘要
func (a *AuditReport) StdOut(w io.Writer, ut time.Duration) {
	formatDuration(w, ut, a.Summary.Picks)
	sk, sm := a.fmtBasic()
	fmt.Fprintln(w, fmtTable("Audit "+a.Summary.Variant, sk, sm))
}

// FrequencyTable 以表格列出每個號碼的次數、相對頻率與長條
func FrequencyTable(ns NumberStats, barWidth int) string {
	p := message.NewPrinter(lang)
	if barWidth <= 0 {
		barWidth = DefaultBarWidth
	}
	peak := 0
	for _, e := range ns.Entries {
		peak = max(peak, e.AbsoluteFrequency)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(p.Sprintf("%s %s (%d draws, p=%.3f)", ns.Label, ns.Domain, ns.Draws, ns.PValue))
	tw.AppendHeader(table.Row{"No.", "Count", "Relative", "vs Expected", ""})
	for _, e := range ns.Entries {
		bar := 0
		if peak > 0 {
			bar = e.AbsoluteFrequency * barWidth / peak
		}
		tw.AppendRow(table.Row{
			e.Number,
			p.Sprintf("%d", e.AbsoluteFrequency),
			p.Sprintf("%.4f", e.RelativeFrequency),
			p.Sprintf("%+.2f%%", 100*(e.RelativeFrequency-ns.Expected)),
			strings.Repeat("█", bar),
		})
	}
	tw.AppendFooter(table.Row{"", p.Sprintf("%d", ns.Total), p.Sprintf("%.4f", ns.Expected), "expected", ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

// EvenOddTable 偶數個數的實際與理論比例
func EvenOddTable(title string, buckets []EvenOddBucket) string {
	p := message.NewPrinter(lang)
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(title)
	tw.AppendHeader(table.Row{"Even/Odd", "Count", "Empirical", "Theoretical"})
	for _, b := range buckets {
		tw.AppendRow(table.Row{
			fmt.Sprintf("%d/%d", b.Even, b.Odd),
			p.Sprintf("%d", b.Count),
			p.Sprintf("%.2f%%", 100*b.Empirical),
			p.Sprintf("%.2f%%", 100*b.Theoretical),
		})
	}
	return tw.Render()
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (r *FrequencyReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Draws":          p.Sprintf("%d", r.Draws),
		"Period":         "-",
		"Main Most":      p.Sprintf("%d", r.Main.MostFrequent),
		"Main Least":     p.Sprintf("%d", r.Main.LeastFrequent),
		"Main Chi2":      p.Sprintf("%.2f (p=%.3f)", r.Main.ChiSquare, r.Main.PValue),
		"Main Count STD": p.Sprintf("%.2f", r.Main.StdCount),
		"Sum Mean":       p.Sprintf("%.2f (expected %.1f)", r.Sum.Mean, r.Sum.Expected),
		"Sum STD":        p.Sprintf("%.2f", r.Sum.Std),
		"Sum Range":      p.Sprintf("%d - %d", r.Sum.Min, r.Sum.Max),
	}
	if !r.From.IsZero() {
		basic["Period"] = r.From.Format(time.DateOnly) + " ~ " + r.To.Format(time.DateOnly)
	}
	keys := []string{"Draws", "Period", "Main Most", "Main Least", "Main Chi2", "Main Count STD", "Sum Mean", "Sum STD", "Sum Range"}
	if e, ok := r.CurrentEuro(); ok {
		basic["Euro Most"] = p.Sprintf("%d", e.MostFrequent)
		basic["Euro Least"] = p.Sprintf("%d", e.LeastFrequent)
		basic["Euro Chi2"] = p.Sprintf("%.2f (p=%.3f)", e.ChiSquare, e.PValue)
		keys = append(keys, "Euro Most", "Euro Least", "Euro Chi2")
	}
	return keys, basic
}

func (a *AuditReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s, rt := a.Summary, a.Rates
	rate := func(ps PointStat) string {
		return p.Sprintf("%.3f%% [%.3f%%,%.3f%%]", 100*ps.Hat, 100*ps.CI.Lo, 100*ps.CI.Hi)
	}
	basic := map[string]string{
		"Settings":        s.Settings,
		"Workers":         p.Sprintf("%d", s.Workers),
		"Picks":           p.Sprintf("%d", s.Picks),
		"Avg Attempts":    p.Sprintf("%.2f", rt.AvgAttempts),
		"Degraded":        rate(rt.Degraded),
		"Relaxed":         rate(rt.Relaxed),
		"Range Misses":    p.Sprintf("%d", s.RangeMisses),
		"Range Fallbacks": p.Sprintf("%d", s.RangeFallbacks),
		"Adjacent":        rate(rt.Adjacent),
		"Balanced":        rate(rt.Balanced),
		"Main Chi2":       p.Sprintf("%.2f (p=%.3f)", a.Main.ChiSquare, a.Main.PValue),
		"Euro Chi2":       p.Sprintf("%.2f (p=%.3f)", a.Euro.ChiSquare, a.Euro.PValue),
	}
	keys := []string{"Settings", "Workers", "Picks", "Avg Attempts", "Degraded", "Relaxed", "Range Misses", "Range Fallbacks", "Adjacent", "Balanced", "Main Chi2", "Euro Chi2"}
	if a.Speed != nil {
		basic["Mean Rate"] = p.Sprintf("%.0f picks/sec", a.Speed.MeanRate)
		basic["Latency p50/p99"] = p.Sprintf("%.1fµs / %.1fµs", a.Speed.P50Micro, a.Speed.P99Micro)
		keys = append(keys, "Mean Rate", "Latency p50/p99")
	}
	return keys, basic
}

func formatDuration(w io.Writer, d time.Duration, picks int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	pps := int(float64(picks) / sec)
	if sec < 60.0 {
		p.Fprintf(w, "used: %.2f seconds\npps : %d picks/sec\n", sec, pps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Fprintf(w, "used: %dm %ds\npps : %d picks/sec\n", m, s, pps)
		return
	}
	p.Fprintf(w, "used: %dh:%dm:%ds\npps : %d picks/sec\n", h, m, s, pps)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
