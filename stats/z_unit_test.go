package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/picklab/catalog"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/spec"
	"gopkg.in/yaml.v3"
)

const sampleCSV = `Datum,Z1,Z2,Z3,Z4,Z5,EZ1,EZ2
2013-05-03,1,12,23,34,45,2,7
2020-01-10,5,10,15,20,25,3,9
2023-06-02,2,4,6,8,10,11,12
2024-02-16,50,41,32,3,14,1,12
`

func TestParseDraws(t *testing.T) {
	draws, err := ParseDraws(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, draws, 4)
	assert.Equal(t, []int{3, 14, 32, 41, 50}, draws[3].Main)
	assert.Equal(t, []int{1, 12}, draws[3].Euro)
	assert.Equal(t, time.Date(2013, 5, 3, 0, 0, 0, 0, time.UTC), draws[0].Date)
}

func TestParseDrawsSemicolonGermanDate(t *testing.T) {
	in := "Z1;Z2;Z3;Z4;Z5;EZ1;EZ2;Datum\n1;2;3;4;5;1;2;25.03.2022\n\n"
	draws, err := ParseDraws(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, draws, 1)
	assert.Equal(t, time.Date(2022, 3, 25, 0, 0, 0, 0, time.UTC), draws[0].Date)
}

func TestParseDrawsRejects(t *testing.T) {
	cases := map[string]string{
		"missing column": "Z1,Z2,Z3,Z4,EZ1,EZ2\n1,2,3,4,1,2\n",
		"out of range":   "Z1,Z2,Z3,Z4,Z5,EZ1,EZ2\n1,2,3,4,51,1,2\n",
		"duplicate":      "Z1,Z2,Z3,Z4,Z5,EZ1,EZ2\n1,2,3,4,4,1,2\n",
		"euro over era":  "Datum,Z1,Z2,Z3,Z4,Z5,EZ1,EZ2\n2013-01-04,1,2,3,4,5,1,9\n",
		"not a number":   "Z1,Z2,Z3,Z4,Z5,EZ1,EZ2\n1,2,x,4,5,1,2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDraws(strings.NewReader(in))
			assert.Error(t, err)
		})
	}

	_, err := ParseDraws(strings.NewReader("Z1,Z2,Z3,Z4,Z5,EZ1,EZ2\n"))
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
}

func TestEraOf(t *testing.T) {
	e, ok := EraOf(time.Time{})
	require.True(t, ok)
	assert.Equal(t, 12, e.Max)

	e, ok = EraOf(time.Date(2014, 10, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 8, e.Max)

	_, ok = EraOf(time.Date(2014, 10, 5, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestAnalyzeFrequenciesSumToOne(t *testing.T) {
	draws, err := ParseDraws(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	r, err := Analyze(draws)
	require.NoError(t, err)

	assert.Equal(t, 4, r.Draws)
	assert.Equal(t, 20, r.Main.Total)
	assert.Len(t, r.Main.Entries, 50)
	sum := 0.0
	for _, e := range r.Main.Entries {
		sum += e.RelativeFrequency
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 0.02, r.Main.Expected, 1e-12)
	assert.Equal(t, 10, r.Main.MostFrequent)

	require.Len(t, r.Euro, 3)
	assert.Equal(t, 8, r.Euro[0].Domain.Max)
	cur, ok := r.CurrentEuro()
	require.True(t, ok)
	assert.Equal(t, 2, cur.Draws)
	assert.Equal(t, 2, cur.Entries[11].AbsoluteFrequency)

	assert.True(t, r.Main.PValue >= 0 && r.Main.PValue <= 1)
	assert.Equal(t, time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC), r.To)
}

func TestEvenOddTheory(t *testing.T) {
	draws := []Draw{{Main: []int{2, 4, 6, 8, 10}, Euro: []int{1, 2}}}
	r, err := Analyze(draws)
	require.NoError(t, err)

	total := 0.0
	for _, b := range r.EvenOdd.Main {
		total += b.Theoretical
	}
	assert.InDelta(t, 1.0, total, 1e-9)
	// C(25,5)/C(50,5)
	assert.InDelta(t, 53130.0/2118760.0, r.EvenOdd.Main[5].Theoretical, 1e-12)
	assert.Equal(t, 1, r.EvenOdd.Main[5].Count)
	assert.InDelta(t, 36.0/66.0, r.EvenOdd.Euro[1].Theoretical, 1e-12)
	assert.InDelta(t, 30.0, r.Sum.Mean, 1e-12)
	assert.InDelta(t, 127.5, r.Sum.Expected, 1e-12)
}

func TestAnalyzeEmpty(t *testing.T) {
	_, err := Analyze(nil)
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
}

func TestReportCatalog(t *testing.T) {
	var draws []Draw
	for i := 0; i < 20; i++ {
		m := []int{1 + i%10, 11 + i%10, 21 + i%10, 31 + i%10, 41 + i%10}
		draws = append(draws, Draw{Main: m, Euro: []int{1 + i%6, 7 + i%6}})
	}
	r, err := Analyze(draws)
	require.NoError(t, err)

	tbl, err := r.Catalog(catalog.DefaultCounts(), time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, tbl.Main.Hot, 10)
	assert.Len(t, tbl.Euro.Cold, 3)
	assert.Equal(t, "2026-01-02", tbl.LastUpdated)
	assert.Equal(t, "20", tbl.Metadata.DataSource["draws"])
	require.NoError(t, tbl.Validate())
}

func TestReportCatalogNeedsCurrentEra(t *testing.T) {
	draws := []Draw{{Date: time.Date(2013, 1, 4, 0, 0, 0, 0, time.UTC), Main: []int{1, 2, 3, 4, 5}, Euro: []int{1, 2}}}
	r, err := Analyze(draws)
	require.NoError(t, err)
	_, err = r.Catalog(catalog.DefaultCounts(), time.Now())
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
}

func TestAuditReportRates(t *testing.T) {
	main := make([]int, spec.MainDomain.Size())
	euro := make([]int, spec.EuroDomain.Size())
	for i := range main {
		main[i] = 10
	}
	for i := range euro {
		euro[i] = 10
	}
	r := NewAuditReport(AuditSummary{Variant: "plain", Picks: 100, Attempts: 250, Balanced: 100, Relaxed: 0}, main, euro)

	assert.InDelta(t, 2.5, r.Rates.AvgAttempts, 1e-12)
	assert.Equal(t, 1.0, r.Rates.Balanced.Hat)
	assert.Equal(t, 1.0, r.Rates.Balanced.CI.Hi)
	assert.Less(t, r.Rates.Balanced.CI.Lo, 1.0)
	assert.Equal(t, 0.0, r.Rates.Relaxed.CI.Lo)
	assert.Greater(t, r.Rates.Relaxed.CI.Hi, 0.0)
	assert.InDelta(t, 0.0, r.Main.ChiSquare, 1e-12)
	assert.InDelta(t, 1.0, r.Main.PValue, 1e-9)
}

func TestProportionCICP(t *testing.T) {
	hat, ci := proportionCICP(50, 100, 0.95)
	assert.Equal(t, 0.5, hat)
	assert.InDelta(t, 0.3983, ci.Lo, 1e-3)
	assert.InDelta(t, 0.6017, ci.Hi, 1e-3)

	_, ci = proportionCICP(0, 0, 0.95)
	assert.Equal(t, CI{0, 1}, ci)
}

func TestRenderers(t *testing.T) {
	r, err := Analyze([]Draw{{Main: []int{1, 2, 3, 4, 5}, Euro: []int{1, 2}}})
	require.NoError(t, err)

	var buf bytes.Buffer
	rd, err := RenderFor("yaml")
	require.NoError(t, err)
	require.NoError(t, rd.Write(&buf, r))
	assert.Contains(t, buf.String(), "domain:")
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 1, back["draws"])

	buf.Reset()
	rd, err = RenderFor("JSON")
	require.NoError(t, err)
	require.NoError(t, rd.Write(&buf, r))
	assert.Contains(t, buf.String(), `"mostFrequent": 1`)

	_, err = RenderFor("xml")
	assert.True(t, errs.IsKind(err, errs.KindInvalidSettings))
}

func TestFlowStyleInnerLists(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"grid": [][]int{{1, 2}, {3, 4}}}
	require.NoError(t, forceReadableList(&buf, v))
	assert.Contains(t, buf.String(), "- [1, 2]")
}

func TestTables(t *testing.T) {
	r, err := Analyze([]Draw{{Main: []int{1, 2, 3, 4, 5}, Euro: []int{1, 2}}})
	require.NoError(t, err)

	var buf bytes.Buffer
	r.StdOut(&buf, 10)
	out := buf.String()
	assert.Contains(t, out, "Draw History")
	assert.Contains(t, out, strings.Repeat("█", 10))
	assert.Contains(t, out, "even/odd euro")

	s := fmtTable("T", []string{"a"}, map[string]string{"a": "1"})
	assert.True(t, strings.HasPrefix(s, "+"))
	assert.False(t, math.IsNaN(r.Main.StdCount))
}

func TestAuditStdOut(t *testing.T) {
	main := make([]int, spec.MainDomain.Size())
	euro := make([]int, spec.EuroDomain.Size())
	r := NewAuditReport(AuditSummary{Variant: "plain", Settings: "count=1"}, main, euro)
	var buf bytes.Buffer
	r.StdOut(&buf, 2*time.Second)
	assert.Contains(t, buf.String(), "pps : 0 picks/sec")
	assert.Contains(t, buf.String(), "Audit plain")
}
