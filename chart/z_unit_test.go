package chart

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/picklab/errs"
	"github.com/zintix-labs/picklab/stats"
)

const sampleCSV = `Datum,Z1,Z2,Z3,Z4,Z5,EZ1,EZ2
2023-06-02,2,4,6,8,10,11,12
2024-02-16,50,41,32,3,14,1,12
2024-02-23,7,19,22,38,44,5,6
`

func sampleReport(t *testing.T) *stats.FrequencyReport {
	t.Helper()
	draws, err := stats.ParseDraws(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	rep, err := stats.Analyze(draws)
	require.NoError(t, err)
	return rep
}

func TestRenderDashboard(t *testing.T) {
	rep := sampleReport(t)
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, rep, nil))

	html := buf.String()
	assert.Contains(t, html, pageTitle)
	assert.Contains(t, html, "Main Even/Odd")
	assert.Contains(t, html, "Ranked Counts")
	assert.Contains(t, html, "Expected")
}

func TestRenderNothing(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, nil, nil)
	assert.True(t, errs.IsKind(err, errs.KindEmptyResult))
	assert.Zero(t, buf.Len())
}

func TestFrequencyBarCoversDomain(t *testing.T) {
	rep := sampleReport(t)
	bar := FrequencyBar(rep.Main)
	require.Len(t, bar.MultiSeries, 1)
	assert.Len(t, bar.MultiSeries[0].Data, 50)
}

func TestEvenOddBarSeries(t *testing.T) {
	rep := sampleReport(t)
	bar := EvenOddBar("Euro Even/Odd", rep.EvenOdd.Euro)
	require.Len(t, bar.MultiSeries, 2)
	assert.Equal(t, "Empirical", bar.MultiSeries[0].Name)
	assert.Equal(t, "Theoretical", bar.MultiSeries[1].Name)
}
