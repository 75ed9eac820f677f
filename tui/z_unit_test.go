package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/picklab"
	"github.com/zintix-labs/picklab/sdk/core"
	"github.com/zintix-labs/picklab/spec"
)

func newModel(t *testing.T) (*Model, *picklab.Session) {
	t.Helper()
	lab, err := picklab.New(context.Background(), core.Default(), nil, nil)
	require.NoError(t, err)
	sess, err := lab.NewSessionWithSeed(spec.DefaultSettings(), 42)
	require.NoError(t, err)
	return NewModel(sess, t.TempDir()), sess
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, keys ...string) {
	for _, k := range keys {
		m.Update(key(k))
	}
}

func TestGenerateFromKeys(t *testing.T) {
	m, sess := newModel(t)
	send(m, "down", "right", "right", "g")

	assert.Equal(t, 3, sess.Settings().Count)
	require.Len(t, m.picks, 3)
	assert.Empty(t, m.errMsg)
	assert.Contains(t, m.View(), m.picks[0].Main.String())
}

func TestVariantCycleChangesFields(t *testing.T) {
	m, sess := newModel(t)
	assert.Len(t, m.fields(), 4)

	send(m, "right")
	assert.Equal(t, spec.VariantCustom, sess.Settings().Variant)
	assert.Contains(t, m.fields(), fieldPresetMain)

	send(m, "right")
	assert.Equal(t, spec.VariantFrequency, sess.Settings().Variant)
	assert.Contains(t, m.fields(), fieldWeighted)
	assert.Contains(t, m.View(), "STRUCTURED PICK")
}

func TestPresetInput(t *testing.T) {
	m, sess := newModel(t)
	send(m, "right")
	for range 4 {
		send(m, "down")
	}
	require.Equal(t, fieldPresetMain, m.current())

	send(m, "enter", "7, 3x", "backspace", "3", "enter")
	assert.False(t, m.editing)
	assert.Equal(t, []int{3, 7}, sess.Settings().PresetMain)

	send(m, "g")
	require.Len(t, m.picks, 1)
	assert.True(t, m.picks[0].Main.Contains(3))
	assert.True(t, m.picks[0].Main.Contains(7))
}

func TestPoolStepSkipsUndersized(t *testing.T) {
	m, sess := newModel(t)
	send(m, "right", "right")
	for range 5 {
		send(m, "down")
	}
	require.Equal(t, fieldPoolMain, m.current())

	send(m, "right")
	assert.Equal(t, 5, sess.Settings().PoolMain)
	send(m, "right")
	assert.Equal(t, 6, sess.Settings().PoolMain)
	send(m, "-", "-")
	assert.Equal(t, 0, sess.Settings().PoolMain)
	assert.Empty(t, m.errMsg)

	send(m, "down", "right")
	assert.Equal(t, 2, sess.Settings().PoolEuro)
	send(m, "g")
	require.Len(t, m.picks, 1)
}

func TestInvalidCountShowsError(t *testing.T) {
	m, sess := newModel(t)
	send(m, "down", "-")
	assert.Equal(t, 1, sess.Settings().Count)
	assert.NotEmpty(t, m.errMsg)
}

func TestExport(t *testing.T) {
	m, _ := newModel(t)
	send(m, "e")
	assert.NotEmpty(t, m.errMsg)

	send(m, "g", "e")
	require.Empty(t, m.errMsg)
	path := strings.TrimPrefix(m.status, "exported ")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RANDOM PICK")
	assert.Equal(t, m.exportDir, filepath.Dir(path))
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
