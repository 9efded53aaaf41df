package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Address truncation

func TestTruncateAddrLong(t *testing.T) {
	got := TruncateAddr("0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917")
	assert.Equal(t, "0x75A9…e917", got)
}

func TestTruncateAddrShort(t *testing.T) {
	assert.Equal(t, "0x1234", TruncateAddr("0x1234"))
}

// ----------------------------------------------------------------------------
// Table rendering

func TestTableRendersAllRows(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Symbol", Width: 8}, {Title: "Decimals", Width: 8}})
	tbl.AddRow(Row{"WMON", "18"})
	tbl.AddRow(Row{"USDC", "6"})

	out := tbl.Render()
	assert.Contains(t, out, "WMON")
	assert.Contains(t, out, "USDC")
	assert.Contains(t, out, "Symbol")
	assert.Equal(t, 4, strings.Count(out, "\n")) // header + divider + 2 rows
}

func TestTableTruncatesWideCells(t *testing.T) {
	tbl := NewTable([]Column{{Title: "Addr", Width: 6}})
	tbl.AddRow(Row{"0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"})

	out := tbl.Render()
	assert.Contains(t, out, "0x760A")
	assert.NotContains(t, out, "0x760AfE8")
}

func TestKeyValueBlock(t *testing.T) {
	out := KeyValueBlock("Swap", [][2]string{{"Sell", "10 WMON"}, {"Buy", "25 USDC"}})
	assert.Contains(t, out, "Sell")
	assert.Contains(t, out, "10 WMON")
	assert.Contains(t, out, "Swap")
}

// ----------------------------------------------------------------------------
// Progress model

func progressSteps() []Step {
	return []Step{
		{Key: "quote", Label: "Fetching quote", Status: StepActive},
		{Key: "sign", Label: "Signing permit"},
		{Key: "submit", Label: "Submitting"},
	}
}

func TestProgressStepUpdate(t *testing.T) {
	m := NewProgress("Swap", progressSteps(), make(chan tea.Msg, 1))

	updated, _ := m.Update(StepMsg{Key: "quote", Status: StepDone})
	pm, ok := updated.(ProgressModel)
	require.True(t, ok)
	assert.Equal(t, StepDone, pm.Steps[0].Status)
	assert.Equal(t, StepPending, pm.Steps[1].Status)
}

func TestProgressDoneQuits(t *testing.T) {
	m := NewProgress("Swap", progressSteps(), make(chan tea.Msg, 1))

	updated, cmd := m.Update(FlowDoneMsg{})
	pm := updated.(ProgressModel)
	assert.True(t, pm.Quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestProgressDoneWithError(t *testing.T) {
	m := NewProgress("Swap", progressSteps(), make(chan tea.Msg, 1))

	updated, _ := m.Update(FlowDoneMsg{Err: errors.New("transaction reverted")})
	pm := updated.(ProgressModel)
	assert.Contains(t, pm.View(), "transaction reverted")
}

func TestProgressViewShowsStates(t *testing.T) {
	m := NewProgress("Swap", []Step{
		{Key: "a", Label: "Done step", Status: StepDone},
		{Key: "b", Label: "Active step", Status: StepActive},
		{Key: "c", Label: "Failed step", Status: StepFailed},
		{Key: "d", Label: "Pending step"},
	}, make(chan tea.Msg, 1))

	out := m.View()
	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "Done step")
	assert.Contains(t, out, "Pending step")
}

func TestProgressQuitKey(t *testing.T) {
	m := NewProgress("Swap", progressSteps(), make(chan tea.Msg, 1))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	pm := updated.(ProgressModel)
	assert.True(t, pm.Quitting)
	require.NotNil(t, cmd)
}
