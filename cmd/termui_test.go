package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/ygunayer/mangapdf/internal/config"
	"github.com/ygunayer/mangapdf/internal/pipeline"
)

func press(m uiModel, keys ...tea.KeyMsg) uiModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(uiModel)
	}
	return m
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel() uiModel {
	return initialModel(&config.Config{Name: "Foo", Root: "/series", Jobs: 2})
}

func TestMenuSelectsAction(t *testing.T) {
	m := press(testModel(), keyDown, keyDown, keyEnter)
	assert.Equal(t, pipeline.ActionVolumes, m.action)

	m = press(testModel(), keyDown, keyUp, keyUp, keyEnter)
	assert.Equal(t, pipeline.ActionCovers, m.action)
}

func TestMenuNumberKeys(t *testing.T) {
	assert.Equal(t, pipeline.ActionChapters, press(testModel(), runes("2")).action)
	assert.Equal(t, pipeline.ActionAll, press(testModel(), runes("4")).action)
	assert.Equal(t, pipeline.Action(""), press(testModel(), runes("0")).action)
}

func TestMenuQuitEntry(t *testing.T) {
	m := testModel()
	for i := 0; i < 10; i++ {
		m = press(m, keyDown)
	}
	assert.Equal(t, m.quitIndex(), m.cursor)

	_, cmd := m.Update(keyEnter)
	assert.NotNil(t, cmd)
}

func TestSettings(t *testing.T) {
	m := testModel()
	assert.Equal(t, 2, m.jobs)
	assert.Equal(t, config.CoverPolicyCrop, m.coverPolicy)

	// open settings, edit jobs
	for i := 0; i < m.settingsIndex(); i++ {
		m = press(m, keyDown)
	}
	m = press(m, keyEnter)
	assert.True(t, m.settingsMode)

	m = press(m, keyEnter, tea.KeyMsg{Type: tea.KeyBackspace}, runes("6"), keyEnter)
	assert.Equal(t, 6, m.jobs)

	// invalid values are ignored
	m = press(m, keyEnter, tea.KeyMsg{Type: tea.KeyBackspace}, runes("x"), keyEnter)
	assert.Equal(t, 6, m.jobs)

	// toggle cover policy
	m = press(m, keyDown, keyEnter)
	assert.Equal(t, config.CoverPolicyLetterbox, m.coverPolicy)
	m = press(m, keyEnter)
	assert.Equal(t, config.CoverPolicyCrop, m.coverPolicy)

	m = press(m, keyEsc)
	assert.False(t, m.settingsMode)
	assert.Equal(t, pipeline.Action(""), m.action)
}

func TestViewListsChoices(t *testing.T) {
	view := testModel().View()
	for _, c := range menuChoices {
		assert.Contains(t, view, c.title)
	}
	assert.Contains(t, view, "Foo")
	assert.Contains(t, view, logo)
	assert.Contains(t, view, logoCaption)
}
