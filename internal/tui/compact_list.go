/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coffeeshop/cli/pkg/styles"
)

var listStyle = lipgloss.NewStyle().Width(70)

// Item in our compact list.
type compactListItem struct {
	index       int
	name        string
	description string
}

func (item compactListItem) Title() string {
	return fmt.Sprintf("%s %s", item.name, styles.RenderMuted(item.description))
}

func (item compactListItem) FilterValue() string { return item.name }

// compactListDelegate renders each item on a single line.
type compactListDelegate struct{}

func (d compactListDelegate) Height() int                               { return 1 }
func (d compactListDelegate) Spacing() int                              { return 0 }
func (d compactListDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d compactListDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(compactListItem)
	if !ok {
		return
	}

	title := item.Title()
	if index == m.Index() {
		fmt.Fprint(w, lipgloss.NewStyle().Foreground(styles.ColorOrange).Render("▸ "+title))
	} else {
		fmt.Fprint(w, "  "+title)
	}
}

// Model for the compact selection list.
type compactListModel struct {
	title    string
	model    list.Model
	selected *compactListItem
	quitting bool
}

func newCompactListModel(title string, model list.Model) compactListModel {
	return compactListModel{
		title: title,
		model: model,
	}
}

func (m compactListModel) Init() tea.Cmd {
	return nil
}

func (m compactListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.model.SelectedItem().(compactListItem); ok {
				m.selected = &item
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.model, cmd = m.model.Update(msg)
	return m, cmd
}

func (m compactListModel) View() string {
	content := "\n" + styles.RenderTitle(m.title) + "\n\n"
	if !m.quitting {
		content += listStyle.Render(m.model.View())
	}
	return content
}

func chooseFromList(title string, items []list.Item) (int, error) {
	// Fixed size, the list is short.
	model := list.New(items, compactListDelegate{}, 80, len(items)+2)
	model.SetShowTitle(false)
	model.SetFilteringEnabled(false)
	model.SetShowStatusBar(false)
	model.SetShowHelp(false)
	model.SetShowPagination(false)

	program := tea.NewProgram(newCompactListModel(title, model))
	finalModel, err := program.Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run selection list: %w", err)
	}

	selected := finalModel.(compactListModel).selected
	if selected == nil {
		return -1, fmt.Errorf("no item was selected")
	}
	return selected.index, nil
}
