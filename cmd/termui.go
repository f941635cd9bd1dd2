package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/ygunayer/mangapdf/internal/config"
	"github.com/ygunayer/mangapdf/internal/pipeline"
)

type menuChoice struct {
	title       string
	description string
	action      pipeline.Action
}

var menuChoices = []menuChoice{
	{
		title:       "Resize the covers",
		description: "resizes the cover of each volume to the configured size",
		action:      pipeline.ActionCovers,
	},
	{
		title:       "Export chapters to PDF",
		description: "collects all images from each chapter folder and exports them to separate pdf files",
		action:      pipeline.ActionChapters,
	},
	{
		title:       "Export volumes to PDF",
		description: "collects all chapters of each volume based on the dictionary and exports them to separate pdf files",
		action:      pipeline.ActionVolumes,
	},
	{
		title:       "Export everything",
		description: "exports the chapters, then the volumes",
		action:      pipeline.ActionAll,
	},
}

const (
	settingJobs = iota
	settingCoverPolicy
	settingBack
)

// uiModel is the state of the menu between two actions
type uiModel struct {
	seriesName string
	root       string

	cursor int
	action pipeline.Action

	jobs        int
	coverPolicy string

	settingsMode   bool
	settingCursor  int
	settingOptions []string
	editingValue   bool
	editValue      string
}

func initialModel(cfg *config.Config) uiModel {
	coverPolicy := cfg.CoverPolicy
	if coverPolicy == "" {
		coverPolicy = config.CoverPolicyCrop
	}

	return uiModel{
		seriesName:  cfg.Name,
		root:        cfg.Root,
		jobs:        max(cfg.Jobs, 1),
		coverPolicy: coverPolicy,
		settingOptions: []string{
			"Parallel Exports",
			"Cover Policy",
			"Back to Main Menu",
		},
	}
}

// menu entries after the actions
func (m uiModel) settingsIndex() int { return len(menuChoices) }
func (m uiModel) quitIndex() int     { return len(menuChoices) + 1 }

const logo = `
┳┳┓┏┓┳┓┏┓┏┓  ┏┓┏┓┏┓┏┓┏┓┳┓┏┳┓┏┓┳┓
┃┃┃┣┫┃┃┃┓┣┫  ┣  ┃┃ ┃┃┃┃┣┫ ┃ ┣ ┣┫
┛ ┗┛┗┛┗┗┛┛┗  ┗┛┗┛┗┛┣┛┗┛┛┗ ┻ ┗┛┛┗`

const logoCaption = "for Houdoku"

const jobDoneBanner = `
                        job done!
        ⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⢀⡴⠞⢳⠀⠀⠀⠀⠀
        ⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⡔⠋⠀⢰⠎⠀⠀⠀⠀⠀
        ⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⣼⢆⣤⡞⠃⠀⠀⠀⠀⠀⠀
        ⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⣼⢠⠋⠁⠀⠀⠀⠀⠀⠀⠀⠀
        ⠀⠀⠀⠀⢀⣀⣾⢳⠀⠀⠀⠀⢸⢠⠃⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀
        ⣀⡤⠴⠊⠉⠀⠀⠈⠳⡀⠀⠀⠘⢎⠢⣀⣀⣀⠀⠀⠀⠀⠀⠀⠀
        ⠳⣄⠀⠀⡠⡤⡀⠀⠘⣇⡀⠀⠀⠀⠉⠓⠒⠺⠭⢵⣦⡀⠀⠀⠀
        ⠀⢹⡆⠀⢷⡇⠁⠀⠀⣸⠇⠀⠀⠀⠀⠀⢠⢤⠀⠀⠘⢷⣆⡀⠀
        ⠀⠀⠘⠒⢤⡄⠖⢾⣭⣤⣄⠀⡔⢢⠀⡀⠎⣸⠀⠀⠀⠀⠹⣿⡀
        ⠀⠀⢀⡤⠜⠃⠀⠀⠘⠛⣿⢸⠀⡼⢠⠃⣤⡟⠀⠀⠀⠀⠀⣿⡇
        ⠀⠀⠸⠶⠖⢏⠀⠀⢀⡤⠤⠇⣴⠏⡾⢱⡏⠁⠀⠀⠀⠀⢠⣿⠃
        ⠀⠀⠀⠀⠀⠈⣇⡀⠿⠀⠀⠀⡽⣰⢶⡼⠇⠀⠀⠀⠀⣠⣿⠟⠀
        ⠀⠀⠀⠀⠀⠀⠈⠳⢤⣀⡶⠤⣷⣅⡀⠀⠀⠀⣀⡠⢔⠕⠁⠀⠀
        ⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠀⠈⠙⠫⠿⠿⠿⠛⠋⠁⠀⠀⠀⠀
`

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A49FA5"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#A49FA5")).
				PaddingLeft(4).
				Width(60)

	settingLabelStyle = lipgloss.NewStyle().
				Width(20).
				Foreground(lipgloss.Color("#7D56F4"))

	settingValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205"))
)

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.settingsMode {
		return m.updateSettings(keyMsg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "q", "esc", "0":
		m.action = ""
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.quitIndex() {
			m.cursor++
		}
	case "1", "2", "3", "4":
		// the number keys of the classic menu
		index, _ := strconv.Atoi(keyMsg.String())
		m.action = menuChoices[index-1].action
		return m, tea.Quit
	case "enter":
		switch {
		case m.cursor < len(menuChoices):
			m.action = menuChoices[m.cursor].action
			return m, tea.Quit
		case m.cursor == m.settingsIndex():
			m.settingsMode = true
			m.settingCursor = 0
		default:
			m.action = ""
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m uiModel) updateSettings(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "ctrl+c":
		m.action = ""
		return m, tea.Quit
	case "esc", "q":
		if m.editingValue {
			m.editingValue = false
		} else {
			m.settingsMode = false
		}
	case "up", "k":
		if !m.editingValue && m.settingCursor > 0 {
			m.settingCursor--
		}
	case "down", "j":
		if !m.editingValue && m.settingCursor < len(m.settingOptions)-1 {
			m.settingCursor++
		}
	case "enter":
		if m.editingValue {
			// only the number of jobs is typed in
			val, err := strconv.Atoi(m.editValue)
			if err == nil && val > 0 {
				m.jobs = val
			}
			m.editingValue = false
			return m, nil
		}

		switch m.settingCursor {
		case settingJobs:
			m.editValue = strconv.Itoa(m.jobs)
			m.editingValue = true
		case settingCoverPolicy:
			if m.coverPolicy == config.CoverPolicyCrop {
				m.coverPolicy = config.CoverPolicyLetterbox
			} else {
				m.coverPolicy = config.CoverPolicyCrop
			}
		case settingBack:
			m.settingsMode = false
		}
	case "backspace":
		if m.editingValue && len(m.editValue) > 0 {
			m.editValue = m.editValue[:len(m.editValue)-1]
		}
	default:
		if m.editingValue && keyMsg.Type == tea.KeyRunes {
			m.editValue += string(keyMsg.Runes)
		}
	}

	return m, nil
}

func (m uiModel) View() string {
	if m.settingsMode {
		return m.settingsView()
	}

	s := logo + "\n" + infoStyle.Render(fmt.Sprintf("%21s", logoCaption)) + "\n\n"
	s += titleStyle.Render("Manga Exporter") + "\n"
	s += infoStyle.Render(fmt.Sprintf("%s (%s)", m.seriesName, m.root)) + "\n\n"
	s += "Select an option:\n\n"

	entries := make([]string, 0, m.quitIndex()+1)
	for i, choice := range menuChoices {
		entries = append(entries, fmt.Sprintf("%d - %s", i+1, choice.title))
	}
	entries = append(entries, "Settings", "0 - Quit")

	for i, entry := range entries {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
			entry = selectedStyle.Render(entry)
		}
		s += fmt.Sprintf("%s %s\n", cursor, entry)
		if i < len(menuChoices) {
			s += descriptionStyle.Render(menuChoices[i].description) + "\n"
		}
	}

	s += "\n" + infoStyle.Render("Press q to quit, arrow keys to navigate, enter to select")
	return s
}

func (m uiModel) settingsView() string {
	s := titleStyle.Render("Manga Exporter - Settings") + "\n\n"

	for i, option := range m.settingOptions {
		cursor := " "
		if m.settingCursor == i {
			cursor = ">"
			option = selectedStyle.Render(option)
		}

		switch i {
		case settingJobs:
			s += fmt.Sprintf("%s %s", cursor, settingLabelStyle.Render(option))
			if m.editingValue {
				s += fmt.Sprintf(": %s_\n", m.editValue)
			} else {
				s += fmt.Sprintf(": %s\n", settingValueStyle.Render(strconv.Itoa(m.jobs)))
			}
		case settingCoverPolicy:
			s += fmt.Sprintf("%s %s: %s\n", cursor, settingLabelStyle.Render(option), settingValueStyle.Render(m.coverPolicy))
		default:
			s += fmt.Sprintf("%s %s\n", cursor, option)
		}
	}

	s += "\n" + infoStyle.Render("Press Enter to edit a setting, Esc to go back")
	return s
}

// RunTerminalUI shows the menu until the operator quits. Exporting everything
// ends the session.
func RunTerminalUI(ctx context.Context, p *pipeline.Pipeline, console *consoleReporter, reportPath string) {
	model := initialModel(p.Config)

	for ctx.Err() == nil {
		program := tea.NewProgram(model)
		final, err := program.Run()
		if err != nil {
			fmt.Printf("Error running UI: %v\n", err)
			os.Exit(1)
		}

		model = final.(uiModel)
		if model.action == "" {
			return
		}

		p.Config.Jobs = model.jobs
		if err := p.SetCoverPolicy(model.coverPolicy); err != nil {
			color.Red("ERROR: %v", err)
			return
		}

		if _, err := runAction(ctx, p, console, model.action, reportPath); err != nil {
			color.Red("ERROR: %v", err)
		}
		jobDone()

		if model.action == pipeline.ActionAll {
			return
		}
		model.action = ""
	}
}

func jobDone() {
	color.New(color.FgBlue).Print(jobDoneBanner)
}
