// Package tui is the terminal resume editor. Every keystroke in a field is
// committed to the document; the auto-save controller absorbs the bursts.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/session"
)

const defaultOpTimeout = 30 * time.Second

type focus int

const (
	focusSections focus = iota
	focusRows
)

type inputMode int

const (
	inputNone inputMode = iota
	inputEdit
	inputAddSkill
)

type savedMsg struct {
	asNew bool
	err   error
}

type exportedMsg struct {
	path string
	err  error
}

type sectionItem struct {
	key   string
	title string
}

func (i sectionItem) Title() string       { return i.title }
func (i sectionItem) Description() string { return i.key }
func (i sectionItem) FilterValue() string { return i.title }

// Options configures the App.
type Options struct {
	// Bridge delivers controller state changes and notifications. It should
	// also be the controller's sink and state observer.
	Bridge *Bridge
	// ExportDir receives exported files. Empty means the working directory.
	ExportDir string
	// OpTimeout bounds save and export calls.
	OpTimeout time.Duration
}

// App is the bubbletea model of the editor.
type App struct {
	ed        *editor.Editor
	bridge    *Bridge
	exportDir string
	timeout   time.Duration

	sections list.Model
	input    textinput.Model
	focus    focus
	mode     inputMode
	editRow  row
	section  int
	cursor   int
	format   int

	showValidation bool
	state          autosave.State
	note           *session.Notification
	status         string
	err            error

	width  int
	height int
}

// New returns an App editing ed.
func New(ed *editor.Editor, opts Options) *App {
	items := make([]list.Item, len(document.Sections))
	for i, key := range document.Sections {
		items[i] = sectionItem{key: key, title: sectionNames[key]}
	}
	sections := list.New(items, list.NewDefaultDelegate(), 28, 20)
	sections.Title = "Sections"
	sections.SetShowStatusBar(false)
	sections.SetFilteringEnabled(false)
	sections.SetShowHelp(false)

	input := textinput.New()
	input.CharLimit = 2000
	input.Prompt = "> "

	a := &App{
		ed:        ed,
		bridge:    opts.Bridge,
		exportDir: opts.ExportDir,
		timeout:   opts.OpTimeout,
		sections:  sections,
		input:     input,
		state:     ed.State(),
	}
	if a.timeout <= 0 {
		a.timeout = defaultOpTimeout
	}
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.bridge == nil {
		return nil
	}
	return a.bridge.Next()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.sections.SetSize(28, max(8, msg.Height-10))
		a.input.Width = max(20, msg.Width-44)
		return a, nil

	case StateMsg:
		a.state = msg.State
		return a, a.next()

	case NotifyMsg:
		n := msg.Notification
		a.note = &n
		return a, a.next()

	case savedMsg:
		a.state = a.ed.State()
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.status = "Saved"
		if msg.asNew {
			a.status = "Saved as a new resume"
		}
		return a, nil

	case exportedMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.err = nil
		a.status = "Exported to " + msg.path
		return a, nil

	case tea.KeyMsg:
		if a.mode != inputNone {
			return a, a.handleInput(msg)
		}
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) next() tea.Cmd {
	if a.bridge == nil {
		return nil
	}
	return a.bridge.Next()
}

func (a *App) currentSection() string {
	return document.Sections[a.section]
}

func (a *App) rows() []row {
	return rowsFor(a.ed, a.currentSection())
}

func (a *App) currentRow() (row, bool) {
	rows := a.rows()
	if len(rows) == 0 {
		return row{}, false
	}
	a.cursor = min(max(a.cursor, 0), len(rows)-1)
	return rows[a.cursor], true
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = nil
	section := a.currentSection()
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		if a.focus == focusSections {
			a.focus = focusRows
		} else {
			a.focus = focusSections
		}
	case "up", "k":
		a.move(-1)
	case "down", "j":
		a.move(1)
	case "enter":
		if a.focus == focusSections {
			a.focus = focusRows
			return a, nil
		}
		return a, a.activateRow()
	case "a":
		if section == document.SectionSkills {
			a.beginInput(inputAddSkill, row{field: "skill"}, "")
			return a, textinput.Blink
		}
		if addEntry(a.ed, section) {
			a.focus = focusRows
			a.cursor = len(a.rows()) - 1
		}
	case "d":
		if r, ok := a.currentRow(); ok && a.focus == focusRows {
			removeEntry(a.ed, section, r)
			a.cursor = 0
		}
	case "K", "J":
		if r, ok := a.currentRow(); ok && a.focus == focusRows {
			delta := -1
			if msg.String() == "J" {
				delta = 1
			}
			if err := moveEntry(a.ed, section, r, delta); err != nil {
				a.err = err
			}
		}
	case "g":
		r, _ := a.currentRow()
		requestSuggestion(a.ed, section, r)
	case "u":
		if s := a.ed.Suggestions(); len(s) > 0 && section == document.SectionSummary {
			a.ed.Summary().Set(s[0])
		}
	case "s", "ctrl+s":
		return a, a.saveCmd(false)
	case "n":
		if a.ed.Orphaned() {
			return a, a.saveCmd(true)
		}
	case "f":
		a.format = (a.format + 1) % len(export.Formats())
	case "e":
		return a, a.exportCmd(export.Formats()[a.format])
	case "v":
		a.showValidation = !a.showValidation
	}
	a.state = a.ed.State()
	return a, nil
}

func (a *App) move(delta int) {
	if a.focus == focusSections {
		a.section = min(max(a.section+delta, 0), len(document.Sections)-1)
		a.sections.Select(a.section)
		a.cursor = 0
		return
	}
	if n := len(a.rows()); n > 0 {
		a.cursor = min(max(a.cursor+delta, 0), n-1)
	}
}

func (a *App) activateRow() tea.Cmd {
	r, ok := a.currentRow()
	if !ok {
		return nil
	}
	section := a.currentSection()
	if r.toggle {
		if err := toggleRow(a.ed, section, r); err != nil {
			a.err = err
		}
		a.state = a.ed.State()
		return nil
	}
	if section == document.SectionSkills {
		return nil
	}
	a.beginInput(inputEdit, r, r.value)
	return textinput.Blink
}

func (a *App) beginInput(mode inputMode, r row, value string) {
	a.mode = mode
	a.editRow = r
	a.input.SetValue(value)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) endInput() {
	a.mode = inputNone
	a.input.Blur()
	a.input.SetValue("")
}

func (a *App) handleInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		a.endInput()
		return nil
	case "enter":
		if a.mode == inputAddSkill {
			if err := a.ed.Skills().Add(a.input.Value()); err != nil {
				a.err = err
				return nil
			}
		}
		a.endInput()
		a.state = a.ed.State()
		return nil
	case "ctrl+c":
		return tea.Quit
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.mode == inputEdit && a.input.Value() != before {
		if err := commitText(a.ed, a.currentSection(), a.editRow, a.input.Value()); err != nil {
			a.err = err
		}
		a.state = a.ed.State()
	}
	return cmd
}

func (a *App) saveCmd(asNew bool) tea.Cmd {
	ed, timeout := a.ed, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if asNew {
			return savedMsg{asNew: true, err: ed.SaveAsNew(ctx)}
		}
		return savedMsg{err: ed.Save(ctx)}
	}
}

func (a *App) exportCmd(format export.Format) tea.Cmd {
	ed, timeout, dir := a.ed, a.timeout, a.exportDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		artifact, err := ed.Export(ctx, format)
		if err != nil {
			return exportedMsg{err: err}
		}
		path := filepath.Join(dir, artifact.Filename)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return exportedMsg{err: fmt.Errorf("failed to write %s: %w", path, err)}
		}
		return exportedMsg{path: path}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	header := headerStyle.Render(fmt.Sprintf("RESUME BUILDER · %s · %s", a.ed.Title(), a.ed.Template()))

	left := panelStyle
	right := panelStyle
	if a.focus == focusSections {
		left = focusedPanelStyle
	} else {
		right = focusedPanelStyle
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		left.Render(a.sections.View()),
		right.Width(max(40, a.width-36)).Render(a.renderRows()),
	)

	parts := []string{header, body}
	if extra := a.renderExtras(); extra != "" {
		parts = append(parts, extra)
	}
	parts = append(parts, a.renderStatus(), hintStyle.Render(a.hints()))
	return strings.Join(parts, "\n")
}

func (a *App) renderRows() string {
	section := a.currentSection()
	rows := a.rows()
	title := selectedStyle.Render(sectionNames[section])
	if len(rows) == 0 {
		empty := "Nothing here yet. Press a to add."
		return title + "\n" + hintStyle.Render(empty)
	}

	var problems document.ValidationErrors
	if a.showValidation {
		problems = a.ed.Validate(document.ModeStrict)
	}

	lines := []string{title}
	for i, r := range rows {
		text := r.String()
		if a.mode == inputEdit && i == a.cursor {
			text = r.label + ": " + a.input.View()
		}
		style := normalStyle
		if i == a.cursor && a.focus == focusRows {
			style = selectedStyle
		}
		line := style.Render(text)
		for _, fe := range problems.For(section, r.entryID) {
			if fe.Field == r.field {
				line += " " + problemStyle.Render(fe.Message)
			}
		}
		lines = append(lines, line)
	}
	if a.mode == inputAddSkill {
		lines = append(lines, "New skill "+a.input.View())
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderExtras() string {
	var lines []string
	switch a.currentSection() {
	case document.SectionSummary:
		g := a.ed.Summary().Guidance()
		style := infoStyle
		if !g.OK {
			style = problemStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("%d words · %s", g.Words, g.Message)))
	case document.SectionSkills:
		if popular := a.ed.Skills().Suggestions(""); len(popular) > 0 {
			lines = append(lines, hintStyle.Render("Popular: "+strings.Join(popular, ", ")))
		}
	}
	if s := a.ed.Suggestions(); len(s) > 0 {
		lines = append(lines, hintStyle.Render("Suggestion (u to use): "+s[0]))
	}
	return strings.Join(lines, "\n")
}

func stateLabel(s autosave.State, orphaned bool) string {
	switch {
	case orphaned:
		return "● deleted elsewhere, press n to save as new"
	case s == autosave.Clean:
		return "● saved"
	case s == autosave.Dirty:
		return "● unsaved changes"
	case s == autosave.Saving:
		return "● saving…"
	default:
		return "● save failed"
	}
}

func (a *App) renderStatus() string {
	parts := []string{stateStyle(a.state).Render(stateLabel(a.state, a.ed.Orphaned()))}
	parts = append(parts, hintStyle.Render("export: "+export.Formats()[a.format].Label()))
	if a.note != nil {
		parts = append(parts, notificationStyle(*a.note).Render(a.note.Title+": "+a.note.Description))
	}
	if a.status != "" {
		parts = append(parts, infoStyle.Render(a.status))
	}
	if a.err != nil {
		parts = append(parts, problemStyle.Render(a.err.Error()))
	}
	return strings.Join(parts, "  ")
}

func (a *App) hints() string {
	if a.mode != inputNone {
		return "enter done · esc cancel"
	}
	return "tab switch · ↑/↓ move · enter edit · a add · d delete · K/J reorder · g suggest · s save · f format · e export · v validate · q quit"
}
