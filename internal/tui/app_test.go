package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
)

type testApp struct {
	app    *App
	ed     *editor.Editor
	store  *store.Memory
	clock  *autosave.FakeClock
	bridge *Bridge
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger, _ := test.NewNullLogger()
	ta := &testApp{
		store:  store.NewMemory(),
		clock:  autosave.NewFakeClock(time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)),
		bridge: NewBridge(256),
	}
	owner := uuid.New()
	ctrl := autosave.New(ta.store, session.Session{OwnerID: owner}, ta.bridge, autosave.Options{
		Clock:         ta.clock,
		Logger:        logger,
		OnStateChange: ta.bridge.OnStateChange,
	})
	ta.ed = editor.New(ctrl, ta.bridge, editor.Options{
		Logger:   logger,
		Exporter: editor.LocalExporter{Store: ta.store, Renderer: export.New(export.WithLogger(logger)), OwnerID: owner},
	})
	ta.app = New(ta.ed, Options{Bridge: ta.bridge, ExportDir: t.TempDir()})
	return ta
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (ta *testApp) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, m := range msgs {
		_, cmd = ta.app.Update(m)
	}
	return cmd
}

func (ta *testApp) openSection(key string) {
	for i, s := range document.Sections {
		if s == key {
			ta.app.focus = focusSections
			ta.app.section = i
			ta.app.sections.Select(i)
			ta.app.cursor = 0
		}
	}
}

func TestApp_NavigateAndEditExperience(t *testing.T) {
	ta := newTestApp(t)
	ta.send(keys("j"), keys("j"))
	assert.Equal(t, document.SectionExperience, ta.app.currentSection())
	assert.Contains(t, ta.app.View(), "Nothing here yet")

	ta.send(keys("a"))
	assert.Equal(t, focusRows, ta.app.focus)
	require.Equal(t, 1, ta.ed.Experience().Len())

	ta.app.cursor = 0
	ta.send(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, inputEdit, ta.app.mode)
	ta.send(keys("Eng"))
	ta.send(keys("ineer"))
	assert.Equal(t, "Engineer", ta.ed.Experience().Entries()[0].Title)
	assert.Equal(t, autosave.Dirty, ta.app.state)

	ta.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, inputNone, ta.app.mode)
	assert.Contains(t, ta.app.View(), "#1 Title: Engineer")

	ta.clock.Advance(autosave.DefaultQuietPeriod)
	rec, err := ta.store.Get(t.Context(), ta.ed.RecordID())
	require.NoError(t, err)
	assert.Equal(t, "Engineer", rec.Content.Experience[0].Title)
}

func TestApp_ToggleCurrentClearsEndDate(t *testing.T) {
	ta := newTestApp(t)
	ta.openSection(document.SectionExperience)
	ta.send(keys("a"))
	id := ta.ed.Experience().Entries()[0].ID
	require.NoError(t, ta.ed.Experience().Update(id, document.ExperiencePatch{EndDate: document.String("2024-05")}))

	for i, r := range ta.app.rows() {
		if r.field == "current" {
			ta.app.cursor = i
		}
	}
	ta.send(tea.KeyMsg{Type: tea.KeyEnter})
	got := ta.ed.Experience().Entries()[0]
	assert.True(t, got.Current)
	assert.Empty(t, got.EndDate)
	assert.Equal(t, inputNone, ta.app.mode)
}

func TestApp_Skills(t *testing.T) {
	ta := newTestApp(t)
	ta.openSection(document.SectionSkills)

	ta.send(keys("a"), keys("Go"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, document.Skills{"Go"}, ta.ed.Skills().Value())
	assert.Equal(t, inputNone, ta.app.mode)

	ta.send(keys("a"), keys("Go"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, inputAddSkill, ta.app.mode)
	var skillErr *document.SkillError
	assert.ErrorAs(t, ta.app.err, &skillErr)
	ta.send(tea.KeyMsg{Type: tea.KeyEsc})

	ta.send(keys("a"), keys("SQL"), tea.KeyMsg{Type: tea.KeyEnter})
	ta.app.focus = focusRows
	ta.app.cursor = 0
	ta.send(keys("d"))
	assert.Equal(t, document.Skills{"SQL"}, ta.ed.Skills().Value())
	assert.Contains(t, ta.app.View(), "Popular:")
}

func TestApp_ReorderEntries(t *testing.T) {
	ta := newTestApp(t)
	ta.openSection(document.SectionEducation)
	ta.send(keys("a"), keys("a"))
	ids := ta.ed.Education().Entries().IDs()

	ta.app.cursor = len(ta.app.rows()) - 1
	ta.send(keys("K"))
	assert.Equal(t, []string{ids[1], ids[0]}, ta.ed.Education().Entries().IDs())
}

func TestApp_SummarySuggestion(t *testing.T) {
	ta := newTestApp(t)
	ta.openSection(document.SectionSummary)
	ta.send(keys("g"), keys("u"))
	assert.Equal(t, document.SampleSummaries[0], ta.ed.Summary().Value())
	assert.Contains(t, ta.app.View(), "Perfect length")
}

func TestApp_SaveAndBridge(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.ed.Personal().Set("firstName", "Ada"))

	cmd := ta.send(keys("s"))
	require.NotNil(t, cmd)
	ta.send(cmd())
	assert.Equal(t, "Saved", ta.app.status)
	assert.Equal(t, autosave.Clean, ta.app.state)
	assert.NotEqual(t, uuid.Nil, ta.ed.RecordID())

	msg := ta.bridge.Next()()
	_, isState := msg.(StateMsg)
	assert.True(t, isState)

	ta.send(NotifyMsg{Notification: session.Error("Error", "Failed to update resume")})
	assert.Contains(t, ta.app.View(), "Failed to update resume")
}

func TestApp_Export(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.ed.Personal().Set("firstName", "Ada"))

	ta.send(keys("f"), keys("f"))
	assert.Equal(t, export.FormatTXT, export.Formats()[ta.app.format])
	cmd := ta.send(keys("e"))
	require.NotNil(t, cmd)
	ta.send(cmd())
	require.NoError(t, ta.app.err)

	path := filepath.Join(ta.app.exportDir, "my-resume.txt")
	assert.Equal(t, "Exported to "+path, ta.app.status)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ada")
}

func TestApp_ValidationAndQuit(t *testing.T) {
	ta := newTestApp(t)
	ta.send(keys("v"))
	assert.Contains(t, ta.app.View(), "First name:")
	assert.NotEmpty(t, ta.ed.Validate(document.ModeStrict).For(document.SectionPersonal, ""))

	cmd := ta.send(keys("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBridge_CoalescesStates(t *testing.T) {
	b := NewBridge(1)
	b.OnStateChange(autosave.Dirty)
	b.OnStateChange(autosave.Saving)
	b.OnStateChange(autosave.Clean)
	assert.Equal(t, StateMsg{State: autosave.Clean}, b.Next()())

	b.Notify(session.Info("Resume Saved", "first"))
	b.Notify(session.Info("Resume Saved", "dropped"))
	b.OnStateChange(autosave.SaveFailed)
	assert.Equal(t, StateMsg{State: autosave.SaveFailed}, b.Next()())
	msg := b.Next()()
	require.IsType(t, NotifyMsg{}, msg)
	assert.Equal(t, "first", msg.(NotifyMsg).Notification.Description)
}
