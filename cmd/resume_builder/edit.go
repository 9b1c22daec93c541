package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/logging"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/tui"
)

var (
	editOut         string
	editQuietPeriod time.Duration
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a resume in the terminal with auto-save",
	Long: `Open the terminal editor. With an id the stored resume is loaded; without
one a new resume is started and created on the first save.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVar(&editOut, "out", ".", "Directory exports are written to")
	editCmd.Flags().DurationVar(&editQuietPeriod, "quiet-period", 0, "Auto-save delay after the last keystroke (overrides autosave.quietPeriod)")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	quiet := cfg.Autosave.QuietPeriod
	if editQuietPeriod > 0 {
		quiet = editQuietPeriod
	}

	c, err := newClient(true)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	me, err := c.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}

	// The terminal belongs to the editor; log lines would corrupt it.
	log := logging.Discard()
	bridge := tui.NewBridge(0)
	ctrl := autosave.New(c, session.Session{OwnerID: me.ID, Token: c.Token()}, bridge, autosave.Options{
		QuietPeriod:   quiet,
		Logger:        log,
		OnStateChange: bridge.OnStateChange,
	})
	ed := editor.New(ctrl, bridge, editor.Options{Exporter: c, Logger: log})

	if len(args) == 1 {
		id, err := parseResumeID(args[0])
		if err != nil {
			return err
		}
		rec, err := c.Get(ctx, id)
		if err != nil {
			return err
		}
		ed.Load(rec)
	}

	p := tea.NewProgram(tui.New(ed, tui.Options{Bridge: bridge, ExportDir: editOut}), tea.WithAltScreen())
	_, runErr := p.Run()

	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := ed.Close(closeCtx); err != nil {
		return fmt.Errorf("failed to save on exit: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("editor failed: %w", runErr)
	}
	if id := ed.RecordID(); id != uuid.Nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", id)
	}
	return nil
}
