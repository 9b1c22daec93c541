package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/store"
)

var (
	createTitle    string
	createTemplate string
	exportFormat   string
	exportOut      string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your resumes with dashboard stats",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an empty draft resume and print its id",
	Args:  cobra.NoArgs,
	RunE:  runCreate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a resume to a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", store.DefaultTitle, "Resume title")
	createCmd.Flags().StringVar(&createTemplate, "template", store.DefaultTemplate, "Template label")

	exportCmd.Flags().StringVar(&exportFormat, "format", string(export.FormatPDF), "Format: pdf, docx, txt, json or tex")
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "Directory to write the file to")

	rootCmd.AddCommand(listCmd, createCmd, deleteCmd, exportCmd)
}

func parseResumeID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid resume id %q", s)
	}
	return id, nil
}

func runList(cmd *cobra.Command, _ []string) error {
	c, err := newClient(true)
	if err != nil {
		return err
	}
	dash, err := c.Dashboard(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s: %d resumes, %d downloads, %d completed, %d in progress\n\n",
		dash.User.Name, dash.Stats.Total, dash.Stats.Downloads, dash.Stats.Completed, dash.Stats.InProgress)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tTEMPLATE\tSTATUS\tDOWNLOADS\tUPDATED")
	for _, r := range dash.Resumes {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.Title, r.Template, r.Status, r.Downloads, r.UpdatedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func runCreate(cmd *cobra.Command, _ []string) error {
	c, err := newClient(true)
	if err != nil {
		return err
	}
	rec, err := c.Create(cmd.Context(), uuid.Nil, createTitle, createTemplate)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseResumeID(args[0])
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}
	if err := c.Delete(cmd.Context(), id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	id, err := parseResumeID(args[0])
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}
	artifact, err := c.Export(cmd.Context(), id, format)
	if err != nil {
		return err
	}
	path := filepath.Join(exportOut, filepath.Base(artifact.Filename))
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	if artifact.Key != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "archived as %s\n", artifact.Key)
	}
	return nil
}
