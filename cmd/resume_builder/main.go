// Package main is the resume builder CLI: it serves the REST API, applies
// migrations and drives the API as a client, including the terminal editor.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/client"
)

var (
	configPath string
	apiURL     string
	apiToken   string
)

var rootCmd = &cobra.Command{
	Use:           "resume_builder",
	Short:         "Resume builder API server and client",
	Long:          "Resume builder stores structured resumes, edits them with auto-save and exports them as PDF, Word, text, JSON or LaTeX.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default $RESUME_API or "+client.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "Bearer token (default $RESUME_TOKEN)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient builds an API client from flags, falling back to the environment.
func newClient(requireToken bool) (*client.Client, error) {
	base := firstNonEmpty(apiURL, os.Getenv("RESUME_API"), client.DefaultBaseURL)
	token := firstNonEmpty(apiToken, os.Getenv("RESUME_TOKEN"))
	if requireToken && token == "" {
		return nil, fmt.Errorf("not signed in: pass --token or set RESUME_TOKEN (see `resume_builder login`)")
	}
	return client.New(base, client.WithToken(token))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
