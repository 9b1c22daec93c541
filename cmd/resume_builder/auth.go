package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/types"
)

var (
	authName        string
	authEmail       string
	authPassword    string
	newPassword     string
	currentPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and print its token",
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print a token",
	Long:  "Sign in and print a token. Export it as RESUME_TOKEN for the other client commands.",
	RunE:  runLogin,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change the account password",
	RunE:  runPassword,
}

func init() {
	registerCmd.Flags().StringVar(&authName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&authPassword, "password", "", "Password (default $RESUME_PASSWORD)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Password (default $RESUME_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")

	passwordCmd.Flags().StringVar(&currentPassword, "current", "", "Current password")
	passwordCmd.Flags().StringVar(&newPassword, "new", "", "New password")
	_ = passwordCmd.MarkFlagRequired("current")
	_ = passwordCmd.MarkFlagRequired("new")

	rootCmd.AddCommand(registerCmd, loginCmd, whoamiCmd, passwordCmd)
}

func password() (string, error) {
	pw := firstNonEmpty(authPassword, os.Getenv("RESUME_PASSWORD"))
	if pw == "" {
		return "", fmt.Errorf("a password is required: pass --password or set RESUME_PASSWORD")
	}
	return pw, nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	pw, err := password()
	if err != nil {
		return err
	}
	req := types.CreateUserRequest{Name: authName, Email: authEmail, Password: pw}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}
	c, err := newClient(false)
	if err != nil {
		return err
	}
	resp, err := c.Register(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	pw, err := password()
	if err != nil {
		return err
	}
	c, err := newClient(false)
	if err != nil {
		return err
	}
	resp, err := c.Login(cmd.Context(), authEmail, pw)
	if err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	c, err := newClient(true)
	if err != nil {
		return err
	}
	user, err := c.Me(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> %s\n", user.Name, user.Email, user.ID)
	return nil
}

func runPassword(cmd *cobra.Command, _ []string) error {
	c, err := newClient(true)
	if err != nil {
		return err
	}
	if err := c.UpdatePassword(cmd.Context(), currentPassword, newPassword); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Password updated successfully")
	return nil
}
