package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	statusadapter "github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/status"
	"github.com/DIEAbdulHadi/NebuloViz/internal/application"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the credential used for API requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Login(cmd.Context(), token); err != nil {
				return fmt.Errorf("login: %w", err)
			}

			label := "signed in"
			if claims, err := application.ParseSessionClaims(strings.TrimSpace(token)); err == nil && claims.UserLabel() != "" {
				label = fmt.Sprintf("signed in as user %s", claims.UserLabel())
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), label)
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token issued by the sales API")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Erase the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return err
		},
	}
}

type sessionOutput struct {
	SignedIn    bool       `json:"signed_in"`
	SavedAt     *time.Time `json:"saved_at,omitempty"`
	Opaque      bool       `json:"opaque,omitempty"`
	User        string     `json:"user,omitempty"`
	Role        string     `json:"role,omitempty"`
	Issuer      string     `json:"issuer,omitempty"`
	Permissions []string   `json:"permissions,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Expired     bool       `json:"expired,omitempty"`
}

func newSessionCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the stored credential's details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := app.sessions.Status()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(newSessionOutput(current, app.now()))
			}

			rendered := app.statusRenderer(current, statusadapter.RenderOptions{Now: app.now()})
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output session details as JSON")

	return cmd
}

func newSessionOutput(status application.SessionStatus, now time.Time) sessionOutput {
	out := sessionOutput{
		SignedIn:    status.SignedIn,
		Opaque:      status.Opaque,
		User:        status.User,
		Role:        status.Role,
		Issuer:      status.Issuer,
		Permissions: status.Scopes,
		Expired:     status.Expired(now),
	}
	if !status.SavedAt.IsZero() {
		savedAt := status.SavedAt
		out.SavedAt = &savedAt
	}
	if !status.ExpiresAt.IsZero() {
		expiresAt := status.ExpiresAt
		out.ExpiresAt = &expiresAt
	}
	return out
}
