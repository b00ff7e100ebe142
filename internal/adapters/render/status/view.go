package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const (
	sessionTitle = "NebuloViz Session"
	barWidth     = 24
)

type RenderOptions struct {
	Now time.Time
}

// Render draws the session card. Without opts.Now the lifetime bar gives way
// to the raw expiry time.
func Render(status application.SessionStatus, opts RenderOptions) string {
	return renderView(status, opts, newStyles())
}

func renderView(status application.SessionStatus, opts RenderOptions, s styles) string {
	lines := []string{s.title.Render(sessionTitle)}

	if !status.SignedIn {
		lines = append(lines, s.signedOut.Render("signed out"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	headline := s.signedIn.Render("signed in")
	if !status.SavedAt.IsZero() {
		headline += " " + s.detail.Render(fmt.Sprintf("(saved %s)", status.SavedAt.Format(time.RFC3339)))
	}
	lines = append(lines, headline)

	if status.Opaque {
		lines = append(lines, field(s, "credential", "opaque token"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	details := make([]string, 0, 5)
	for _, f := range []struct{ key, value string }{
		{"user", status.User},
		{"role", status.Role},
		{"issuer", status.Issuer},
		{"permissions", strings.Join(status.Scopes, ", ")},
	} {
		if f.value != "" {
			details = append(details, field(s, f.key, f.value))
		}
	}
	if line := lifetimeLine(status, opts.Now, s); line != "" {
		details = append(details, line)
	}
	if len(details) > 0 {
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, details...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func field(s styles, key, value string) string {
	return s.key.Render(fmt.Sprintf("%-12s", key+":")) + " " + s.detail.Render(value)
}

// lifetimeLine shows how much of the token's validity window remains.
func lifetimeLine(status application.SessionStatus, now time.Time, s styles) string {
	if status.ExpiresAt.IsZero() {
		return ""
	}
	if now.IsZero() {
		return field(s, "expires", status.ExpiresAt.Format(time.RFC3339))
	}
	if status.Expired(now) {
		return field(s, "expires", status.ExpiresAt.Format(time.RFC3339)) + " " + s.warning.Render("[expired]")
	}

	line := s.key.Render(fmt.Sprintf("%-12s", "expires:")) + " "
	if !status.IssuedAt.IsZero() && status.ExpiresAt.After(status.IssuedAt) {
		total := status.ExpiresAt.Sub(status.IssuedAt)
		left := clampPercent(100 * status.ExpiresAt.Sub(now).Seconds() / total.Seconds())
		line += renderProgressBar(left, barWidth, s) + " " + s.detail.Render(fmt.Sprintf("%2.0f%% left", left)) + " "
	}
	return line + s.detail.Render(fmt.Sprintf("(%s)", formatExpiryRelative(status.ExpiresAt, now)))
}

func renderProgressBar(leftPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(leftPercent) / 100))
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func formatExpiryRelative(expiresAt, now time.Time) string {
	remaining := expiresAt.Sub(now)
	if remaining < time.Hour {
		minutes := max(int(math.Ceil(remaining.Minutes())), 1)
		return fmt.Sprintf("expires in %d %s at %s", minutes, plural(minutes, "minute"), expiresAt.Format("15:04"))
	}
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		return fmt.Sprintf("expires in %d %s at %s", hours, plural(hours, "hour"), expiresAt.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	return fmt.Sprintf("expires in %d %s at %s", days, plural(days, "day"), expiresAt.Format("15:04 on 02 Jan"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
