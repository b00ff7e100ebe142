package secrets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
)

const (
	DefaultPassEntry = "nebuloviz/session"

	savedAtField = "saved_at: "
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// PassRepository keeps the session in a pass entry. The credential is the
// first line, as pass expects, and metadata follows as "key: value" lines.
type PassRepository struct {
	entry string
	run   runFunc
}

var _ ports.SessionRepository = (*PassRepository)(nil)

func NewPassRepository(entry string) *PassRepository {
	if strings.TrimSpace(entry) == "" {
		entry = DefaultPassEntry
	}
	return &PassRepository{entry: entry, run: runPassCommand}
}

func (r *PassRepository) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(session.Credential)
	b.WriteString("\n")
	if !session.SavedAt.IsZero() {
		b.WriteString(savedAtField + session.SavedAt.UTC().Format(time.RFC3339))
		b.WriteString("\n")
	}

	_, stderr, err := r.run(ctx, b.String(), "insert", "-m", "-f", r.entry)
	if err != nil {
		return formatError("save", r.entry, err, stderr)
	}

	return nil
}

func (r *PassRepository) Get(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	stdout, stderr, err := r.run(ctx, "", "show", r.entry)
	if err != nil {
		if isMissingEntry(stderr) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, formatError("get", r.entry, err, stderr)
	}

	return parseEntry(stdout), nil
}

func (r *PassRepository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, stderr, err := r.run(ctx, "", "rm", "-f", r.entry)
	if err != nil && !isMissingEntry(stderr) {
		return formatError("delete", r.entry, err, stderr)
	}

	return nil
}

func parseEntry(raw string) domain.Session {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	session := domain.Session{Credential: strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		value, ok := strings.CutPrefix(strings.TrimSpace(line), savedAtField)
		if !ok {
			continue
		}
		if savedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(value)); err == nil {
			session.SavedAt = savedAt
		}
	}
	return session
}

func isMissingEntry(stderr string) bool {
	return strings.Contains(stderr, "is not in the password store")
}

func runPassCommand(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, entry string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, entry, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, entry, err, stderr)
}
