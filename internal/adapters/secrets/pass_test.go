package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassSaveUsesMultilineInsert(t *testing.T) {
	t.Parallel()

	called := false
	repo := &PassRepository{
		entry: DefaultPassEntry,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			called = true
			assert.Equal(t, []string{"insert", "-m", "-f", "nebuloviz/session"}, args)
			assert.Equal(t, "token-1\nsaved_at: 2026-02-14T11:00:00Z\n", input)
			return "", "", nil
		},
	}

	err := repo.Save(context.Background(), domain.Session{
		Credential: "token-1",
		SavedAt:    time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestPassGetParsesCredentialAndMetadata(t *testing.T) {
	t.Parallel()

	repo := &PassRepository{
		entry: "team/nebuloviz",
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "team/nebuloviz"}, args)
			assert.Empty(t, input)
			return "token-1\r\nsaved_at: 2026-02-14T11:00:00Z\r\nnote: ignored\n", "", nil
		},
	}

	session, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", session.Credential)
	assert.True(t, time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC).Equal(session.SavedAt))
}

func TestPassGetMapsMissingEntry(t *testing.T) {
	t.Parallel()

	repo := &PassRepository{
		entry: DefaultPassEntry,
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "Error: nebuloviz/session is not in the password store.", errors.New("exit status 1")
		},
	}

	_, err := repo.Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestPassGetReturnsClearError(t *testing.T) {
	t.Parallel()

	repo := &PassRepository{
		entry: DefaultPassEntry,
		run: func(context.Context, string, ...string) (string, string, error) {
			return "", "gpg: decryption failed", errors.New("exit status 2")
		},
	}

	_, err := repo.Get(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "nebuloviz/session")
	assert.ErrorContains(t, err, "gpg: decryption failed")
}

func TestPassDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	repo := &PassRepository{
		entry: DefaultPassEntry,
		run: func(ctx context.Context, input string, args ...string) (string, string, error) {
			assert.Equal(t, []string{"rm", "-f", "nebuloviz/session"}, args)
			return "", "Error: nebuloviz/session is not in the password store.", errors.New("exit status 1")
		},
	}

	require.NoError(t, repo.Delete(context.Background()))
}

func TestPassHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	repo := &PassRepository{
		entry: DefaultPassEntry,
		run: func(context.Context, string, ...string) (string, string, error) {
			t.Fatal("pass must not run")
			return "", "", nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewPassRepositoryDefaultsEntry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultPassEntry, NewPassRepository("  ").entry)
	assert.Equal(t, "work/session", NewPassRepository("work/session").entry)
}
