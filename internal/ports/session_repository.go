package ports

import (
	"context"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
)

// SessionRepository is the durable, device-local home of the session credential.
// Get returns domain.ErrSessionNotFound when nothing has been saved.
type SessionRepository interface {
	Get(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context) error
}
