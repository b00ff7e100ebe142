package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"go.uber.org/zap"
)

var (
	errNilPrimary  = errors.New("primary session repository is nil")
	errNilFallback = errors.New("fallback session repository is nil")
)

// FallbackRepository prefers primary and uses fallback whenever primary fails,
// for example when pass is not installed. A session missing from primary is
// still looked up in fallback, since it may have been saved there earlier.
type FallbackRepository struct {
	primary  ports.SessionRepository
	fallback ports.SessionRepository
	logger   *zap.Logger
}

var _ ports.SessionRepository = (*FallbackRepository)(nil)

func NewFallbackRepository(primary, fallback ports.SessionRepository, logger *zap.Logger) (*FallbackRepository, error) {
	if primary == nil {
		return nil, errNilPrimary
	}
	if fallback == nil {
		return nil, errNilFallback
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FallbackRepository{primary: primary, fallback: fallback, logger: logger.Named("secrets")}, nil
}

// NewPassFirst stores sessions in pass and falls back to fallback, usually the
// session file.
func NewPassFirst(entry string, fallback ports.SessionRepository, logger *zap.Logger) (*FallbackRepository, error) {
	return NewFallbackRepository(NewPassRepository(entry), fallback, logger)
}

func (r *FallbackRepository) Get(ctx context.Context) (domain.Session, error) {
	session, err := r.primary.Get(ctx)
	if err == nil {
		return session, nil
	}
	if shouldSkipFallback(err) {
		return domain.Session{}, err
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		r.logger.Debug("primary session backend failed", zap.Error(err))
	}

	session, fallbackErr := r.fallback.Get(ctx)
	if fallbackErr == nil {
		return session, nil
	}
	if errors.Is(fallbackErr, domain.ErrSessionNotFound) {
		if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, ErrUnavailable) {
			return domain.Session{}, domain.ErrSessionNotFound
		}
		return domain.Session{}, err
	}

	return domain.Session{}, fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

func (r *FallbackRepository) Save(ctx context.Context, session domain.Session) error {
	err := r.primary.Save(ctx, session)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}
	r.logger.Debug("primary session backend failed, saving to fallback", zap.Error(err))

	fallbackErr := r.fallback.Save(ctx, session)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend save failed: %w; fallback backend save failed: %w", err, fallbackErr)
}

// Delete clears both backends so a stale copy never resurfaces.
func (r *FallbackRepository) Delete(ctx context.Context) error {
	err := r.primary.Delete(ctx)
	if shouldSkipFallback(err) {
		return err
	}

	fallbackErr := r.fallback.Delete(ctx)
	switch {
	case err == nil || errors.Is(err, ErrUnavailable):
		return fallbackErr
	case fallbackErr == nil:
		r.logger.Debug("primary session backend delete failed", zap.Error(err))
		return nil
	default:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	}
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
