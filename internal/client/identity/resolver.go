// Package identity derives a stable participant identity per machine, independent
// of authentication. An authenticated identity wins; otherwise a pseudo-random id
// is generated once and persisted, so the same machine keeps the same identity
// across reconnects.
package identity

import (
	"log/slog"

	"github.com/siddhu12980/SyncStream/internal/domain"
	"github.com/siddhu12980/SyncStream/pkg/randstr"
)

const (
	participantIdKey = "participant_id"
	displayNameKey   = "display_name"

	anonymousIdLength = 13
)

// Auth is an authenticated identity, when one exists.
type Auth struct {
	UserId   string
	Username string
}

type iStore interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type Resolver struct {
	store     iStore
	generator *randstr.Generator
	logger    *slog.Logger
}

func NewResolver(store iStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:     store,
		generator: randstr.New([]byte("abcdefghijklmnopqrstuvwxyz0123456789")),
		logger:    logger,
	}
}

// Resolve never fails; it only degrades to an anonymous identity. The admin role
// cannot be known yet, callers resolve it against room metadata with
// Participant.ResolveRole.
func (r *Resolver) Resolve(auth *Auth) domain.Participant {
	if auth != nil && auth.UserId != "" {
		name := auth.Username
		if name == "" {
			name = auth.UserId
		}
		return domain.Participant{Id: auth.UserId, DisplayName: name}
	}

	id, ok := r.store.Get(participantIdKey)
	if !ok || id == "" {
		id = r.generator.GenerateRandomString(anonymousIdLength)
		if err := r.store.Set(participantIdKey, id); err != nil {
			// identity stays valid for this session, it just won't survive a restart
			r.logger.Warn("failed to persist participant id", "error", err)
		}
	}

	name, ok := r.store.Get(displayNameKey)
	if !ok || name == "" {
		name = id
	}

	return domain.Participant{Id: id, DisplayName: name}
}
