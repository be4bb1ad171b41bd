package ports

import (
	"context"

	"github.com/MUSHYo888/patient-history-pro-scribe/pkg/domain"
)

// SessionProvider resolves a bearer credential into an authenticated principal.
type SessionProvider interface {
	// Authenticate returns domain.ErrUnauthorized when the credential is
	// missing, malformed or expired.
	Authenticate(ctx context.Context, credential string) (*domain.Principal, error)
}
