package authclient

import "context"

// AuthInterface is the external access-control collaborator gating the
// administrative operations.
type AuthInterface interface {
	IsAuthorized(ctx context.Context, caller string) (bool, error)
}
