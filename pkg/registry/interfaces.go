package registry

import (
	"context"

	"github.com/surajislam/Hean/pkg/types"
)

// Registry defines the operations the request-handling layer consumes.
// This interface enables mocking in tests and follows the dependency
// inversion principle.
type Registry interface {
	// CreateUser registers a new account and returns it with a fresh
	// 12-character [A-Z0-9] hash code, unique among stored accounts
	CreateUser(ctx context.Context, name string) (types.User, error)

	// Authenticate resolves a hash code to its account
	// (exact, case-sensitive match)
	Authenticate(ctx context.Context, hashCode string) (types.User, error)

	// UpdateBalance overwrites the balance of the account identified by
	// hashCode; ErrNotFound if no such account
	UpdateBalance(ctx context.Context, hashCode string, balance int) error

	// ListUsers returns all accounts in storage order
	ListUsers(ctx context.Context) ([]types.User, error)

	// CustomMessage returns the message shown on an unsuccessful search
	CustomMessage(ctx context.Context) (string, error)

	// DemoUsernames returns the searchable directory
	DemoUsernames(ctx context.Context) ([]types.DemoUsername, error)

	// SearchPublicInfo matches a query against active directory entries
	// (leading "@" stripped, case-insensitive)
	SearchPublicInfo(ctx context.Context, query string) (SearchResult, error)
}

// Compile-time interface compliance check
var _ Registry = (*Manager)(nil)
