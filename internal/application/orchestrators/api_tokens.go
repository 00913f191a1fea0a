package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"budo/internal/domain/token"

	"github.com/google/uuid"
)

// TokenStore defines the store interface needed by token issuance.
type TokenStore interface {
	GetByHash(ctx context.Context, hash string) (token.RefreshToken, error)
	Save(ctx context.Context, t token.RefreshToken) error
	Revoke(ctx context.Context, id string) error
}

// TokenDeps holds dependencies for token issuance.
type TokenDeps struct {
	TokenStore TokenStore
	Now        func() time.Time
}

var ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")

// ExecuteIssueRefreshToken mints a refresh token for an account and stores
// its hash.
// PRE: accountID identifies an authenticated account
// POST: Returns the raw token; only the hash is persisted
func ExecuteIssueRefreshToken(ctx context.Context, accountID string, deps TokenDeps) (string, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	raw, err := token.NewRaw()
	if err != nil {
		return "", err
	}
	t := token.RefreshToken{
		ID:        uuid.New().String(),
		AccountID: accountID,
		TokenHash: token.Hash(raw),
		ExpiresAt: now.Add(token.RefreshLifetime),
		CreatedAt: now,
	}
	if err := deps.TokenStore.Save(ctx, t); err != nil {
		return "", err
	}
	slog.Info("auth_event", "event", "refresh_token_issued", "account_id", accountID)
	return raw, nil
}

// ExecuteRotateRefreshToken exchanges a raw refresh token for a new one,
// revoking the old token so each can be used at most once.
// PRE: raw was previously returned by ExecuteIssueRefreshToken
// POST: Old token revoked; returns the account ID and a fresh raw token
func ExecuteRotateRefreshToken(ctx context.Context, raw string, deps TokenDeps) (string, string, error) {
	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	stored, err := deps.TokenStore.GetByHash(ctx, token.Hash(raw))
	if err != nil {
		return "", "", ErrInvalidRefreshToken
	}
	if !stored.IsUsable(now) {
		slog.Info("auth_event", "event", "refresh_rejected", "account_id", stored.AccountID)
		return "", "", ErrInvalidRefreshToken
	}

	if err := deps.TokenStore.Revoke(ctx, stored.ID); err != nil {
		return "", "", err
	}
	next, err := ExecuteIssueRefreshToken(ctx, stored.AccountID, deps)
	if err != nil {
		return "", "", err
	}
	return stored.AccountID, next, nil
}

// ExecuteRevokeRefreshToken invalidates a raw refresh token, e.g. on logout.
// PRE: none
// POST: The token can no longer be exchanged; unknown tokens are a no-op
func ExecuteRevokeRefreshToken(ctx context.Context, raw string, deps TokenDeps) error {
	stored, err := deps.TokenStore.GetByHash(ctx, token.Hash(raw))
	if err != nil {
		return nil
	}
	if err := deps.TokenStore.Revoke(ctx, stored.ID); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "refresh_token_revoked", "account_id", stored.AccountID)
	return nil
}
