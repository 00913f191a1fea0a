package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"budo/internal/domain/account"
	"budo/internal/domain/dojo"

	"github.com/google/uuid"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// DojoStoreForCreate defines the store interface needed by CreateAccount.
type DojoStoreForCreate interface {
	Save(ctx context.Context, d dojo.Dojo) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
	DojoName string
}

// CreateAccountResult carries the created IDs.
type CreateAccountResult struct {
	AccountID string
	DojoID    string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	AccountStore AccountStoreForCreate
	DojoStore    DojoStoreForCreate
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount coordinates account and dojo creation. Each account
// administers exactly one dojo, so both are created together.
// PRE: Valid email, password >= 8 chars, valid role, non-empty dojo name
// POST: Account created with hashed password; dojo created owned by it
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (CreateAccountResult, error) {
	if input.Email == "" {
		return CreateAccountResult{}, errors.New("email cannot be empty")
	}
	if input.Password == "" {
		return CreateAccountResult{}, errors.New("password cannot be empty")
	}
	if input.Role == "" {
		return CreateAccountResult{}, errors.New("role cannot be empty")
	}

	// Check if email already exists
	_, err := deps.AccountStore.GetByEmail(ctx, input.Email)
	if err == nil {
		return CreateAccountResult{}, ErrEmailAlreadyExists
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: time.Now(),
	}

	// Validate domain rules
	if err := acct.Validate(); err != nil {
		return CreateAccountResult{}, err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return CreateAccountResult{}, err
	}

	d := dojo.Dojo{
		ID:             uuid.New().String(),
		OwnerAccountID: acct.ID,
		Name:           input.DojoName,
		CreatedAt:      time.Now(),
	}
	if err := d.Validate(); err != nil {
		return CreateAccountResult{}, err
	}

	// Save to stores
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return CreateAccountResult{}, err
	}
	if err := deps.DojoStore.Save(ctx, d); err != nil {
		return CreateAccountResult{}, err
	}

	slog.Info("auth_event", "event", "account_created", "email", input.Email, "role", input.Role, "dojo", input.DojoName)

	return CreateAccountResult{AccountID: acct.ID, DojoID: d.ID}, nil
}

// ExecuteSeedAdmin creates a default admin account and dojo if no accounts exist.
// PRE: Database is initialized
// POST: Admin account and dojo created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password, dojoName string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Accounts already exist, skip seeding
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    email,
		Password: password,
		Role:     account.RoleAdmin,
		DojoName: dojoName,
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
