package federated

import (
	"context"
	"time"

	"github.com/Abraxas-365/passport/pkg/iam/account"
	"github.com/Abraxas-365/passport/pkg/iam/auth"
	"github.com/Abraxas-365/passport/pkg/kernel"
	"github.com/Abraxas-365/passport/pkg/logx"
	"github.com/google/uuid"
)

// Resolver maps a verified provider identity onto exactly one account,
// creating or linking it, and issues a token pair.
type Resolver struct {
	verifiers map[Kind]Verifier
	accounts  account.Repository
	hasher    auth.PasswordHasher
	tokens    *auth.TokenManager
	audit     auth.AuditService
}

func NewResolver(
	verifiers map[Kind]Verifier,
	accounts account.Repository,
	hasher auth.PasswordHasher,
	tokens *auth.TokenManager,
	audit auth.AuditService,
) *Resolver {
	return &Resolver{
		verifiers: verifiers,
		accounts:  accounts,
		hasher:    hasher,
		tokens:    tokens,
		audit:     audit,
	}
}

// Resolve verifies credential with the verifier registered for kind.
// Lookup order is (uid, method) first, then e-mail.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, credential string) (*account.Account, auth.TokenPair, error) {
	verifier, ok := r.verifiers[kind]
	if !ok {
		return nil, auth.TokenPair{}, ErrUnsupportedKind(kind)
	}

	identity, err := verifier.Verify(ctx, credential)
	if err != nil {
		r.audit.LogLoginAttempt(ctx, "", string(kind), false)
		return nil, auth.TokenPair{}, err
	}
	identity.Email = account.NormalizeEmail(identity.Email)
	if identity.ProviderUID == "" || identity.Email == "" {
		r.audit.LogLoginAttempt(ctx, identity.Email, string(kind), false)
		return nil, auth.TokenPair{}, ErrLoginFailed(kind).WithDetail("reason", "incomplete identity")
	}

	acc, err := r.find(ctx, identity, kind.Method())
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	if acc == nil {
		acc, err = r.create(ctx, identity, kind)
	} else {
		err = r.link(ctx, acc, identity, kind)
	}
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	pair, err := r.tokens.IssuePair(auth.Subject{ID: acc.ID, Email: acc.Email})
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	r.audit.LogLoginAttempt(ctx, acc.Email, string(kind), true)
	return acc, pair, nil
}

func (r *Resolver) find(ctx context.Context, identity *Identity, method account.LoginMethod) (*account.Account, error) {
	acc, err := r.accounts.FindByUID(ctx, identity.ProviderUID, method)
	if err == nil {
		return acc, nil
	}
	if !account.IsNotFound(err) {
		return nil, err
	}

	acc, err = r.accounts.FindByEmail(ctx, identity.Email)
	if err == nil {
		return acc, nil
	}
	if !account.IsNotFound(err) {
		return nil, err
	}
	return nil, nil
}

func (r *Resolver) create(ctx context.Context, identity *Identity, kind Kind) (*account.Account, error) {
	hash, err := r.hasher.Hash(identity.ProviderUID)
	if err != nil {
		return nil, err
	}

	name := identity.Name
	if name == "" {
		name = account.NameFromEmail(identity.Email)
	}

	meta := kernel.RequestMetaFrom(ctx)
	now := time.Now().UTC()
	acc := &account.Account{
		ID:            kernel.NewAccountID(uuid.NewString()),
		Email:         identity.Email,
		Name:          name,
		PasswordHash:  hash,
		LoginMethod:   kind.Method(),
		UID:           identity.ProviderUID,
		Avatar:        identity.Avatar,
		EmailVerified: identity.EmailVerified,
		Language:      account.DefaultLanguage(meta.Country),
		Country:       meta.Country,
		IP:            meta.ClientIP,
		Status:        account.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := r.accounts.Create(ctx, acc); err != nil {
		if !account.IsEmailExists(err) {
			return nil, err
		}
		// Lost a race with a concurrent first login for the same e-mail.
		existing, findErr := r.accounts.FindByEmail(ctx, identity.Email)
		if findErr != nil {
			return nil, findErr
		}
		return existing, r.link(ctx, existing, identity, kind)
	}

	logx.WithContext(ctx).WithFields(logx.Fields{
		"account_id": acc.ID.String(),
		"provider":   string(kind),
	}).Info("federated: account created")
	r.audit.LogAccountCreated(ctx, acc.ID, string(acc.LoginMethod))
	return acc, nil
}

// link fills in missing fields without overwriting what the account has.
func (r *Resolver) link(ctx context.Context, acc *account.Account, identity *Identity, kind Kind) error {
	if acc.UID == "" {
		acc.UID = identity.ProviderUID
	}
	if acc.Name == "" && identity.Name != "" {
		acc.Name = identity.Name
	}
	if acc.Avatar == "" && identity.Avatar != "" {
		acc.Avatar = identity.Avatar
	}
	acc.LoginMethod = kind.Method()
	acc.Touch()

	if err := r.accounts.Update(ctx, acc); err != nil {
		return err
	}
	r.audit.LogAccountLinked(ctx, acc.ID, string(acc.LoginMethod))
	return nil
}
