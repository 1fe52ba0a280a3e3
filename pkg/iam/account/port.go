package account

import (
	"context"

	"github.com/Abraxas-365/passport/pkg/kernel"
)

// Repository persists accounts. Lookups return ErrUserNotFound when no row
// matches; Create returns ErrEmailExists on a duplicate e-mail.
type Repository interface {
	FindByID(ctx context.Context, id kernel.AccountID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByUID(ctx context.Context, uid string, method LoginMethod) (*Account, error)
	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error
	List(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[Account], error)
}
