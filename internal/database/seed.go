package database

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/zenithmfg/order-tracking/internal/model"
	"github.com/zenithmfg/order-tracking/internal/repository"
)

// AdminStore is the slice of the user repository the seeder needs.
// *repository.UserRepo satisfies it; tests substitute a fake.
type AdminStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
}

// SeedAdmin creates the initial admin account. An empty password
// disables seeding, which is the expected state once the account has
// been provisioned. The insert goes through the user repository so the
// email is normalized and a concurrent or earlier seed surfaces as
// ErrEmailExists, which is treated as "already provisioned".
func SeedAdmin(ctx context.Context, users AdminStore, email, password string, bcryptCost int) error {
	if password == "" {
		return nil
	}

	id, err := users.Create(ctx, "Administrator", email, password, model.RoleAdmin, bcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		zap.L().Debug("admin account already present", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}
	zap.L().Info("admin account created", zap.Uint64("id", id), zap.String("email", email))
	return nil
}
