// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/dalemusser/lessonlab/internal/app/store/users"
	"github.com/dalemusser/lessonlab/internal/app/system/normalize"
	"github.com/dalemusser/lessonlab/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting. The context will be cancelled if the process is asked to shut
// down while Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Seed admin user if configured
	if appCfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, deps, appCfg.SeedAdminEmail, appCfg.SeedAdminName, logger); err != nil {
			logger.Error("failed to seed admin user", zap.Error(err))
			return err
		}
	}

	return nil
}

// ensureAdminUser ensures an admin user exists with the given email.
// An existing user is promoted to admin; a missing one is created.
func ensureAdminUser(ctx context.Context, deps DBDeps, email, name string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	email = normalize.Email(email)
	if name == "" {
		name = "Admin"
	}

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		if existing.IsAdmin() {
			logger.Debug("admin user already configured", zap.String("email", email))
			return nil
		}

		if _, err := users.UpdateByEmail(ctx, email, bson.M{"role": models.RoleAdmin}); err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("previous_role", existing.Role))
		return nil
	}

	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if _, err := users.Upsert(ctx, email, bson.M{
		"full_name": name,
		"role":      models.RoleAdmin,
	}); err != nil {
		return err
	}

	logger.Info("created admin user", zap.String("email", email))
	return nil
}
