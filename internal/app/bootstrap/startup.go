// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/danielhkim/shepherdhub/internal/app/store/users"
	"github.com/danielhkim/shepherdhub/internal/app/system/authz"
	"github.com/danielhkim/shepherdhub/internal/domain/models"
)

// Startup runs one-time initialization after DB connections and schema
// setup are complete. ShepherdHub uses it to seed the first super_admin
// when the users collection is empty, so a fresh deployment can log in.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.BootstrapAdminUsername == "" || appCfg.BootstrapAdminPassword == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)
	n, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u, err := users.Create(ctx, models.User{
		Username:     appCfg.BootstrapAdminUsername,
		PasswordHash: string(hash),
		Name:         appCfg.BootstrapAdminName,
		Role:         authz.RoleSuperAdmin,
	})
	if err != nil {
		return err
	}
	logger.Info("bootstrap super_admin created",
		zap.Int("user_id", u.ID),
		zap.String("username", u.Username))
	return nil
}
