package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/types"
	"github.com/brandvault/brandvault-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "brandvault", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Client{},
		&types.Workspace{},
		&types.WorkspaceAssignment{},
		&types.Asset{},
		&types.AssetVersion{},
		&types.ReviewLink{},
		&types.Comment{},
		&types.ApprovalAction{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// Ownership is CASCADE; the review-link back-references on comment and
	// approval_action are weak (SET NULL) so deleting a link keeps history.
	constraints := []struct {
		name string
		sql  string
	}{
		{"fk_workspace_client_id", `ALTER TABLE "workspace" ADD CONSTRAINT "fk_workspace_client_id" FOREIGN KEY ("client_id") REFERENCES "client"("id") ON DELETE CASCADE`},
		{"fk_workspace_assignment_workspace_id", `ALTER TABLE "workspace_assignment" ADD CONSTRAINT "fk_workspace_assignment_workspace_id" FOREIGN KEY ("workspace_id") REFERENCES "workspace"("id") ON DELETE CASCADE`},
		{"fk_workspace_assignment_user_id", `ALTER TABLE "workspace_assignment" ADD CONSTRAINT "fk_workspace_assignment_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`},
		{"fk_asset_workspace_id", `ALTER TABLE "asset" ADD CONSTRAINT "fk_asset_workspace_id" FOREIGN KEY ("workspace_id") REFERENCES "workspace"("id") ON DELETE CASCADE`},
		{"fk_asset_version_asset_id", `ALTER TABLE "asset_version" ADD CONSTRAINT "fk_asset_version_asset_id" FOREIGN KEY ("asset_id") REFERENCES "asset"("id") ON DELETE CASCADE`},
		{"fk_review_link_workspace_id", `ALTER TABLE "review_link" ADD CONSTRAINT "fk_review_link_workspace_id" FOREIGN KEY ("workspace_id") REFERENCES "workspace"("id") ON DELETE CASCADE`},
		{"fk_comment_asset_id", `ALTER TABLE "comment" ADD CONSTRAINT "fk_comment_asset_id" FOREIGN KEY ("asset_id") REFERENCES "asset"("id") ON DELETE CASCADE`},
		{"fk_comment_review_link_id", `ALTER TABLE "comment" ADD CONSTRAINT "fk_comment_review_link_id" FOREIGN KEY ("review_link_id") REFERENCES "review_link"("id") ON DELETE SET NULL`},
		{"fk_approval_action_asset_id", `ALTER TABLE "approval_action" ADD CONSTRAINT "fk_approval_action_asset_id" FOREIGN KEY ("asset_id") REFERENCES "asset"("id") ON DELETE CASCADE`},
		{"fk_approval_action_review_link_id", `ALTER TABLE "approval_action" ADD CONSTRAINT "fk_approval_action_review_link_id" FOREIGN KEY ("review_link_id") REFERENCES "review_link"("id") ON DELETE SET NULL`},
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, c := range constraints {
		var exists bool
		if err := s.db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name).Scan(&exists).Error; err != nil {
			return fmt.Errorf("check constraint %s: %w", c.name, err)
		}
		if exists {
			continue
		}
		if err := s.db.Exec(c.sql).Error; err != nil {
			return fmt.Errorf("add constraint %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
