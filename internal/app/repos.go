package app

import (
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/repos"
)

type Repos struct {
	User                repos.UserRepo
	Client              repos.ClientRepo
	Workspace           repos.WorkspaceRepo
	WorkspaceAssignment repos.WorkspaceAssignmentRepo
	Asset               repos.AssetRepo
	AssetVersion        repos.AssetVersionRepo
	ReviewLink          repos.ReviewLinkRepo
	Comment             repos.CommentRepo
	ApprovalAction      repos.ApprovalActionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                repos.NewUserRepo(db),
		Client:              repos.NewClientRepo(db),
		Workspace:           repos.NewWorkspaceRepo(db),
		WorkspaceAssignment: repos.NewWorkspaceAssignmentRepo(db),
		Asset:               repos.NewAssetRepo(db),
		AssetVersion:        repos.NewAssetVersionRepo(db),
		ReviewLink:          repos.NewReviewLinkRepo(db),
		Comment:             repos.NewCommentRepo(db),
		ApprovalAction:      repos.NewApprovalActionRepo(db),
	}
}
