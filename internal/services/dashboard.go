package services

import (
	"context"
	"time"

	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/types"
)

type DashboardSummary struct {
	TotalClients      int64 `json:"total_clients"`
	TotalWorkspaces   int64 `json:"total_workspaces"`
	ActiveWorkspaces  int64 `json:"active_workspaces"`
	TotalAssets       int64 `json:"total_assets"`
	AssetsInReview    int64 `json:"assets_in_review"`
	AssetsApproved    int64 `json:"assets_approved"`
	PendingRevisions  int64 `json:"pending_revisions"`
	ActiveReviewLinks int64 `json:"active_review_links"`
	TotalComments     int64 `json:"total_comments"`
	TotalApprovals    int64 `json:"total_approvals"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
}

type dashboardService struct {
	log            *logger.Logger
	clientRepo     repos.ClientRepo
	workspaceRepo  repos.WorkspaceRepo
	assetRepo      repos.AssetRepo
	reviewLinkRepo repos.ReviewLinkRepo
	commentRepo    repos.CommentRepo
	approvalRepo   repos.ApprovalActionRepo
}

func NewDashboardService(
	log *logger.Logger,
	clientRepo repos.ClientRepo,
	workspaceRepo repos.WorkspaceRepo,
	assetRepo repos.AssetRepo,
	reviewLinkRepo repos.ReviewLinkRepo,
	commentRepo repos.CommentRepo,
	approvalRepo repos.ApprovalActionRepo,
) DashboardService {
	return &dashboardService{
		log:            log.With("service", "DashboardService"),
		clientRepo:     clientRepo,
		workspaceRepo:  workspaceRepo,
		assetRepo:      assetRepo,
		reviewLinkRepo: reviewLinkRepo,
		commentRepo:    commentRepo,
		approvalRepo:   approvalRepo,
	}
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	var err error

	if summary.TotalClients, err = s.clientRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	if summary.TotalWorkspaces, err = s.workspaceRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	if summary.ActiveWorkspaces, err = s.workspaceRepo.CountByStatus(ctx, nil, types.WorkspaceStatusActive); err != nil {
		return nil, err
	}
	if summary.TotalAssets, err = s.assetRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	if summary.AssetsInReview, err = s.assetRepo.CountByStatus(ctx, nil, types.AssetStatusInReview); err != nil {
		return nil, err
	}
	if summary.AssetsApproved, err = s.assetRepo.CountByStatus(ctx, nil, types.AssetStatusApproved); err != nil {
		return nil, err
	}
	if summary.PendingRevisions, err = s.assetRepo.CountByStatus(ctx, nil, types.AssetStatusRevisionRequested); err != nil {
		return nil, err
	}
	if summary.ActiveReviewLinks, err = s.reviewLinkRepo.CountActive(ctx, nil, time.Now().UTC()); err != nil {
		return nil, err
	}
	if summary.TotalComments, err = s.commentRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	if summary.TotalApprovals, err = s.approvalRepo.Count(ctx, nil); err != nil {
		return nil, err
	}

	return summary, nil
}
