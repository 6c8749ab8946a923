package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brandvault/brandvault-backend/internal/platform/apierr"
	"github.com/brandvault/brandvault-backend/internal/platform/logger"
	"github.com/brandvault/brandvault-backend/internal/repos"
	"github.com/brandvault/brandvault-backend/internal/types"
)

// ApprovalService is the only writer of Asset.Status. Recording a decision
// appends an ApprovalAction and moves the status in one transaction, so the
// decision log and the status can never disagree. Decisions are not gated on
// the current status: a re-approval of an approved asset appends another
// record, and either side can reverse the other's decision with a newer one.
type ApprovalService interface {
	RecordApproval(ctx context.Context, assetID uuid.UUID, scope *LinkScope, in RecordApprovalInput) (*types.ApprovalAction, error)
	RecordComment(ctx context.Context, assetID uuid.UUID, scope *LinkScope, in RecordCommentInput) (*types.Comment, error)
	ListApprovals(ctx context.Context, assetID uuid.UUID, scope *LinkScope) ([]types.ApprovalAction, error)
	ListComments(ctx context.Context, assetID uuid.UUID, scope *LinkScope) ([]types.Comment, error)
}

type RecordApprovalInput struct {
	ActionType string
	Comment    *string
	DoneByName string
	DoneByType types.AuthorType
}

type RecordCommentInput struct {
	AuthorName string
	AuthorType types.AuthorType
	Content    string
}

type approvalService struct {
	log          *logger.Logger
	db           *gorm.DB
	assetRepo    repos.AssetRepo
	commentRepo  repos.CommentRepo
	approvalRepo repos.ApprovalActionRepo
	notifier     *ReviewNotifier
}

func NewApprovalService(
	log *logger.Logger,
	db *gorm.DB,
	assetRepo repos.AssetRepo,
	commentRepo repos.CommentRepo,
	approvalRepo repos.ApprovalActionRepo,
	notifier *ReviewNotifier,
) ApprovalService {
	return &approvalService{
		log:          log.With("service", "ApprovalService"),
		db:           db,
		assetRepo:    assetRepo,
		commentRepo:  commentRepo,
		approvalRepo: approvalRepo,
		notifier:     notifier,
	}
}

// resolveAsset loads the asset, confined to the scope's workspace when the
// caller is an anonymous reviewer. An asset outside the scope reads as not
// found, never as forbidden, so tokens cannot probe other workspaces.
func (s *approvalService) resolveAsset(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, scope *LinkScope) (*types.Asset, error) {
	var asset *types.Asset
	var err error
	if scope != nil {
		asset, err = s.assetRepo.GetByIDInWorkspace(ctx, tx, assetID, scope.WorkspaceID)
	} else {
		asset, err = s.assetRepo.GetByID(ctx, tx, assetID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}
	return asset, nil
}

func (s *approvalService) RecordApproval(ctx context.Context, assetID uuid.UUID, scope *LinkScope, in RecordApprovalInput) (*types.ApprovalAction, error) {
	actionType, err := types.ParseApprovalActionType(in.ActionType)
	if err != nil {
		return nil, apierr.BadRequest("%s", err.Error())
	}
	if strings.TrimSpace(in.DoneByName) == "" {
		return nil, apierr.BadRequest("done_by_name is required")
	}

	newStatus := types.AssetStatusApproved
	if actionType == types.ApprovalActionRevisionRequested {
		newStatus = types.AssetStatusRevisionRequested
	}

	var action *types.ApprovalAction
	var workspaceID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		asset, err := s.resolveAsset(ctx, tx, assetID, scope)
		if err != nil {
			return err
		}
		workspaceID = asset.WorkspaceID

		action = &types.ApprovalAction{
			ID:         uuid.New(),
			ActionType: actionType,
			Comment:    in.Comment,
			DoneByName: strings.TrimSpace(in.DoneByName),
			DoneByType: in.DoneByType,
			AssetID:    asset.ID,
			CreatedAt:  time.Now().UTC(),
		}
		if scope != nil {
			linkID := scope.ReviewLinkID
			action.ReviewLinkID = &linkID
		}
		if err := s.approvalRepo.Create(ctx, tx, action); err != nil {
			return err
		}
		return s.assetRepo.UpdateStatus(ctx, tx, asset.ID, newStatus)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ApprovalRecorded(ctx, workspaceID, action)
	s.log.Info("Approval recorded", "assetID", assetID, "actionType", actionType, "status", newStatus)
	return action, nil
}

func (s *approvalService) RecordComment(ctx context.Context, assetID uuid.UUID, scope *LinkScope, in RecordCommentInput) (*types.Comment, error) {
	if strings.TrimSpace(in.AuthorName) == "" {
		return nil, apierr.BadRequest("author_name is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, apierr.BadRequest("content is required")
	}

	asset, err := s.resolveAsset(ctx, nil, assetID, scope)
	if err != nil {
		return nil, err
	}

	comment := &types.Comment{
		ID:         uuid.New(),
		AuthorName: strings.TrimSpace(in.AuthorName),
		AuthorType: in.AuthorType,
		Content:    in.Content,
		AssetID:    asset.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if scope != nil {
		linkID := scope.ReviewLinkID
		comment.ReviewLinkID = &linkID
	}
	if err := s.commentRepo.Create(ctx, nil, comment); err != nil {
		return nil, err
	}

	s.notifier.CommentCreated(ctx, asset.WorkspaceID, comment)
	return comment, nil
}

func (s *approvalService) ListApprovals(ctx context.Context, assetID uuid.UUID, scope *LinkScope) ([]types.ApprovalAction, error) {
	asset, err := s.resolveAsset(ctx, nil, assetID, scope)
	if err != nil {
		return nil, err
	}
	return s.approvalRepo.ListByAsset(ctx, nil, asset.ID)
}

func (s *approvalService) ListComments(ctx context.Context, assetID uuid.UUID, scope *LinkScope) ([]types.Comment, error) {
	asset, err := s.resolveAsset(ctx, nil, assetID, scope)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListByAsset(ctx, nil, asset.ID)
}
