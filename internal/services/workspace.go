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

type CreateWorkspaceInput struct {
	Name        string
	Description *string
	Deadline    *time.Time
	ClientID    uuid.UUID
	CreatedByID uuid.UUID
}

type UpdateWorkspaceInput struct {
	Name        *string
	Description *string
	Deadline    *time.Time
	Status      *string
}

type WorkspaceService interface {
	Create(ctx context.Context, in CreateWorkspaceInput) (*types.Workspace, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Workspace, error)
	List(ctx context.Context) ([]types.Workspace, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateWorkspaceInput) (*types.Workspace, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AssignUser(ctx context.Context, workspaceID, userID uuid.UUID) (*types.WorkspaceAssignment, error)
	UnassignUser(ctx context.Context, workspaceID, userID uuid.UUID) error
	ListAssignments(ctx context.Context, workspaceID uuid.UUID) ([]types.WorkspaceAssignment, error)
}

type workspaceService struct {
	log            *logger.Logger
	workspaceRepo  repos.WorkspaceRepo
	assignmentRepo repos.WorkspaceAssignmentRepo
	clientRepo     repos.ClientRepo
	userRepo       repos.UserRepo
}

func NewWorkspaceService(
	log *logger.Logger,
	workspaceRepo repos.WorkspaceRepo,
	assignmentRepo repos.WorkspaceAssignmentRepo,
	clientRepo repos.ClientRepo,
	userRepo repos.UserRepo,
) WorkspaceService {
	return &workspaceService{
		log:            log.With("service", "WorkspaceService"),
		workspaceRepo:  workspaceRepo,
		assignmentRepo: assignmentRepo,
		clientRepo:     clientRepo,
		userRepo:       userRepo,
	}
}

func (s *workspaceService) Create(ctx context.Context, in CreateWorkspaceInput) (*types.Workspace, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apierr.BadRequest("name is required")
	}
	if _, err := s.clientRepo.GetByID(ctx, nil, in.ClientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("client not found")
		}
		return nil, err
	}

	now := time.Now().UTC()
	workspace := &types.Workspace{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Deadline:    in.Deadline,
		Status:      types.WorkspaceStatusActive,
		ClientID:    in.ClientID,
		CreatedByID: in.CreatedByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.workspaceRepo.Create(ctx, nil, workspace); err != nil {
		return nil, err
	}
	s.log.Info("Workspace created", "workspaceID", workspace.ID, "clientID", in.ClientID)
	return workspace, nil
}

func (s *workspaceService) Get(ctx context.Context, id uuid.UUID) (*types.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("workspace not found")
		}
		return nil, err
	}
	return workspace, nil
}

func (s *workspaceService) List(ctx context.Context) ([]types.Workspace, error) {
	return s.workspaceRepo.List(ctx, nil)
}

func (s *workspaceService) Update(ctx context.Context, id uuid.UUID, in UpdateWorkspaceInput) (*types.Workspace, error) {
	workspace, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apierr.BadRequest("name cannot be empty")
		}
		workspace.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		workspace.Description = in.Description
	}
	if in.Deadline != nil {
		workspace.Deadline = in.Deadline
	}
	if in.Status != nil {
		status, err := types.ParseWorkspaceStatus(*in.Status)
		if err != nil {
			return nil, apierr.BadRequest("%s", err.Error())
		}
		workspace.Status = status
	}
	workspace.UpdatedAt = time.Now().UTC()
	if err := s.workspaceRepo.Update(ctx, nil, workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

func (s *workspaceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.workspaceRepo.Delete(ctx, nil, id)
}

func (s *workspaceService) AssignUser(ctx context.Context, workspaceID, userID uuid.UUID) (*types.WorkspaceAssignment, error) {
	if _, err := s.Get(ctx, workspaceID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, err
	}

	exists, err := s.assignmentRepo.Exists(ctx, nil, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apierr.Conflict("user is already assigned to this workspace")
	}

	assignment := &types.WorkspaceAssignment{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.assignmentRepo.Create(ctx, nil, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *workspaceService) UnassignUser(ctx context.Context, workspaceID, userID uuid.UUID) error {
	exists, err := s.assignmentRepo.Exists(ctx, nil, workspaceID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apierr.NotFound("assignment not found")
	}
	return s.assignmentRepo.Delete(ctx, nil, workspaceID, userID)
}

func (s *workspaceService) ListAssignments(ctx context.Context, workspaceID uuid.UUID) ([]types.WorkspaceAssignment, error) {
	if _, err := s.Get(ctx, workspaceID); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListByWorkspace(ctx, nil, workspaceID)
}
