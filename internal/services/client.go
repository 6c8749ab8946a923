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

type CreateClientInput struct {
	Name        string
	Company     string
	Email       string
	Phone       *string
	Industry    *string
	CreatedByID uuid.UUID
}

type UpdateClientInput struct {
	Name     *string
	Company  *string
	Email    *string
	Phone    *string
	Industry *string
}

type ClientService interface {
	Create(ctx context.Context, in CreateClientInput) (*types.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Client, error)
	List(ctx context.Context) ([]types.Client, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateClientInput) (*types.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	log        *logger.Logger
	clientRepo repos.ClientRepo
}

func NewClientService(log *logger.Logger, clientRepo repos.ClientRepo) ClientService {
	return &clientService{
		log:        log.With("service", "ClientService"),
		clientRepo: clientRepo,
	}
}

func (s *clientService) Create(ctx context.Context, in CreateClientInput) (*types.Client, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apierr.BadRequest("name is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		return nil, apierr.BadRequest("company is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, apierr.BadRequest("email is required")
	}

	now := time.Now().UTC()
	client := &types.Client{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		Company:     strings.TrimSpace(in.Company),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       in.Phone,
		Industry:    in.Industry,
		CreatedByID: in.CreatedByID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.clientRepo.Create(ctx, nil, client); err != nil {
		return nil, err
	}
	s.log.Info("Client created", "clientID", client.ID)
	return client, nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*types.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("client not found")
		}
		return nil, err
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context) ([]types.Client, error) {
	return s.clientRepo.List(ctx, nil)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, in UpdateClientInput) (*types.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		client.Name = strings.TrimSpace(*in.Name)
	}
	if in.Company != nil {
		client.Company = strings.TrimSpace(*in.Company)
	}
	if in.Email != nil {
		client.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		client.Phone = in.Phone
	}
	if in.Industry != nil {
		client.Industry = in.Industry
	}
	client.UpdatedAt = time.Now().UTC()
	if err := s.clientRepo.Update(ctx, nil, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, nil, id)
}
