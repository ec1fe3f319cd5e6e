package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/domain"
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/dto"
	"github.com/google/uuid"
)

type clientService struct {
	BaseService
	clientRepo portsrepo.ClientRepositoryFacade
	cache      gateways.Cache
}

// ClientServiceOption is a functional option for configuring the client service
type ClientServiceOption func(*clientService)

// WithClientCacheInvalidation drops cached dashboard figures after every client write, since
// reports carry client names.
func WithClientCacheInvalidation(cache gateways.Cache) ClientServiceOption {
	return func(s *clientService) {
		s.cache = cache
	}
}

func NewClientService(repo portsrepo.ClientRepositoryFacade, options ...ClientServiceOption) portssvc.ClientSvcFacade {
	svc := &clientService{clientRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ClientSvcFacade = (*clientService)(nil)

func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, actorID string) (*domain.Client, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	client := domain.Client{
		ClientID: uuid.NewString(),
		Name:     req.Name,
		Company:  req.Company,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		s.LogError(ctx, err, "Failed to save client", slog.String("client_id", client.ClientID))
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.LogInfo(ctx, "Client created", slog.String("client_id", client.ClientID))
	s.invalidateReports(ctx)
	return &client, nil
}

func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find client", slog.String("client_id", clientID))
		return nil, err
	}
	return client, nil
}

func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clientRepo.ListClients(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list clients")
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if clients == nil {
		return []domain.Client{}, nil
	}
	return clients, nil
}

func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, actorID string) (*domain.Client, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find client for update", slog.String("client_id", clientID))
		return nil, err
	}
	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	client.LastUpdatedAt = time.Now().UTC()
	client.LastUpdatedBy = actorID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update client", slog.String("client_id", clientID))
		return nil, err
	}
	s.invalidateReports(ctx)
	return client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string) error {
	if err := s.clientRepo.DeleteClient(ctx, clientID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete client", slog.String("client_id", clientID))
		return err
	}
	s.LogInfo(ctx, "Client deleted", slog.String("client_id", clientID))
	s.invalidateReports(ctx)
	return nil
}

func (s *clientService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.LogError(ctx, err, "Failed to invalidate dashboard cache")
	}
}
