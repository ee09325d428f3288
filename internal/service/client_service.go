package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateClientRequest struct {
	CompanyName    string `json:"company_name" binding:"required"`
	ContactName    string `json:"contact_name"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billing_address"`
	HourlyRate     string `json:"hourly_rate"` // Optional override of the org default
}

type UpdateClientRequest struct {
	CompanyName    *string `json:"company_name"`
	ContactName    *string `json:"contact_name"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone"`
	BillingAddress *string `json:"billing_address"`
	HourlyRate     *string `json:"hourly_rate"`
}

type ClientResponse struct {
	ID             string  `json:"id"`
	CompanyName    string  `json:"company_name"`
	ContactName    string  `json:"contact_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	BillingAddress string  `json:"billing_address"`
	HourlyRate     *string `json:"hourly_rate"`
	CreatedAt      string  `json:"created_at"`
}

// --- Interface ---

type ClientService interface {
	CreateClient(ctx context.Context, userID string, req CreateClientRequest) (ClientResponse, error)
	GetClient(ctx context.Context, id string) (ClientResponse, error)
	ListClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error)
	UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error)
	DeleteClient(ctx context.Context, id string) error
}

type clientService struct {
	clientRepo repository.ClientRepository
	audit      AuditService
}

func NewClientService(clientRepo repository.ClientRepository, audit AuditService) ClientService {
	return &clientService{clientRepo: clientRepo, audit: audit}
}

// --- Implementation ---

func (s *clientService) CreateClient(ctx context.Context, userID string, req CreateClientRequest) (ClientResponse, error) {
	client := model.Client{
		CompanyName:    req.CompanyName,
		ContactName:    req.ContactName,
		Email:          req.Email,
		Phone:          req.Phone,
		BillingAddress: req.BillingAddress,
	}

	if req.HourlyRate != "" {
		rate, err := decimal.NewFromString(req.HourlyRate)
		if err != nil {
			return ClientResponse{}, fmt.Errorf("invalid hourly_rate: %w", err)
		}
		client.HourlyRate = &rate
	}

	if err := s.clientRepo.Create(ctx, &client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to create client: %w", err)
	}

	s.audit.Record(ctx, userID, model.ActionCreateClient, client.ID.String(), client.CompanyName, nil)

	return toClientResponse(client), nil
}

func (s *clientService) GetClient(ctx context.Context, id string) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}
	return toClientResponse(*client), nil
}

func (s *clientService) ListClients(ctx context.Context, search string, page, limit int) ([]ClientResponse, int64, error) {
	clients, total, err := s.clientRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch clients: %w", err)
	}

	result := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		result = append(result, toClientResponse(client))
	}
	return result, total, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error) {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("invalid client id: %w", err)
	}

	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return ClientResponse{}, fmt.Errorf("client not found: %w", err)
	}

	if req.CompanyName != nil {
		client.CompanyName = *req.CompanyName
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.BillingAddress != nil {
		client.BillingAddress = *req.BillingAddress
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate == "" {
			client.HourlyRate = nil
		} else {
			rate, err := decimal.NewFromString(*req.HourlyRate)
			if err != nil {
				return ClientResponse{}, fmt.Errorf("invalid hourly_rate: %w", err)
			}
			client.HourlyRate = &rate
		}
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return ClientResponse{}, fmt.Errorf("failed to update client: %w", err)
	}
	return toClientResponse(*client), nil
}

func (s *clientService) DeleteClient(ctx context.Context, id string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid client id: %w", err)
	}
	return s.clientRepo.Delete(ctx, clientID)
}

// --- Mapping ---

func toClientResponse(client model.Client) ClientResponse {
	resp := ClientResponse{
		ID:             client.ID.String(),
		CompanyName:    client.CompanyName,
		ContactName:    client.ContactName,
		Email:          client.Email,
		Phone:          client.Phone,
		BillingAddress: client.BillingAddress,
		CreatedAt:      client.CreatedAt.Format(timeFormat),
	}
	if client.HourlyRate != nil {
		rate := client.HourlyRate.StringFixed(2)
		resp.HourlyRate = &rate
	}
	return resp
}
