package service

import (
	"context"
	"fmt"

	"backend/internal/repository"
)

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsSystem    bool     `json:"is_system"`
	Permissions []string `json:"permissions"`
}

type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
}

type roleService struct {
	repo repository.RoleRepository
}

func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}

	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		codes := make([]string, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			codes = append(codes, p.Code)
		}
		out = append(out, RoleResponse{
			ID:          role.ID.String(),
			Name:        role.Name,
			Description: role.Description,
			IsSystem:    role.IsSystem,
			Permissions: codes,
		})
	}
	return out, nil
}
