package service

import (
	"context"

	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/repository"
	"github.com/gladeswatch/backend/internal/server"
)

// OperationService serves the read side of the flight operations API.
type OperationService struct {
	server *server.Server
	repo   *repository.OperationRepository
}

// NewOperationService creates an OperationService.
func NewOperationService(s *server.Server, repo *repository.OperationRepository) *OperationService {
	return &OperationService{server: s, repo: repo}
}

// List returns inferred operations matching the filter.
func (o *OperationService) List(ctx context.Context, filter model.OperationFilter) ([]model.FlightOperation, error) {
	return o.repo.List(ctx, filter)
}
