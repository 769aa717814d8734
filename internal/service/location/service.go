package location

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
)

type LocationServiceImpl struct {
	location.LocationRepository
}

func NewLocationService(locationRepository location.LocationRepository) location.LocationService {
	return &LocationServiceImpl{LocationRepository: locationRepository}
}

func requireManage(ctx context.Context) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return p.Require(user.PermissionLocationManage)
}

// Create implements location.LocationService.
func (s *LocationServiceImpl) Create(ctx context.Context, req location.LocationRequest) (location.LocationResponse, error) {
	if err := requireManage(ctx); err != nil {
		return location.LocationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	created, err := s.LocationRepository.Create(ctx, req.Entity())
	if err != nil {
		return location.LocationResponse{}, fmt.Errorf("failed to create location: %w", err)
	}
	return location.NewLocationResponse(created), nil
}

// Get implements location.LocationService.
func (s *LocationServiceImpl) Get(ctx context.Context, id string) (location.LocationResponse, error) {
	if _, err := user.PrincipalFromContext(ctx); err != nil {
		return location.LocationResponse{}, err
	}
	l, err := s.LocationRepository.GetByID(ctx, id)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return location.NewLocationResponse(l), nil
}

// List implements location.LocationService.
func (s *LocationServiceImpl) List(ctx context.Context, includeInactive bool) ([]location.LocationResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.LocationRepository.List(ctx, includeInactive && p.Can(user.PermissionLocationManage))
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	resp := make([]location.LocationResponse, 0, len(list))
	for _, l := range list {
		resp = append(resp, location.NewLocationResponse(l))
	}
	return resp, nil
}

// Update implements location.LocationService. Omitted is_active keeps the
// current state.
func (s *LocationServiceImpl) Update(ctx context.Context, req location.LocationRequest) (location.LocationResponse, error) {
	if err := requireManage(ctx); err != nil {
		return location.LocationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return location.LocationResponse{}, err
	}

	existing, err := s.LocationRepository.GetByID(ctx, req.ID)
	if err != nil {
		return location.LocationResponse{}, err
	}
	l := req.Entity()
	if req.IsActive == nil {
		l.IsActive = existing.IsActive
	}
	l.CreatedAt = existing.CreatedAt

	updated, err := s.LocationRepository.Update(ctx, l)
	if err != nil {
		return location.LocationResponse{}, err
	}
	return location.NewLocationResponse(updated), nil
}

// Deactivate implements location.LocationService.
func (s *LocationServiceImpl) Deactivate(ctx context.Context, id string) error {
	if err := requireManage(ctx); err != nil {
		return err
	}
	return s.LocationRepository.Deactivate(ctx, id)
}
