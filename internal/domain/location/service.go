package location

import "context"

type LocationService interface {
	Create(ctx context.Context, req LocationRequest) (LocationResponse, error)
	Get(ctx context.Context, id string) (LocationResponse, error)
	// List returns active locations; staff may include inactive ones
	List(ctx context.Context, includeInactive bool) ([]LocationResponse, error)
	Update(ctx context.Context, req LocationRequest) (LocationResponse, error)
	Deactivate(ctx context.Context, id string) error
}
