package location

import "context"

type LocationRepository interface {
	Create(ctx context.Context, l OfficeLocation) (OfficeLocation, error)
	GetByID(ctx context.Context, id string) (OfficeLocation, error)
	List(ctx context.Context, includeInactive bool) ([]OfficeLocation, error)
	Update(ctx context.Context, l OfficeLocation) (OfficeLocation, error)
	Deactivate(ctx context.Context, id string) error
}
