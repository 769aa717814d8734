package timepolicy

import "context"

type OfficeHoursRepository interface {
	Create(ctx context.Context, oh OfficeHours) (OfficeHours, error)
	GetByID(ctx context.Context, id string) (OfficeHours, error)
	// GetDefault returns ErrNoDefaultOfficeHours when no active default exists.
	GetDefault(ctx context.Context) (OfficeHours, error)
	List(ctx context.Context, includeInactive bool) ([]OfficeHours, error)
	Update(ctx context.Context, oh OfficeHours) (OfficeHours, error)
	Deactivate(ctx context.Context, id string) error
	ClearDefault(ctx context.Context) error
	SetDefault(ctx context.Context, id string) error
}

type AttendancePolicyRepository interface {
	Create(ctx context.Context, p AttendancePolicy) (AttendancePolicy, error)
	GetByID(ctx context.Context, id string) (AttendancePolicy, error)
	// GetDefault returns ErrNoDefaultPolicy when no active default exists.
	GetDefault(ctx context.Context) (AttendancePolicy, error)
	List(ctx context.Context, includeInactive bool) ([]AttendancePolicy, error)
	Update(ctx context.Context, p AttendancePolicy) (AttendancePolicy, error)
	Deactivate(ctx context.Context, id string) error
	ClearDefault(ctx context.Context) error
	SetDefault(ctx context.Context, id string) error
}
