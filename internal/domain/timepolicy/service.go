package timepolicy

import "context"

type TimePolicyService interface {
	CreateOfficeHours(ctx context.Context, req OfficeHoursRequest) (OfficeHoursResponse, error)
	GetOfficeHours(ctx context.Context, id string) (OfficeHoursResponse, error)
	ListOfficeHours(ctx context.Context, includeInactive bool) ([]OfficeHoursResponse, error)
	UpdateOfficeHours(ctx context.Context, req OfficeHoursRequest) (OfficeHoursResponse, error)
	DeleteOfficeHours(ctx context.Context, id string) error
	SetDefaultOfficeHours(ctx context.Context, id string) (OfficeHoursResponse, error)

	CreatePolicy(ctx context.Context, req AttendancePolicyRequest) (AttendancePolicyResponse, error)
	GetPolicy(ctx context.Context, id string) (AttendancePolicyResponse, error)
	ListPolicies(ctx context.Context, includeInactive bool) ([]AttendancePolicyResponse, error)
	UpdatePolicy(ctx context.Context, req AttendancePolicyRequest) (AttendancePolicyResponse, error)
	DeletePolicy(ctx context.Context, id string) error
	SetDefaultPolicy(ctx context.Context, id string) (AttendancePolicyResponse, error)
}
