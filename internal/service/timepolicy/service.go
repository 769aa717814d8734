package timepolicy

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type TimePolicyServiceImpl struct {
	tx database.Transactor
	timepolicy.OfficeHoursRepository
	policies timepolicy.AttendancePolicyRepository
}

func NewTimePolicyService(tx database.Transactor, officeHoursRepository timepolicy.OfficeHoursRepository, policyRepository timepolicy.AttendancePolicyRepository) timepolicy.TimePolicyService {
	return &TimePolicyServiceImpl{
		tx:                    tx,
		OfficeHoursRepository: officeHoursRepository,
		policies:              policyRepository,
	}
}

func requireManage(ctx context.Context) error {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	return p.Require(user.PermissionTimePolicyManage)
}

// ========== OFFICE HOURS ==========

// CreateOfficeHours implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) CreateOfficeHours(ctx context.Context, req timepolicy.OfficeHoursRequest) (timepolicy.OfficeHoursResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	oh, err := req.Validate()
	if err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}

	var created timepolicy.OfficeHours
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// At most one default: the flag is applied through SetDefault
		isDefault := oh.IsDefault
		oh.IsDefault = false
		created, err = s.OfficeHoursRepository.Create(txCtx, oh)
		if err != nil {
			return fmt.Errorf("failed to create office hours: %w", err)
		}
		if !isDefault {
			return nil
		}
		if err := s.makeDefaultOfficeHours(txCtx, created.ID); err != nil {
			return err
		}
		created.IsDefault = true
		return nil
	})
	if err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	return timepolicy.NewOfficeHoursResponse(created), nil
}

func (s *TimePolicyServiceImpl) makeDefaultOfficeHours(ctx context.Context, id string) error {
	if err := s.OfficeHoursRepository.ClearDefault(ctx); err != nil {
		return fmt.Errorf("failed to clear default office hours: %w", err)
	}
	return s.OfficeHoursRepository.SetDefault(ctx, id)
}

// GetOfficeHours implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) GetOfficeHours(ctx context.Context, id string) (timepolicy.OfficeHoursResponse, error) {
	if _, err := user.PrincipalFromContext(ctx); err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	oh, err := s.OfficeHoursRepository.GetByID(ctx, id)
	if err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	return timepolicy.NewOfficeHoursResponse(oh), nil
}

// ListOfficeHours implements timepolicy.TimePolicyService. Only managers see
// inactive records.
func (s *TimePolicyServiceImpl) ListOfficeHours(ctx context.Context, includeInactive bool) ([]timepolicy.OfficeHoursResponse, error) {
	p, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.OfficeHoursRepository.List(ctx, includeInactive && p.Can(user.PermissionTimePolicyManage))
	if err != nil {
		return nil, fmt.Errorf("failed to list office hours: %w", err)
	}
	resp := make([]timepolicy.OfficeHoursResponse, 0, len(list))
	for _, oh := range list {
		resp = append(resp, timepolicy.NewOfficeHoursResponse(oh))
	}
	return resp, nil
}

// UpdateOfficeHours implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) UpdateOfficeHours(ctx context.Context, req timepolicy.OfficeHoursRequest) (timepolicy.OfficeHoursResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	oh, err := req.Validate()
	if err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}

	var updated timepolicy.OfficeHours
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.OfficeHoursRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		oh.IsActive = existing.IsActive
		updated, err = s.OfficeHoursRepository.Update(txCtx, oh)
		if err != nil {
			return err
		}
		if req.IsDefault && !updated.IsDefault {
			if !updated.IsActive {
				return timepolicy.ErrInactive
			}
			if err := s.makeDefaultOfficeHours(txCtx, updated.ID); err != nil {
				return err
			}
			updated.IsDefault = true
		}
		return nil
	})
	if err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	return timepolicy.NewOfficeHoursResponse(updated), nil
}

// DeleteOfficeHours implements timepolicy.TimePolicyService. Records are
// deactivated, never removed.
func (s *TimePolicyServiceImpl) DeleteOfficeHours(ctx context.Context, id string) error {
	if err := requireManage(ctx); err != nil {
		return err
	}
	return s.OfficeHoursRepository.Deactivate(ctx, id)
}

// SetDefaultOfficeHours implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) SetDefaultOfficeHours(ctx context.Context, id string) (timepolicy.OfficeHoursResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}

	var oh timepolicy.OfficeHours
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		oh, err = s.OfficeHoursRepository.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !oh.IsActive {
			return timepolicy.ErrInactive
		}
		if err := s.makeDefaultOfficeHours(txCtx, id); err != nil {
			return err
		}
		oh.IsDefault = true
		return nil
	})
	if err != nil {
		return timepolicy.OfficeHoursResponse{}, err
	}
	return timepolicy.NewOfficeHoursResponse(oh), nil
}

// ========== ATTENDANCE POLICIES ==========

// CreatePolicy implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) CreatePolicy(ctx context.Context, req timepolicy.AttendancePolicyRequest) (timepolicy.AttendancePolicyResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	policy, err := req.Validate()
	if err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}

	var created timepolicy.AttendancePolicy
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		isDefault := policy.IsDefault
		policy.IsDefault = false
		created, err = s.policies.Create(txCtx, policy)
		if err != nil {
			return fmt.Errorf("failed to create attendance policy: %w", err)
		}
		if !isDefault {
			return nil
		}
		if err := s.makeDefaultPolicy(txCtx, created.ID); err != nil {
			return err
		}
		created.IsDefault = true
		return nil
	})
	if err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	return timepolicy.NewAttendancePolicyResponse(created), nil
}

func (s *TimePolicyServiceImpl) makeDefaultPolicy(ctx context.Context, id string) error {
	if err := s.policies.ClearDefault(ctx); err != nil {
		return fmt.Errorf("failed to clear default policy: %w", err)
	}
	return s.policies.SetDefault(ctx, id)
}

// GetPolicy implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) GetPolicy(ctx context.Context, id string) (timepolicy.AttendancePolicyResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	policy, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	return timepolicy.NewAttendancePolicyResponse(policy), nil
}

// ListPolicies implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) ListPolicies(ctx context.Context, includeInactive bool) ([]timepolicy.AttendancePolicyResponse, error) {
	if err := requireManage(ctx); err != nil {
		return nil, err
	}
	list, err := s.policies.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance policies: %w", err)
	}
	resp := make([]timepolicy.AttendancePolicyResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, timepolicy.NewAttendancePolicyResponse(p))
	}
	return resp, nil
}

// UpdatePolicy implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) UpdatePolicy(ctx context.Context, req timepolicy.AttendancePolicyRequest) (timepolicy.AttendancePolicyResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	policy, err := req.Validate()
	if err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}

	var updated timepolicy.AttendancePolicy
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.policies.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		policy.IsActive = existing.IsActive
		updated, err = s.policies.Update(txCtx, policy)
		if err != nil {
			return err
		}
		if req.IsDefault && !updated.IsDefault {
			if !updated.IsActive {
				return timepolicy.ErrInactive
			}
			if err := s.makeDefaultPolicy(txCtx, updated.ID); err != nil {
				return err
			}
			updated.IsDefault = true
		}
		return nil
	})
	if err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	return timepolicy.NewAttendancePolicyResponse(updated), nil
}

// DeletePolicy implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) DeletePolicy(ctx context.Context, id string) error {
	if err := requireManage(ctx); err != nil {
		return err
	}
	return s.policies.Deactivate(ctx, id)
}

// SetDefaultPolicy implements timepolicy.TimePolicyService.
func (s *TimePolicyServiceImpl) SetDefaultPolicy(ctx context.Context, id string) (timepolicy.AttendancePolicyResponse, error) {
	if err := requireManage(ctx); err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}

	var policy timepolicy.AttendancePolicy
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		policy, err = s.policies.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !policy.IsActive {
			return timepolicy.ErrInactive
		}
		if err := s.makeDefaultPolicy(txCtx, id); err != nil {
			return err
		}
		policy.IsDefault = true
		return nil
	})
	if err != nil {
		return timepolicy.AttendancePolicyResponse{}, err
	}
	return timepolicy.NewAttendancePolicyResponse(policy), nil
}
