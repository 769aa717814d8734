package pagination

import "github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is embedded in list filters.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize applies defaults and records out-of-range values in errs.
func (p *Params) Normalize(errs *validator.ValidationErrors) {
	if p.Page < 0 {
		errs.Add("page", "page must be a positive number")
	}
	if p.Page == 0 {
		p.Page = 1
	}

	if p.Limit < 0 {
		errs.Add("limit", "limit must be a positive number")
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		errs.Add("limit", "limit must not exceed 100")
	}
}

func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the page count for total items.
func (p Params) TotalPages(total int64) int {
	if p.Limit <= 0 || total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
