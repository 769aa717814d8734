package employee

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	UserID       string
	EmployeeCode string
	FirstName    string
	LastName     string
	Phone        *string
	Address      *string
	Department   *string
	Position     *string
	Salary       decimal.Decimal
	HireDate     time.Time
	BankAccount  *string
	TaxID        *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from users
	Username string
	Email    string
	Role     string
}

func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// NewEmployeeCode returns "EMP" followed by eight upper-case hex digits.
func NewEmployeeCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "EMP" + strings.ToUpper(id[:8])
}

var usernameStrip = regexp.MustCompile(`[^a-z0-9.]+`)

// BaseUsername derives "first.last" from a name, keeping only [a-z0-9.].
func BaseUsername(firstName, lastName string) string {
	base := strings.ToLower(strings.TrimSpace(firstName) + "." + strings.TrimSpace(lastName))
	base = usernameStrip.ReplaceAllString(base, "")
	base = strings.Trim(base, ".")
	if len(base) < 3 {
		base = "user." + base
	}
	if len(base) > 70 {
		base = base[:70]
	}
	return base
}
