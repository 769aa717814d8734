package employee

import (
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmployeeCode(t *testing.T) {
	code := NewEmployeeCode()
	assert.True(t, validator.IsValidEmployeeCode(code), code)
	assert.NotEqual(t, code, NewEmployeeCode())
}

func TestBaseUsername(t *testing.T) {
	assert.Equal(t, "jane.doe", BaseUsername("Jane", "Doe"))
	assert.Equal(t, "maryann.oconnor", BaseUsername("Mary-Ann", "O'Connor"))
	assert.Equal(t, "maryann.oconnor", BaseUsername("Mary Ann", "O'Connor"))
	assert.Equal(t, "a.b", BaseUsername("A", "B"))
	assert.Equal(t, "user.x", BaseUsername("", "X"))
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	req := CreateEmployeeRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Salary:    decimal.NewFromInt(75000),
		HireDate:  "2024-01-15",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "employee", req.Role)

	bad := CreateEmployeeRequest{
		FirstName: "",
		Email:     "not-an-email",
		Salary:    decimal.NewFromInt(-1),
		HireDate:  "15/01/2024",
		Role:      "owner",
	}
	err := bad.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	for _, f := range []string{"first_name", "last_name", "email", "salary", "hire_date", "role"} {
		assert.Contains(t, fields, f)
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Employee{FirstName: "Jane", LastName: "Doe"}.FullName())
}
