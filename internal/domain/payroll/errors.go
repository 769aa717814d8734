package payroll

import "errors"

var (
	ErrPayrollNotFound      = errors.New("payroll record not found")
	ErrPayrollAlreadyExists = errors.New("payroll already exists for this employee and pay period")
	ErrPayrollAlreadyPaid   = errors.New("payroll record already paid")
	ErrPayrollNotProcessed  = errors.New("payroll record has not been processed")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrNoEmployeesToProcess = errors.New("no active employees to process")
)
