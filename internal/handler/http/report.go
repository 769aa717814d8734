package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	// AttendanceReport handles GET /time-management/report
	AttendanceReport(w http.ResponseWriter, r *http.Request)

	// PayrollReport handles GET /payrolls/report
	PayrollReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

// dateRange reads date_from and date_to (YYYY-MM-DD); empty values default
// in the service.
func dateRange(r *http.Request) report.DateRangeRequest {
	return report.DateRangeRequest{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
	}
}

func (h *reportHandlerImpl) AttendanceReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AttendanceReport(r.Context(), dateRange(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *reportHandlerImpl) PayrollReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.PayrollReport(r.Context(), dateRange(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
