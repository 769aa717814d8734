package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/qrattendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type QRAttendanceHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Scan(w http.ResponseWriter, r *http.Request)
	ValidateLocation(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type qrAttendanceHandlerImpl struct {
	qrService qrattendance.QRAttendanceService
}

func NewQRAttendanceHandler(qrService qrattendance.QRAttendanceService) QRAttendanceHandler {
	return &qrAttendanceHandlerImpl{qrService: qrService}
}

func (h *qrAttendanceHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req qrattendance.GenerateRequest
	if !decodeBody(w, r, &req, "GenerateQR") {
		return
	}

	result, err := h.qrService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "QR code generated successfully", result)
}

func (h *qrAttendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req qrattendance.ScanRequest
	if !decodeBody(w, r, &req, "ScanQR") {
		return
	}

	result, err := h.qrService.Scan(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *qrAttendanceHandlerImpl) ValidateLocation(w http.ResponseWriter, r *http.Request) {
	var req qrattendance.ValidateLocationRequest
	if !decodeBody(w, r, &req, "ValidateLocation") {
		return
	}

	result, err := h.qrService.ValidateLocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *qrAttendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	filter := attendance.HistoryFilter{
		EmployeeID: queryPtr(r, "employee_id"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.qrService.History(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
