package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/timepolicy"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// TimePolicyHandler serves office hours and attendance policies under
// /time-management.
type TimePolicyHandler interface {
	ListOfficeHours(w http.ResponseWriter, r *http.Request)
	CreateOfficeHours(w http.ResponseWriter, r *http.Request)
	GetOfficeHours(w http.ResponseWriter, r *http.Request)
	UpdateOfficeHours(w http.ResponseWriter, r *http.Request)
	DeleteOfficeHours(w http.ResponseWriter, r *http.Request)
	SetDefaultOfficeHours(w http.ResponseWriter, r *http.Request)

	ListPolicies(w http.ResponseWriter, r *http.Request)
	CreatePolicy(w http.ResponseWriter, r *http.Request)
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	DeletePolicy(w http.ResponseWriter, r *http.Request)
	SetDefaultPolicy(w http.ResponseWriter, r *http.Request)
}

type timePolicyHandlerImpl struct {
	timePolicyService timepolicy.TimePolicyService
}

func NewTimePolicyHandler(timePolicyService timepolicy.TimePolicyService) TimePolicyHandler {
	return &timePolicyHandlerImpl{timePolicyService: timePolicyService}
}

func includeInactive(r *http.Request) bool {
	v := queryBool(r, "include_inactive")
	return v != nil && *v
}

func (h *timePolicyHandlerImpl) ListOfficeHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.timePolicyService.ListOfficeHours(r.Context(), includeInactive(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *timePolicyHandlerImpl) CreateOfficeHours(w http.ResponseWriter, r *http.Request) {
	var req timepolicy.OfficeHoursRequest
	if !decodeBody(w, r, &req, "CreateOfficeHours") {
		return
	}

	result, err := h.timePolicyService.CreateOfficeHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Office hours created successfully", result)
}

func (h *timePolicyHandlerImpl) GetOfficeHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.timePolicyService.GetOfficeHours(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *timePolicyHandlerImpl) UpdateOfficeHours(w http.ResponseWriter, r *http.Request) {
	var req timepolicy.OfficeHoursRequest
	if !decodeBody(w, r, &req, "UpdateOfficeHours") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.timePolicyService.UpdateOfficeHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Office hours updated successfully", result)
}

func (h *timePolicyHandlerImpl) DeleteOfficeHours(w http.ResponseWriter, r *http.Request) {
	if err := h.timePolicyService.DeleteOfficeHours(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Office hours deleted successfully", nil)
}

func (h *timePolicyHandlerImpl) SetDefaultOfficeHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.timePolicyService.SetDefaultOfficeHours(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Default office hours updated", result)
}

func (h *timePolicyHandlerImpl) ListPolicies(w http.ResponseWriter, r *http.Request) {
	result, err := h.timePolicyService.ListPolicies(r.Context(), includeInactive(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *timePolicyHandlerImpl) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var req timepolicy.AttendancePolicyRequest
	if !decodeBody(w, r, &req, "CreatePolicy") {
		return
	}

	result, err := h.timePolicyService.CreatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance policy created successfully", result)
}

func (h *timePolicyHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.timePolicyService.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *timePolicyHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req timepolicy.AttendancePolicyRequest
	if !decodeBody(w, r, &req, "UpdatePolicy") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.timePolicyService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance policy updated successfully", result)
}

func (h *timePolicyHandlerImpl) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	if err := h.timePolicyService.DeletePolicy(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance policy deleted successfully", nil)
}

func (h *timePolicyHandlerImpl) SetDefaultPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.timePolicyService.SetDefaultPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Default attendance policy updated", result)
}
