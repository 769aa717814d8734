package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/location"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LocationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService location.LocationService
}

func NewLocationHandler(locationService location.LocationService) LocationHandler {
	return &locationHandlerImpl{locationService: locationService}
}

func (h *locationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.List(r.Context(), includeInactive(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *locationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req location.LocationRequest
	if !decodeBody(w, r, &req, "CreateLocation") {
		return
	}

	result, err := h.locationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Location created successfully", result)
}

func (h *locationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.locationService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *locationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req location.LocationRequest
	if !decodeBody(w, r, &req, "UpdateLocation") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.locationService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Location updated successfully", result)
}

func (h *locationHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.locationService.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Location deactivated successfully", nil)
}
