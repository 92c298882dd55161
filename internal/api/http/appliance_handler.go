package http

import (
	"fmt"
	"net/http"
	"strconv"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/service"
	"appliance-rental-backend/internal/utils"

	"github.com/gorilla/mux"
)

type ApplianceHandler struct {
	applianceSvc service.ApplianceService
	adminSvc     service.AdminService
}

func NewApplianceHandler(applianceSvc service.ApplianceService, adminSvc service.AdminService) *ApplianceHandler {
	return &ApplianceHandler{applianceSvc: applianceSvc, adminSvc: adminSvc}
}

func (h *ApplianceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := pageParams(q)
	filter := domain.ApplianceFilter{
		Status:   domain.ApplianceStatus(q.Get("status")),
		Type:     domain.ApplianceType(q.Get("type")),
		Page:     page,
		PageSize: perPage,
	}
	appliances, total, err := h.applianceSvc.ListAppliances(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: appliances,
		Meta: listMeta{Page: page, PerPage: perPage, Total: total},
	})
}

func (h *ApplianceHandler) Get(w http.ResponseWriter, r *http.Request) {
	appliance, err := h.applianceSvc.GetAppliance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appliance)
}

// Quote previews the schedule a rental would get without creating anything.
func (h *ApplianceHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	q := r.URL.Query()

	months, err := strconv.Atoi(q.Get("months"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: months must be an integer", domain.ErrInvalidInput))
		return
	}
	startDate, err := utils.ParseDate(q.Get("startDate"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	quote, err := h.applianceSvc.QuoteRental(r.Context(), id, months, startDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapQuote(id, quote))
}

func (h *ApplianceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req applianceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	appliance := req.toDomain("")
	if err := h.applianceSvc.CreateAppliance(r.Context(), appliance); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, appliance)
}

func (h *ApplianceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req applianceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	appliance, err := h.applianceSvc.UpdateAppliance(r.Context(), req.toDomain(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appliance)
}

func (h *ApplianceHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req applianceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	appliance, err := h.adminSvc.SetApplianceStatus(r.Context(), claims.UserID, mux.Vars(r)["id"], domain.ApplianceStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, appliance)
}
