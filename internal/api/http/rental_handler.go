package http

import (
	"net/http"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/service"
	"appliance-rental-backend/internal/utils"

	"github.com/gorilla/mux"
)

type RentalHandler struct {
	rentalSvc service.RentalService
}

func NewRentalHandler(rentalSvc service.RentalService) *RentalHandler {
	return &RentalHandler{rentalSvc: rentalSvc}
}

func (h *RentalHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req submitRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rental, err := h.rentalSvc.SubmitRental(r.Context(), claims.UserID, req.ApplianceID, req.DurationMonths, startDate, req.DeliveryAddress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapRental(rental))
}

func (h *RentalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	q := r.URL.Query()
	page, perPage := pageParams(q)

	rentals, total, err := h.rentalSvc.ListMyRentals(r.Context(), claims.UserID, domain.RentalStatus(q.Get("status")), page, perPage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: mapRentals(rentals),
		Meta: listMeta{Page: page, PerPage: perPage, Total: total},
	})
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	rental, err := h.rentalSvc.GetRental(r.Context(), claims.UserID, claims.IsAdmin(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRental(rental))
}
