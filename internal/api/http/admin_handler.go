package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/service"

	"github.com/gorilla/mux"
)

// AdminHandler exposes the admin action gateway. Every route sits behind RequireAdmin.
type AdminHandler struct {
	adminSvc  service.AdminService
	rentalSvc service.RentalService
	now       func() time.Time
}

func NewAdminHandler(adminSvc service.AdminService, rentalSvc service.RentalService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, rentalSvc: rentalSvc, now: time.Now}
}

func (h *AdminHandler) ListRentals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := pageParams(q)
	filter := domain.RentalFilter{
		Status:      domain.RentalStatus(q.Get("status")),
		ApplianceID: q.Get("applianceId"),
		UserID:      q.Get("userId"),
		Page:        page,
		PageSize:    perPage,
	}
	rentals, total, err := h.rentalSvc.ListRentals(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data: mapRentals(rentals),
		Meta: listMeta{Page: page, PerPage: perPage, Total: total},
	})
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req approveRentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.adminSvc.ApproveRental(r.Context(), claims.UserID, mux.Vars(r)["id"], req.DeliveryAddress)
	h.respondRental(w, r, rental, err)
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.adminSvc.RejectRental(r.Context(), claims.UserID, mux.Vars(r)["id"], req.Reason)
	h.respondRental(w, r, rental, err)
}

func (h *AdminHandler) Activate(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	rental, err := h.adminSvc.ActivateRental(r.Context(), claims.UserID, mux.Vars(r)["id"])
	h.respondRental(w, r, rental, err)
}

func (h *AdminHandler) Complete(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	rental, err := h.adminSvc.CompleteRental(r.Context(), claims.UserID, mux.Vars(r)["id"])
	h.respondRental(w, r, rental, err)
}

func (h *AdminHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req reasonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rental, err := h.adminSvc.CancelRental(r.Context(), claims.UserID, mux.Vars(r)["id"], req.Reason)
	h.respondRental(w, r, rental, err)
}

func (h *AdminHandler) ChangePaymentMethod(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req paymentMethodRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	number, err := installmentNumber(r, req.InstallmentNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}

	inst, err := h.adminSvc.ChangeInstallmentPaymentMethod(r.Context(), claims.UserID, mux.Vars(r)["id"], number, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapInstallment(inst))
}

func (h *AdminHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	var req markPaidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	number, err := installmentNumber(r, 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	paidAt, err := parsePaidAt(req.PaidAt, h.now)
	if err != nil {
		writeError(w, r, err)
		return
	}

	inst, err := h.adminSvc.MarkInstallmentPaid(r.Context(), claims.UserID, mux.Vars(r)["id"], number, req.PaidAmount, paidAt)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapInstallment(inst))
}

func (h *AdminHandler) respondRental(w http.ResponseWriter, r *http.Request, rental *domain.RentalRequest, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRental(rental))
}

// installmentNumber prefers the path variable and falls back to the body value.
func installmentNumber(r *http.Request, fromBody int) (int, error) {
	raw, ok := mux.Vars(r)["number"]
	if !ok || raw == "" {
		if fromBody < 1 {
			return 0, fmt.Errorf("%w: installment number is required", domain.ErrInvalidInput)
		}
		return fromBody, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: invalid installment number %q", domain.ErrInvalidInput, raw)
	}
	return n, nil
}

// parsePaidAt accepts RFC 3339 timestamps or plain dates. Empty means now.
func parsePaidAt(raw string, now func() time.Time) (time.Time, error) {
	if raw == "" {
		return now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(domain.DateLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid paidAt %q", domain.ErrInvalidInput, raw)
}
