package http

import (
	"net/http"

	"appliance-rental-backend/internal/security"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Appliance    *ApplianceHandler
	Rental       *RentalHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
	Health       *HealthHandler
}

// NewRouter wires every route under /api/v1. Login, refresh and health are
// public; the rest need an access token and /admin additionally the admin role.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware, LoggingMiddleware)

	r.HandleFunc("/healthz", h.Health.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(AuthMiddleware(tokens))

	protected.HandleFunc("/users/me", h.User.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/users/me", h.User.UpdateMe).Methods(http.MethodPut)

	protected.HandleFunc("/appliances", h.Appliance.List).Methods(http.MethodGet)
	protected.HandleFunc("/appliances/{id}", h.Appliance.Get).Methods(http.MethodGet)
	protected.HandleFunc("/appliances/{id}/quote", h.Appliance.Quote).Methods(http.MethodGet)

	protected.HandleFunc("/rentals", h.Rental.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/rentals", h.Rental.ListMine).Methods(http.MethodGet)
	protected.HandleFunc("/rentals/{id}", h.Rental.Get).Methods(http.MethodGet)

	protected.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{id}/read", h.Notification.MarkRead).Methods(http.MethodPost)

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)

	admin.HandleFunc("/appliances", h.Appliance.Create).Methods(http.MethodPost)
	admin.HandleFunc("/appliances/{id}", h.Appliance.Update).Methods(http.MethodPut)
	admin.HandleFunc("/appliances/{id}/status", h.Appliance.SetStatus).Methods(http.MethodPost)

	admin.HandleFunc("/rentals", h.Admin.ListRentals).Methods(http.MethodGet)
	admin.HandleFunc("/rentals/{id}/approve", h.Admin.Approve).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/reject", h.Admin.Reject).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/activate", h.Admin.Activate).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/complete", h.Admin.Complete).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/cancel", h.Admin.Cancel).Methods(http.MethodPost)
	admin.HandleFunc("/rentals/{id}/installments/{number}/payment-method", h.Admin.ChangePaymentMethod).Methods(http.MethodPatch)
	admin.HandleFunc("/rentals/{id}/payment-method", h.Admin.ChangePaymentMethod).Methods(http.MethodPatch)
	admin.HandleFunc("/rentals/{id}/installments/{number}/pay", h.Admin.MarkPaid).Methods(http.MethodPost)

	return r
}
