package http

import (
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/utils"
)

func mapInstallment(inst *domain.Installment) installmentResponse {
	return installmentResponse{
		RentalID:          inst.RentalID,
		InstallmentNumber: inst.Number,
		DueDate:           inst.DueDate.Format(domain.DateLayout),
		Amount:            inst.Amount,
		Status:            string(inst.Status),
		PaymentMethod:     string(inst.PaymentMethod),
		PaidAt:            inst.PaidAt,
		PaidAmount:        inst.PaidAmount,
	}
}

func mapInstallments(installments []domain.Installment) []installmentResponse {
	out := make([]installmentResponse, 0, len(installments))
	for i := range installments {
		out = append(out, mapInstallment(&installments[i]))
	}
	return out
}

func mapRental(rt *domain.RentalRequest) *rentalResponse {
	if rt == nil {
		return nil
	}
	return &rentalResponse{
		ID:                 rt.ID,
		ApplianceID:        rt.ApplianceID,
		UserID:             rt.UserID,
		DurationMonths:     rt.DurationMonths,
		MonthlyAmount:      rt.MonthlyAmount,
		Deposit:            rt.Deposit,
		TotalAmount:        rt.TotalAmount,
		StartDate:          rt.StartDate.Format(domain.DateLayout),
		EndDate:            rt.EndDate.Format(domain.DateLayout),
		DeliveryAddress:    rt.DeliveryAddress,
		Status:             string(rt.Status),
		RejectionReason:    rt.RejectionReason,
		CancellationReason: rt.CancellationReason,
		ApprovedBy:         rt.ApprovedBy,
		ApprovedAt:         rt.ApprovedAt,
		ActivatedAt:        rt.ActivatedAt,
		CompletedAt:        rt.CompletedAt,
		CancelledAt:        rt.CancelledAt,
		Installments:       mapInstallments(rt.Installments),
		CreatedAt:          rt.CreatedAt,
		UpdatedAt:          rt.UpdatedAt,
	}
}

func mapRentals(rentals []domain.RentalRequest) []*rentalResponse {
	out := make([]*rentalResponse, 0, len(rentals))
	for i := range rentals {
		out = append(out, mapRental(&rentals[i]))
	}
	return out
}

func mapQuote(applianceID string, q *utils.RentalQuote) *quoteResponse {
	return &quoteResponse{
		ApplianceID:    applianceID,
		DurationMonths: q.DurationMonths,
		MonthlyAmount:  q.MonthlyAmount,
		Deposit:        q.Deposit,
		TotalAmount:    q.TotalAmount,
		StartDate:      q.StartDate.Format(domain.DateLayout),
		EndDate:        q.EndDate.Format(domain.DateLayout),
		Installments:   mapInstallments(q.Installments),
	}
}
