package domain

// DeriveApplianceStatus computes an appliance's status from the full set of
// rental requests that reference it. Any approved or active request pins the
// appliance to rented. Without one, a rented appliance returns to available,
// and the admin-set states (available, maintenance, inactive) are left alone.
func DeriveApplianceStatus(current ApplianceStatus, requests []RentalRequest) ApplianceStatus {
	for _, r := range requests {
		if r.Status.HoldsAppliance() {
			return ApplianceStatusRented
		}
	}
	if current == ApplianceStatusRented {
		return ApplianceStatusAvailable
	}
	return current
}
