package dto

// SupplierRequest body for adding or editing a supplier.
type SupplierRequest struct {
	Name          string `json:"name" form:"name" validate:"notblank,max=255"`
	ContactPerson string `json:"contact_person" form:"contact_person" validate:"max=255"`
	Phone         string `json:"phone" form:"phone" validate:"max=50"`
	Email         string `json:"email" form:"email" validate:"omitempty,email,max=255"`
	Address       string `json:"address" form:"address" validate:"max=1000"`
}

// SupplierResponse a supplier as returned to clients.
type SupplierResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}
