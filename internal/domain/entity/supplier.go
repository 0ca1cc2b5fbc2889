package entity

// Supplier yarn vendor. Stock lots reference suppliers by name only.
type Supplier struct {
	ID            int64
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}
