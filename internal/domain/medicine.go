package domain

import "time"

// MedicineCategory enumerates catalog categories.
type MedicineCategory string

const (
	CategoryTablet    MedicineCategory = "tablet"
	CategorySyrup     MedicineCategory = "syrup"
	CategoryInjection MedicineCategory = "injection"
	CategoryOintment  MedicineCategory = "ointment"
	CategoryOther     MedicineCategory = "other"
)

// ParseMedicineCategory validates a raw category string.
func ParseMedicineCategory(s string) (MedicineCategory, bool) {
	switch MedicineCategory(s) {
	case CategoryTablet, CategorySyrup, CategoryInjection, CategoryOintment, CategoryOther:
		return MedicineCategory(s), true
	}
	return "", false
}

// Medicine is a catalog record, managed by administrators.
type Medicine struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Manufacturer      string           `json:"manufacturer"`
	BatchNumber       string           `json:"batch_number"`
	Barcode           string           `json:"barcode"`
	Category          MedicineCategory `json:"category"`
	ManufacturingDate time.Time        `json:"manufacturing_date"`
	ExpiryDate        time.Time        `json:"expiry_date"`
	Verified          bool             `json:"verified"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// CabinetEntry is one medicine held in a user's cabinet. The sweep reads
// these; the cabinet endpoints write them.
type CabinetEntry struct {
	ID           string
	HolderID     string
	MedicineID   string
	MedicineName string
	Quantity     int
	ExpiryDate   time.Time
	AddedAt      time.Time
}
