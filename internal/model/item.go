package model

import "time"

// Item categories.  Each category carries its own fixed feature set, see
// Features below.
const (
	CategoryMotors      = "MOTORS"
	CategoryProperty    = "PROPERTY"
	CategoryElectronics = "ELECTRONICS"
)

// ValidCategory reports whether c names a known listing category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryMotors, CategoryProperty, CategoryElectronics:
		return true
	}
	return false
}

// Listing lifecycle states.  New items start ACTIVE; the remaining states
// are set directly by API callers, not derived.
const (
	ItemStatusActive    = "ACTIVE"
	ItemStatusSold      = "SOLD"
	ItemStatusExpired   = "EXPIRED"
	ItemStatusSuspended = "SUSPENDED"
)

// ValidItemStatus reports whether s is a known listing status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusActive, ItemStatusSold, ItemStatusExpired, ItemStatusSuspended:
		return true
	}
	return false
}

// Location pins a listing to a district and city; address is optional.
type Location struct {
	District string `json:"district"`
	City     string `json:"city"`
	Address  string `json:"address,omitempty"`
}

// MotorsFeatures is the feature set for MOTORS listings.
type MotorsFeatures struct {
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Year         int    `json:"year,omitempty"`
	Mileage      int    `json:"mileage,omitempty"`
	FuelType     string `json:"fuelType,omitempty"`
	Transmission string `json:"transmission,omitempty"`
}

// PropertyFeatures is the feature set for PROPERTY listings.
type PropertyFeatures struct {
	Bedrooms  int     `json:"bedrooms,omitempty"`
	Bathrooms int     `json:"bathrooms,omitempty"`
	Area      float64 `json:"area,omitempty"`
	AreaUnit  string  `json:"areaUnit,omitempty"`
}

// ElectronicsFeatures is the feature set for ELECTRONICS listings.
type ElectronicsFeatures struct {
	Condition string `json:"condition,omitempty"`
	Warranty  bool   `json:"warranty,omitempty"`
}

// Features is a tagged variant keyed by the item's category.  Exactly one
// branch is expected to be populated; the whole value is stored as a JSON
// column on the items table.
type Features struct {
	Motors      *MotorsFeatures      `json:"motors,omitempty"`
	Property    *PropertyFeatures    `json:"property,omitempty"`
	Electronics *ElectronicsFeatures `json:"electronics,omitempty"`
}

// ContactInfo is the seller contact published on a listing.  Empty fields
// fall back to the seller's account phone and email at creation time.
type ContactInfo struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Item represents a marketplace classified ad owned by a seller.
//
// Fields:
//
//	ID          - primary key identifier.
//	Title       - listing headline.
//	Description - free-form body text.
//	Category    - MOTORS, PROPERTY or ELECTRONICS.
//	Subcategory - free-form subcategory within the category.
//	Price       - asking price in Currency units.
//	Currency    - currency code, defaults to "Frw".
//	Location    - district/city/address.
//	Images      - URLs of uploaded images.
//	SellerID    - owner of the listing.
//	Status      - lifecycle state, defaults to ACTIVE.
//	Features    - category-specific feature set.
//	ContactInfo - published contact details.
type Item struct {
	ID          uint64      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Subcategory string      `json:"subcategory"`
	Price       float64     `json:"price"`
	Currency    string      `json:"currency"`
	Location    Location    `json:"location"`
	Images      []string    `json:"images"`
	SellerID    uint64      `json:"sellerId"`
	Status      string      `json:"status"`
	Features    Features    `json:"features"`
	ContactInfo ContactInfo `json:"contactInfo"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
