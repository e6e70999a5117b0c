package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sokogo/sokogo-backend/internal/model"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
var phoneRe = regexp.MustCompile(`^[+]?[0-9\s\-()]{10,20}$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool { return emailRe.MatchString(s) }

// ValidPhone reports whether s looks like a phone number.  Empty is
// accepted since phone is optional on some inputs.
func ValidPhone(s string) bool {
	if s == "" {
		return true
	}
	return phoneRe.MatchString(s)
}

// ValidPassword enforces the minimum password length.
func ValidPassword(s string) bool { return len(s) >= 6 }

// ItemInput is the subset of listing fields checked before creation.
type ItemInput struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	Price       float64
	District    string
	City        string
}

// ValidateItem checks the required fields of a new listing and returns
// one message per violation, each naming the offending field.  An empty
// slice means the input is acceptable.
func ValidateItem(in ItemInput) []string {
	var errs []string
	if !validString(in.Title, 1, 200) {
		errs = append(errs, "title is required and must be 1-200 characters")
	}
	if !validString(in.Description, 1, 5000) {
		errs = append(errs, "description is required and must be 1-5000 characters")
	}
	if !model.ValidCategory(in.Category) {
		errs = append(errs, fmt.Sprintf("category must be one of %s, %s, %s",
			model.CategoryMotors, model.CategoryProperty, model.CategoryElectronics))
	}
	if !validString(in.Subcategory, 1, 100) {
		errs = append(errs, "subcategory is required")
	}
	if in.Price <= 0 || in.Price >= 999999999999.99 {
		errs = append(errs, "price must be a positive number")
	}
	if !validString(in.District, 1, 100) {
		errs = append(errs, "location.district is required")
	}
	if !validString(in.City, 1, 100) {
		errs = append(errs, "location.city is required")
	}
	return errs
}

func validString(s string, min, max int) bool {
	n := len(strings.TrimSpace(s))
	return n >= min && n <= max
}
