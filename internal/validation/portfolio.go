package validation

import (
	"fmt"
	"strings"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/api/request"
)

// maxPurchasePrice is the highest accepted purchase price in percent of face.
const maxPurchasePrice = 1000

func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	// Optional but has constraints
	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	seen := make(map[string]bool, len(req.Bonds))
	for i, bond := range req.Bonds {
		prefix := fmt.Sprintf("bonds[%d]", i)
		validatePositionFields(errors, prefix+".", bond.SecID, bond.Quantity, bond.PurchasePrice)

		secID := strings.ToUpper(strings.TrimSpace(bond.SecID))
		if seen[secID] {
			errors[prefix+".secid"] = "secid is listed more than once"
		}
		seen[secID] = true
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidatePosition validates a request to add a bond to a portfolio.
func ValidatePosition(req request.PositionRequest) error {
	errors := make(map[string]string)

	validatePositionFields(errors, "", req.SecID, req.Quantity, req.PurchasePrice)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdatePosition validates a request to change a held bond.
func ValidateUpdatePosition(req request.UpdatePositionRequest) error {
	errors := make(map[string]string)

	validateAmounts(errors, "", req.Quantity, req.PurchasePrice)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validatePositionFields(errors map[string]string, prefix, secID string, quantity int, purchasePrice *float64) {
	if err := ValidateSecID(strings.ToUpper(strings.TrimSpace(secID))); err != nil {
		errors[prefix+"secid"] = "secid must be an exchange security code"
	}
	validateAmounts(errors, prefix, quantity, purchasePrice)
}

func validateAmounts(errors map[string]string, prefix string, quantity int, purchasePrice *float64) {
	if quantity < 0 {
		errors[prefix+"quantity"] = "quantity cannot be negative"
	}
	if purchasePrice != nil {
		if *purchasePrice < 0 {
			errors[prefix+"purchasePrice"] = "purchasePrice cannot be negative"
		} else if *purchasePrice > maxPurchasePrice {
			errors[prefix+"purchasePrice"] = fmt.Sprintf("purchasePrice is percent of face value and must be %d or less", maxPurchasePrice)
		}
	}
}
