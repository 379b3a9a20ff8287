package app

import (
	"fmt"
	"time"

	"valley_travel/internal/domain"
	"valley_travel/internal/validation"
)

const dateLayout = "2006-01-02"

var stepValidators = map[Step]func(domain.RegistrationDraft) map[string]string{
	StepPersonal:     validatePersonal,
	StepHotel:        validateHotel,
	StepRates:        validateRates,
	StepAvailability: validateAvailability,
	StepLegal:        validateLegal,
}

func validatePersonal(d domain.RegistrationDraft) map[string]string {
	p := d.Personal
	return validation.ValidateForm(map[string]string{
		"ownerName":       p.OwnerName,
		"email":           p.Email,
		"password":        p.Password,
		"confirmPassword": p.ConfirmPassword,
		"phone":           p.Phone,
		"alternatePhone":  p.AlternatePhone,
	}, map[string]any{
		"ownerName": validation.Required("Owner name"),
		"email":     validation.Email,
		"password":  validation.Password,
		"confirmPassword": []validation.Rule{
			validation.Required("Confirm password"),
			validation.Equals(p.Password, "Passwords do not match"),
		},
		"phone":          validation.Phone,
		"alternatePhone": validation.Optional(validation.Phone),
	})
}

func validateHotel(d domain.RegistrationDraft) map[string]string {
	h := d.Hotel
	return validation.ValidateForm(map[string]string{
		"hotelName": h.HotelName,
		"address":   h.Address,
		"city":      h.City,
		"pincode":   h.Pincode,
	}, map[string]any{
		"hotelName": validation.HotelName,
		"address":   validation.Required("Address"),
		"city":      validation.Required("City"),
		"pincode":   validation.Pincode,
	})
}

func validateRates(d domain.RegistrationDraft) map[string]string {
	r := d.Rates
	errs := validation.ValidateForm(map[string]string{
		"defaultRate":        r.DefaultRate,
		"defaultWeekendRate": r.DefaultWeekendRate,
	}, map[string]any{
		"defaultRate":        validation.RateRange("Default rate"),
		"defaultWeekendRate": validation.RateRange("Weekend rate"),
	})
	tables := []struct {
		name string
		rows []domain.RatePeriod
	}{
		{"seasonalRates", r.SeasonalRates},
		{"extraBedRates", r.ExtraBedRates},
		{"cwnbRates", r.CWNBRates},
	}
	rate := validation.RateRange("Rate")
	for _, t := range tables {
		for i, row := range t.rows {
			if msg := rate(row.Rate); msg != "" {
				errs[fmt.Sprintf("%s[%d].rate", t.name, i)] = msg
			}
			if msg := checkRange(row.StartDate, row.EndDate); msg != "" {
				errs[fmt.Sprintf("%s[%d]", t.name, i)] = msg
			}
		}
	}
	return errs
}

func validateAvailability(d domain.RegistrationDraft) map[string]string {
	errs := map[string]string{}
	for i, b := range d.Availability.BlackoutDates {
		if msg := checkRange(b.StartDate, b.EndDate); msg != "" {
			errs[fmt.Sprintf("blackoutDates[%d]", i)] = msg
		}
	}
	return errs
}

func validateLegal(d domain.RegistrationDraft) map[string]string {
	return validation.ValidateForm(map[string]string{
		"gstNumber": d.Legal.GSTNumber,
		"panNumber": d.Legal.PANNumber,
	}, map[string]any{
		"gstNumber": validation.Optional(validation.GST),
		"panNumber": validation.Optional(validation.PAN),
	})
}

// checkRange wants both dates or neither, with end on or after start.
func checkRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	if start == "" || end == "" {
		return "Both start and end dates are required"
	}
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return "Start date must be YYYY-MM-DD"
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return "End date must be YYYY-MM-DD"
	}
	if e.Before(s) {
		return "End date must be on or after start date"
	}
	return ""
}
