// Package site describes the car rental demo page the orchestrator drives.
// Selectors and ordinals here are coupled to that page's markup.
package site

import (
	"fmt"
	"strings"
)

const DefaultOrigin = "https://automationdemo.vercel.app/"

const (
	SectionHome    = "#home"
	SectionCars    = "#cars"
	SectionPricing = "#price"
	SectionBooking = "#booking"
	SectionContact = "#contact"
)

const (
	SearchInput  = `form.search-bar input[name="search"]`
	SearchButton = `form.search-bar button`

	BookingName     = "#fn"
	BookingEmail    = "#email"
	BookingStart    = `input[name="start"]`
	BookingEnd      = `input[name="end"]`
	BookingCarType  = "#type"
	BookingCDW      = "#cdw"
	BookingTerms    = "#term1"
	BookingSubmit   = "#submit"
	BookingReset    = "#reset"
	ContactBlock    = "#contact"
	FirstContactURL = ".footer-section a >> nth=0"
)

const (
	CarSUV    = "SUV"
	CarVAN    = "VAN"
	CarLuxury = "Luxury"
)

// carOrdinals is the row/item position of each category in the pricing
// table and the car details block.
var carOrdinals = map[string]int{
	CarSUV:    0,
	CarVAN:    1,
	CarLuxury: 2,
}

// CarCategories returns the categories in page order.
func CarCategories() []string {
	return []string{CarSUV, CarVAN, CarLuxury}
}

func Ordinal(carType string) (int, bool) {
	n, ok := carOrdinals[carType]

	return n, ok
}

// CanonicalCarType maps any casing of a known category to its page spelling.
func CanonicalCarType(carType string) (string, bool) {
	trimmed := strings.TrimSpace(carType)
	for _, c := range CarCategories() {
		if strings.EqualFold(c, trimmed) {
			return c, true
		}
	}

	return trimmed, false
}

// SectionAnchor is the navigation link for a section such as "#cars".
func SectionAnchor(section string) string {
	return fmt.Sprintf(`a[href="%s"]`, section)
}

// PriceCell is the per-day price cell of the pricing row at ordinal.
func PriceCell(ordinal int) string {
	return fmt.Sprintf("tbody tr >> nth=%d >> td >> nth=1", ordinal)
}

// CarLabel is the category label of the car item at ordinal.
func CarLabel(ordinal int) string {
	return fmt.Sprintf(".car-item >> nth=%d >> p >> nth=0", ordinal)
}
