package domain

import (
	"fmt"
	"strings"
)

type Place struct {
	ID          string
	Name        *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	City        *string
	Country     *string
	OwnerID     *string
	Owner       *User
	Amenities   []Amenity
}

type Amenity struct {
	ID   string
	Name string
}

func (p Place) OwnerIDValue() string { return deref(p.OwnerID) }

// DisplayName resolves the title/name alias pair; backends disagree on the field.
func (p Place) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return "Untitled"
}

func (p Place) DisplayPrice() string {
	if p.Price == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *p.Price)
}

// PriceValue treats a missing price as zero so unpriced places survive any filter.
func (p Place) PriceValue() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

func (p Place) DescriptionText() string {
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		return *p.Description
	}
	return "No description available"
}

func (p Place) HostName() string {
	if p.Owner != nil {
		if n := p.Owner.DisplayName(); n != "" {
			return n
		}
	}
	return "Unknown"
}

func (p Place) Location() string {
	city, country := "Unknown", "Unknown"
	if p.City != nil && *p.City != "" {
		city = *p.City
	}
	if p.Country != nil && *p.Country != "" {
		country = *p.Country
	}
	if city == "Unknown" && country == "Unknown" && p.Latitude != nil && p.Longitude != nil {
		return fmt.Sprintf("%.5f, %.5f", *p.Latitude, *p.Longitude)
	}
	return city + ", " + country
}
