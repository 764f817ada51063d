// Package directory provides access to the recycling-center directory, the
// authoritative source of known city/state/coordinate triples.
package directory

import (
	"fmt"
	"strings"
)

// Center is one recycling-center record. Postal codes are stored as text but
// legacy imports wrote bare integers, so ZIP lookups match both forms.
type Center struct {
	ID         int64    `json:"id"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	PostalCode string   `json:"postal_code"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (c Center) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}

// CityState is a unique (city, state) projection of the directory with its
// canonical slug and page URL. Representative coordinates come from the first
// center in that city carrying them.
type CityState struct {
	City      string   `json:"city"`
	State     string   `json:"state"`
	Slug      string   `json:"slug"`
	URL       string   `json:"url"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (p CityState) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Key returns the uniqueness key for a city/state pair.
func Key(city, state string) string {
	return strings.ToLower(city) + "|" + strings.ToLower(state)
}

// PageURL builds the canonical directory page path for a city/state pair.
func PageURL(city, state string) string {
	return fmt.Sprintf("/%s/%s", Slugify(state), Slugify(city))
}

// NewCityState builds a CityState with slug and URL filled in.
func NewCityState(city, state string, lat, lng *float64) CityState {
	return CityState{
		City:      city,
		State:     state,
		Slug:      Slugify(city),
		URL:       PageURL(city, state),
		Latitude:  lat,
		Longitude: lng,
	}
}
