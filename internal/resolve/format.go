package resolve

import "github.com/greenloop/locator/internal/directory"

// Formatter normalizes whatever partial data survives the cascade into the
// full response shape: non-empty city and state, state in slug form, URL and
// coordinates filled where derivable.
type Formatter struct {
	tables *Tables
}

// NewFormatter creates a Formatter over the static tables.
func NewFormatter(tables *Tables) *Formatter {
	return &Formatter{tables: tables}
}

// Format produces the final response from a strategy result. A nil result
// becomes the configured last-resort city.
func (f *Formatter) Format(r *Result) *Result {
	if r == nil || r.City == "" || r.State == "" {
		def := f.tables.Default
		r = &Result{
			City:   def.City,
			State:  def.State,
			Source: SourceDefaultFallback,
		}
	}

	out := &Result{
		City:        r.City,
		State:       directory.Slugify(r.State),
		Coordinates: r.Coordinates,
		URL:         r.URL,
		Source:      r.Source,
		Warning:     r.Warning,
		Error:       r.Error,
		Fallback:    r.Fallback,
	}

	if out.URL == "" {
		out.URL = directory.PageURL(r.City, r.State)
	}
	if out.Coordinates == nil {
		if c, ok := f.tables.CityCoords[directory.Key(r.City, r.State)]; ok {
			out.Coordinates = c
		}
	}
	return out
}
