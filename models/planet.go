package models

import "strings"

// Planet is a planet from the catalog
type Planet struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// PlanetRequest is the body of POST /planets and PUT /planets/{id}
type PlanetRequest struct {
	Name string `json:"name"`
}

func (r *PlanetRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *PlanetRequest) Validate() ValidationErrors {
	return requireName(nil, "name", r.Name)
}
