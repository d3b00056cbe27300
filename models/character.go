package models

import "strings"

// Character is a person from the catalog, served under /people
type Character struct {
	ID     int     `json:"id" db:"id"`
	Name   string  `json:"name" db:"name"`
	Specie *string `json:"specie" db:"specie"`
}

// CharacterRequest is the body of POST /people and PUT /people/{id}
type CharacterRequest struct {
	Name   string `json:"name"`
	Specie string `json:"specie"`
}

// Normalize trims surrounding whitespace
func (r *CharacterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Specie = strings.TrimSpace(r.Specie)
}

// Validate requires both name and specie
func (r *CharacterRequest) Validate() ValidationErrors {
	var errs ValidationErrors
	errs = requireName(errs, "name", r.Name)
	errs = requireName(errs, "specie", r.Specie)
	return errs
}
