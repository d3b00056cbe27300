package models

import "strings"

// User represents a user in the system
// Password is stored hashed (bcrypt); never return it in JSON responses
type User struct {
	ID        int        `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	Favorites []Favorite `json:"favorites" db:"-"`
}

// CreateUserRequest is the body of POST /users and POST /signup
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"` // Plaintext; hashed by the service
}

// Normalize trims surrounding whitespace from name and email
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate returns the field errors for a new user. strictPassword enables
// the password policy on top of the presence check.
func (r *CreateUserRequest) Validate(strictPassword bool) ValidationErrors {
	var errs ValidationErrors
	if r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if !IsValidEmail(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "email is not a valid address"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if strictPassword {
		if err := CheckPasswordPolicy(r.Password); err != nil {
			errs = append(errs, FieldError{Field: "password", Message: err.Error()})
		}
	}
	return errs
}

// UpdateUserRequest is the body of PUT /users/{id}.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// Normalize trims surrounding whitespace from the provided name and email
func (r *UpdateUserRequest) Normalize() {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		r.Email = &email
	}
}

// Validate checks only the fields present in the request
func (r *UpdateUserRequest) Validate(strictPassword bool) ValidationErrors {
	var errs ValidationErrors
	if r.Name == nil && r.Email == nil && r.Password == nil && r.IsActive == nil {
		return append(errs, FieldError{Field: "body", Message: "no fields to update"})
	}
	if r.Name != nil && *r.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name must not be empty"})
	}
	if r.Email != nil && !IsValidEmail(*r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "email is not a valid address"})
	}
	if r.Password != nil {
		if *r.Password == "" {
			errs = append(errs, FieldError{Field: "password", Message: "password must not be empty"})
		} else if strictPassword {
			if err := CheckPasswordPolicy(*r.Password); err != nil {
				errs = append(errs, FieldError{Field: "password", Message: err.Error()})
			}
		}
	}
	return errs
}

// LoginRequest for /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
