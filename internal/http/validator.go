package http

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ListQuery holds the parsed /pokemons query parameters.
type ListQuery struct {
	Limit  int    `validate:"gte=1,lte=100"`
	Offset int    `validate:"gte=0"`
	Sort   string `validate:"omitempty,oneof=number name"`
	Search string
}

// Validate returns the first constraint violation as a client-facing
// message, or "" when the query is valid.
func (q ListQuery) Validate() string {
	err := validate.Struct(q)
	if err == nil {
		return ""
	}

	for _, fieldErr := range err.(validator.ValidationErrors) {
		switch fieldErr.Field() {
		case "Limit":
			return "Limit must be between 1 and 100"
		case "Offset":
			return "Offset must be non-negative"
		case "Sort":
			return `Sort must be either "number" or "name"`
		}
	}
	return "Invalid query parameters"
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() string {
	if err := validate.Struct(r); err != nil {
		return "Username and password are required"
	}
	return ""
}
