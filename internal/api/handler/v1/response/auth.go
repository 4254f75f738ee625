package response

import "github.com/mintly/mintly-api/internal/domain"

type LoginResponse struct {
	Token string           `json:"token"`
	User  domain.Organizer `json:"user"`
}
