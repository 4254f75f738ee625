package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/mintly/mintly-api/internal/domain"
)

type VendorRequest struct {
	Name string `json:"name"`
}

func (req *VendorRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, trimmedLength(domain.MinVendorNameLength, domain.MaxVendorNameLength)),
	)
}
