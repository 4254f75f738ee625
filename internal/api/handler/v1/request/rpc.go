package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mintly/mintly-api/internal/domain"
)

// AmountField is the wire name of the amount argument of the ledger calls.
const AmountField = "p_amount"

// JoinEventRequest carries p_join_code for compatibility with older clients.
// The server always issues the code.
type JoinEventRequest struct {
	EventID         uuid.UUID `json:"p_event_id" swaggertype:"string" format:"uuid"`
	JoinCode        string    `json:"p_join_code,omitempty"`
	ParticipantName string    `json:"p_participant_name"`
}

func (req *JoinEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.By(requiredID)),
		validation.Field(&req.ParticipantName, validation.Required,
			trimmedLength(domain.MinParticipantNameLength, domain.MaxParticipantNameLength)),
	)
}

type ProcessPaymentRequest struct {
	WalletID    uuid.UUID       `json:"p_wallet_id" swaggertype:"string" format:"uuid"`
	VendorID    uuid.UUID       `json:"p_vendor_id" swaggertype:"string" format:"uuid"`
	Amount      decimal.Decimal `json:"p_amount" swaggertype:"string" example:"12.50"`
	Description *string         `json:"p_description,omitempty"`
}

func (req *ProcessPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.WalletID, validation.By(requiredID)),
		validation.Field(&req.VendorID, validation.By(requiredID)),
		validation.Field(&req.Amount, validation.By(validAmount)),
		validation.Field(&req.Description, validation.By(optionalDescription)),
	)
}

func (req *ProcessPaymentRequest) DescriptionText() string {
	return deref(req.Description)
}

type TransferFundsRequest struct {
	FromWalletID uuid.UUID       `json:"p_from_wallet_id" swaggertype:"string" format:"uuid"`
	ToWalletID   uuid.UUID       `json:"p_to_wallet_id" swaggertype:"string" format:"uuid"`
	Amount       decimal.Decimal `json:"p_amount" swaggertype:"string" example:"7.00"`
	Description  *string         `json:"p_description,omitempty"`
}

func (req *TransferFundsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FromWalletID, validation.By(requiredID)),
		validation.Field(&req.ToWalletID, validation.By(requiredID)),
		validation.Field(&req.Amount, validation.By(validAmount)),
		validation.Field(&req.Description, validation.By(optionalDescription)),
	)
}

func (req *TransferFundsRequest) DescriptionText() string {
	return deref(req.Description)
}

type SendRewardRequest struct {
	EventID       uuid.UUID       `json:"p_event_id" swaggertype:"string" format:"uuid"`
	ParticipantID uuid.UUID       `json:"p_participant_id" swaggertype:"string" format:"uuid"`
	Amount        decimal.Decimal `json:"p_amount" swaggertype:"string" example:"10"`
	Description   *string         `json:"p_description,omitempty"`
}

func (req *SendRewardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.By(requiredID)),
		validation.Field(&req.ParticipantID, validation.By(requiredID)),
		validation.Field(&req.Amount, validation.By(validAmount)),
		validation.Field(&req.Description, validation.By(optionalDescription)),
	)
}

func (req *SendRewardRequest) DescriptionText() string {
	return deref(req.Description)
}

// IsAmountError reports whether err from Validate concerns the amount.
func IsAmountError(err error) bool {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return false
	}
	_, ok := errs[AmountField]

	return ok
}
