package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Opportunity struct {
	ID                  int64
	Name                string
	Description         string
	Address             string
	Currency            string
	MinDeposit          decimal.Decimal
	MinWithdrawal       decimal.Decimal
	ProcessingTime      string
	ConfirmationMessage string
	QRCodeURL           string
	CreatedAt           time.Time
}

type OpportunityField string

const (
	OppFieldName                OpportunityField = "name"
	OppFieldDescription         OpportunityField = "description"
	OppFieldAddress             OpportunityField = "address"
	OppFieldCurrency            OpportunityField = "currency"
	OppFieldMinDeposit          OpportunityField = "min_deposit"
	OppFieldMinWithdrawal       OpportunityField = "min_withdrawal"
	OppFieldProcessingTime      OpportunityField = "processing_time"
	OppFieldConfirmationMessage OpportunityField = "confirmation_message"
	OppFieldQRCodeURL           OpportunityField = "qr_code_url"
)

// OpportunityFields lists the editable opportunity fields in form order.
var OpportunityFields = []FieldSpec{
	{Name: string(OppFieldName), Label: "Name", Kind: KindText},
	{Name: string(OppFieldDescription), Label: "Description", Kind: KindText},
	{Name: string(OppFieldAddress), Label: "Deposit address", Kind: KindText},
	{Name: string(OppFieldCurrency), Label: "Currency", Kind: KindCurrency},
	{Name: string(OppFieldMinDeposit), Label: "Minimum deposit", Kind: KindDecimal},
	{Name: string(OppFieldMinWithdrawal), Label: "Minimum withdrawal", Kind: KindDecimal},
	{Name: string(OppFieldProcessingTime), Label: "Processing time", Kind: KindText},
	{Name: string(OppFieldConfirmationMessage), Label: "Confirmation message", Kind: KindText},
	{Name: string(OppFieldQRCodeURL), Label: "QR code link", Kind: KindURL, Optional: true},
}

// Field returns the current value of a field in its canonical string form.
func (o *Opportunity) Field(name OpportunityField) string {
	switch name {
	case OppFieldName:
		return o.Name
	case OppFieldDescription:
		return o.Description
	case OppFieldAddress:
		return o.Address
	case OppFieldCurrency:
		return o.Currency
	case OppFieldMinDeposit:
		return o.MinDeposit.String()
	case OppFieldMinWithdrawal:
		return o.MinWithdrawal.String()
	case OppFieldProcessingTime:
		return o.ProcessingTime
	case OppFieldConfirmationMessage:
		return o.ConfirmationMessage
	case OppFieldQRCodeURL:
		return o.QRCodeURL
	}
	return ""
}

// Set assigns a normalized value to a field.
func (o *Opportunity) Set(name OpportunityField, value string) error {
	switch name {
	case OppFieldName:
		o.Name = value
	case OppFieldDescription:
		o.Description = value
	case OppFieldAddress:
		o.Address = value
	case OppFieldCurrency:
		o.Currency = value
	case OppFieldMinDeposit, OppFieldMinWithdrawal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return ErrInvalidAmount
		}
		if name == OppFieldMinDeposit {
			o.MinDeposit = d
		} else {
			o.MinWithdrawal = d
		}
	case OppFieldProcessingTime:
		o.ProcessingTime = value
	case OppFieldConfirmationMessage:
		o.ConfirmationMessage = value
	case OppFieldQRCodeURL:
		o.QRCodeURL = value
	default:
		return ErrUnknownField
	}
	return nil
}
