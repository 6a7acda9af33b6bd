package validation

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/invoicer/internal/models"
)

const (
	MsgSelectCustomer = "Please select customer"
	MsgAmountPositive = "Amount must be greater than $0"
	MsgAmountTooLarge = "Amount is too large"
	MsgStatus         = "Status must be paid or pending"
	MsgRequired       = "Required"
	MsgInvalidDate    = "Invalid date"
)

// InvoiceSchema describes a complete invoice record.
var InvoiceSchema = Object(
	Field{Name: "id", Check: String(MsgRequired)},
	Field{Name: "customerId", Check: NonBlank(MsgSelectCustomer)},
	Field{Name: "amount", Check: centsAmount(MsgAmountPositive, MsgAmountTooLarge)},
	Field{Name: "status", Check: Enum(MsgStatus, string(models.StatusPaid), string(models.StatusPending))},
	Field{Name: "date", Check: ISODate(models.DateLayout, MsgInvalidDate)},
)

// centsAmount is PositiveDecimal limited to amounts whose cents fit the
// stored integer column.
func centsAmount(positive, tooLarge string) Check {
	check := PositiveDecimal(positive)
	return func(raw string, present bool) (any, string) {
		v, msg := check(raw, present)
		if msg != "" {
			return nil, msg
		}
		if !models.FitsCents(v.(decimal.Decimal)) {
			return nil, tooLarge
		}
		return v, ""
	}
}

// CreateInvoice and UpdateInvoice leave out the system-assigned fields.
var (
	CreateInvoice = InvoiceSchema.Omit("id", "date")
	UpdateInvoice = InvoiceSchema.Omit("id", "date")
)

// InvoiceInput is the user-editable part of an invoice after validation.
type InvoiceInput struct {
	CustomerID string
	Amount     decimal.Decimal
	Status     models.InvoiceStatus
}

// Cents returns the amount in integer cents.
func (in InvoiceInput) Cents() int64 {
	return models.ToCents(in.Amount)
}

// InvoiceRecord is a validated full invoice.
type InvoiceRecord struct {
	ID   string
	Date string
	InvoiceInput
}

// ParseCreateInvoice validates form data for a new invoice.
func ParseCreateInvoice(form Form) (InvoiceInput, FieldErrors) {
	return parseInput(CreateInvoice, form)
}

// ParseUpdateInvoice validates form data for an invoice edit.
func ParseUpdateInvoice(form Form) (InvoiceInput, FieldErrors) {
	return parseInput(UpdateInvoice, form)
}

// ParseInvoice validates a complete invoice record including id and date.
func ParseInvoice(form Form) (InvoiceRecord, FieldErrors) {
	values, errs := InvoiceSchema.SafeParse(form)
	if errs != nil {
		return InvoiceRecord{}, errs
	}
	return InvoiceRecord{
		ID:           values["id"].(string),
		Date:         values["date"].(string),
		InvoiceInput: inputFrom(values),
	}, nil
}

func parseInput(s Schema, form Form) (InvoiceInput, FieldErrors) {
	values, errs := s.SafeParse(form)
	if errs != nil {
		return InvoiceInput{}, errs
	}
	return inputFrom(values), nil
}

func inputFrom(values map[string]any) InvoiceInput {
	return InvoiceInput{
		CustomerID: values["customerId"].(string),
		Amount:     values["amount"].(decimal.Decimal),
		Status:     models.InvoiceStatus(values["status"].(string)),
	}
}
