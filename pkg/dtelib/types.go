// Package dtelib is the public API for issuing El Salvador electronic tax
// documents (DTE): build, sign, transmit and consult.
//
// Example usage:
//
//	client := dtelib.NewClient(dtelib.DefaultOptions())
//	issued, err := client.Issue(ctx, dtelib.TypeTaxCredit, params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(issued.Transmission.ReceivedSeal)
package dtelib

import (
	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/builder"
	"github.com/rezonia/dte-emitter/internal/model"
	"github.com/rezonia/dte-emitter/internal/signer"
	"github.com/rezonia/dte-emitter/internal/transmit"
)

// Re-export input types
type (
	TypeCode           = model.TypeCode
	Environment        = model.Environment
	Params             = model.Params
	Issuer             = model.Issuer
	Receiver           = model.Receiver
	Address            = model.Address
	ItemInput          = model.ItemInput
	RelatedDocument    = model.RelatedDocument
	Discounts          = model.Discounts
	Payment            = model.Payment
	InvalidationParams = model.InvalidationParams
	OriginalDocument   = model.OriginalDocument
	Motive             = model.Motive
	Party              = model.Party
	Totals             = model.Totals
)

// Re-export result types
type (
	BuildResult        = builder.Result
	InvalidationResult = builder.InvalidationResult
	SignResult         = signer.SignResult
	TransmitResult     = transmit.Result
)

// Re-export document types
const (
	TypeInvoice         = model.TypeInvoice
	TypeTaxCredit       = model.TypeTaxCredit
	TypeCreditNote      = model.TypeCreditNote
	TypeDebitNote       = model.TypeDebitNote
	TypeExportInvoice   = model.TypeExportInvoice
	TypeExcludedSubject = model.TypeExcludedSubject
)

// Re-export environments
const (
	EnvironmentTest       = model.EnvironmentTest
	EnvironmentProduction = model.EnvironmentProduction
)

// Re-export error types
type (
	ValidationError   = model.ValidationError
	SigningError      = signer.SigningError
	AuthError         = auth.AuthError
	TransmissionError = transmit.TransmissionError
)

// ErrUnknownType is returned for a type code no builder handles
var ErrUnknownType = model.ErrUnknownType
