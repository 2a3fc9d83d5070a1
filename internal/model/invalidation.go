package model

import (
	"github.com/shopspring/decimal"
)

// Invalidation (anulacion) types
const (
	InvalidationReplaced  = 1 // error in the document, a replacement DTE is issued
	InvalidationRescinded = 2 // operation rescinded, no replacement
	InvalidationOther     = 3
)

// InvalidationParams is the input of the invalidation event builder
type InvalidationParams struct {
	Environment Environment      `json:"environment"`
	Issuer      Issuer           `json:"issuer"`
	Original    OriginalDocument `json:"original"`
	Motive      Motive           `json:"motive"`
}

// OriginalDocument references the previously transmitted document being invalidated
type OriginalDocument struct {
	Type           TypeCode        `json:"type"`
	GenerationCode string          `json:"generation_code"`
	ReceivedSeal   string          `json:"received_seal"`
	ControlNumber  string          `json:"control_number"`
	IssueDate      string          `json:"issue_date"` // YYYY-MM-DD
	TaxAmount      decimal.Decimal `json:"tax_amount"`

	// Receiver snapshot as it appeared on the original document
	ReceiverDocumentType   *string `json:"receiver_document_type,omitempty"`
	ReceiverDocumentNumber *string `json:"receiver_document_number,omitempty"`
	ReceiverName           *string `json:"receiver_name,omitempty"`
	ReceiverPhone          *string `json:"receiver_phone,omitempty"`
	ReceiverEmail          *string `json:"receiver_email,omitempty"`
}

// Party identifies a person by document
type Party struct {
	Name           string `json:"name"`
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
}

// Motive explains the invalidation
type Motive struct {
	Type   int     `json:"type"`
	Reason *string `json:"reason,omitempty"`

	Responsible Party `json:"responsible"`
	Requester   Party `json:"requester"`

	// Generation code of the replacement document, required for InvalidationReplaced
	ReplacementCode *string `json:"replacement_code,omitempty"`
}
