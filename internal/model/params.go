package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Params is the normalized business data a builder turns into a document.
// Sections that do not apply to a document type are ignored by its builder.
type Params struct {
	Environment    Environment  `json:"environment"`
	ControlNumber  string       `json:"control_number"`  // numeroControl, supplied by caller
	GenerationCode string       `json:"generation_code"` // codigoGeneracion, supplied by caller
	IssuedAt       time.Time    `json:"issued_at"`       // zero means now
	Contingency    *Contingency `json:"contingency,omitempty"`

	Issuer   Issuer      `json:"issuer"`
	Receiver *Receiver   `json:"receiver,omitempty"`
	Items    []ItemInput `json:"items"`

	RelatedDocuments []RelatedDocument `json:"related_documents,omitempty"`
	ThirdPartySale   *ThirdPartySale   `json:"third_party_sale,omitempty"`

	// Summary-level discounts, applied on top of per-item discounts
	Discounts Discounts `json:"discounts"`

	PaymentCondition        int       `json:"payment_condition,omitempty"` // 1 contado, 2 credito, 3 otro
	Payments                []Payment `json:"payments,omitempty"`
	ElectronicPaymentNumber *string   `json:"electronic_payment_number,omitempty"`

	Export       *ExportDetails `json:"export,omitempty"`
	Withholding  Withholding    `json:"withholding"`
	Observations *string        `json:"observations,omitempty"`

	Extension *Extension      `json:"extension,omitempty"`
	Appendix  []AppendixEntry `json:"appendix,omitempty"`
}

// Contingency marks a document issued while the authority was unreachable
type Contingency struct {
	Type   int     `json:"type"`
	Reason *string `json:"reason,omitempty"`
}

// Address is a Salvadoran address (department / municipality catalog codes)
type Address struct {
	Department   string `json:"department"`
	Municipality string `json:"municipality"`
	Complement   string `json:"complement"`
}

// Issuer is the taxpayer issuing the document
type Issuer struct {
	NIT                 string  `json:"nit"`
	NRC                 string  `json:"nrc"`
	Name                string  `json:"name"`
	ActivityCode        string  `json:"activity_code"`
	ActivityDescription string  `json:"activity_description"`
	TradeName           *string `json:"trade_name,omitempty"`
	EstablishmentType   string  `json:"establishment_type"`
	Address             Address `json:"address"`
	Phone               string  `json:"phone"`
	Email               string  `json:"email"`

	EstablishmentCodeMH *string `json:"establishment_code_mh,omitempty"`
	EstablishmentCode   *string `json:"establishment_code,omitempty"`
	POSCodeMH           *string `json:"pos_code_mh,omitempty"`
	POSCode             *string `json:"pos_code,omitempty"`
	EstablishmentName   *string `json:"establishment_name,omitempty"`

	// Export issuers only
	ExportItemType  *int    `json:"export_item_type,omitempty"` // 1 bienes, 2 servicios, 3 ambos
	FiscalEnclosure *string `json:"fiscal_enclosure,omitempty"`
	Regime          *string `json:"regime,omitempty"`
}

// Receiver is the customer (or, for excluded-subject documents, the seller)
type Receiver struct {
	DocumentType        *string  `json:"document_type,omitempty"` // 36 NIT, 13 DUI, 37 otro, 03 pasaporte, 02 carnet residente
	DocumentNumber      *string  `json:"document_number,omitempty"`
	NIT                 string   `json:"nit,omitempty"`
	NRC                 string   `json:"nrc,omitempty"`
	Name                string   `json:"name"`
	ActivityCode        *string  `json:"activity_code,omitempty"`
	ActivityDescription *string  `json:"activity_description,omitempty"`
	TradeName           *string  `json:"trade_name,omitempty"`
	Address             *Address `json:"address,omitempty"`
	Phone               *string  `json:"phone,omitempty"`
	Email               *string  `json:"email,omitempty"`

	// Foreign receivers (export invoice)
	CountryCode *string `json:"country_code,omitempty"`
	CountryName *string `json:"country_name,omitempty"`
	PersonType  *int    `json:"person_type,omitempty"` // 1 natural, 2 juridica
}

// ItemInput is one line of the document as supplied by the caller
type ItemInput struct {
	ItemType       int             `json:"item_type"` // 1 bienes, 2 servicios, 3 ambos, 4 otros tributos
	Code           *string         `json:"code,omitempty"`
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitOfMeasure  int             `json:"unit_of_measure"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Discount       decimal.Decimal `json:"discount"`
	Classification Classification  `json:"classification,omitempty"`

	// Related document number (credit/debit notes)
	RelatedDocument *string `json:"related_document,omitempty"`
}

// RelatedDocument references a previously issued document
type RelatedDocument struct {
	DocumentType   TypeCode `json:"document_type"`
	GenerationType int      `json:"generation_type"` // 1 fisico, 2 electronico
	DocumentNumber string   `json:"document_number"`
	IssueDate      string   `json:"issue_date"` // YYYY-MM-DD
}

// ThirdPartySale identifies a sale on behalf of a third party
type ThirdPartySale struct {
	NIT  string `json:"nit"`
	Name string `json:"name"`
}

// Discounts are summary-level discounts per classification
type Discounts struct {
	NotSubject decimal.Decimal `json:"not_subject"`
	Exempt     decimal.Decimal `json:"exempt"`
	Taxed      decimal.Decimal `json:"taxed"`
}

// Total returns the sum of the three discounts
func (d Discounts) Total() decimal.Decimal {
	return d.NotSubject.Add(d.Exempt).Add(d.Taxed)
}

// Payment is one payment entry
type Payment struct {
	Code      string          `json:"code"` // 01 efectivo, 02 tarjeta debito, ...
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
	Term      *string         `json:"term,omitempty"` // 01 dias, 02 meses, 03 anios
	Period    *int            `json:"period,omitempty"`
}

// ExportDetails carries export-only summary data
type ExportDetails struct {
	Freight              decimal.Decimal `json:"freight"`
	Insurance            decimal.Decimal `json:"insurance"`
	IncotermsCode        *string         `json:"incoterms_code,omitempty"`
	IncotermsDescription *string         `json:"incoterms_description,omitempty"`
}

// Withholding amounts subtracted from the excluded-subject total
type Withholding struct {
	IVA    decimal.Decimal `json:"iva"`
	Income decimal.Decimal `json:"income"`
}

// Extension carries delivery metadata
type Extension struct {
	DeliveredBy         *string `json:"delivered_by,omitempty"`
	DeliveredByDocument *string `json:"delivered_by_document,omitempty"`
	ReceivedBy          *string `json:"received_by,omitempty"`
	ReceivedByDocument  *string `json:"received_by_document,omitempty"`
	Observations        *string `json:"observations,omitempty"`
	VehiclePlate        *string `json:"vehicle_plate,omitempty"`
}

// AppendixEntry is a free-form key/value appended to the document
type AppendixEntry struct {
	Field string `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}
