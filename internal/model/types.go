package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Location is El Salvador local time (UTC-6, no daylight saving)
var Location = time.FixedZone("CST", -6*60*60)

// TypeCode is the MH document type code (tipoDte)
type TypeCode string

const (
	TypeInvoice         TypeCode = "01" // Factura (consumidor final)
	TypeTaxCredit       TypeCode = "03" // Comprobante de Credito Fiscal
	TypeCreditNote      TypeCode = "05" // Nota de Credito
	TypeDebitNote       TypeCode = "06" // Nota de Debito
	TypeExportInvoice   TypeCode = "11" // Factura de Exportacion
	TypeExcludedSubject TypeCode = "14" // Factura de Sujeto Excluido
	TypeInvalidation    TypeCode = "IN" // Evento de invalidacion (not a tipoDte)
)

// schemaVersions holds the JSON schema version per document type
var schemaVersions = map[TypeCode]int{
	TypeInvoice:         1,
	TypeTaxCredit:       3,
	TypeCreditNote:      3,
	TypeDebitNote:       3,
	TypeExportInvoice:   1,
	TypeExcludedSubject: 1,
	TypeInvalidation:    2,
}

var typeNames = map[TypeCode]string{
	TypeInvoice:         "Factura",
	TypeTaxCredit:       "Comprobante de Credito Fiscal",
	TypeCreditNote:      "Nota de Credito",
	TypeDebitNote:       "Nota de Debito",
	TypeExportInvoice:   "Factura de Exportacion",
	TypeExcludedSubject: "Factura de Sujeto Excluido",
	TypeInvalidation:    "Invalidacion",
}

// SalesTypes lists the sales document types in code order
var SalesTypes = []TypeCode{
	TypeInvoice,
	TypeTaxCredit,
	TypeCreditNote,
	TypeDebitNote,
	TypeExportInvoice,
	TypeExcludedSubject,
}

// Version returns the schema version for the type, 0 if unknown
func (t TypeCode) Version() int {
	return schemaVersions[t]
}

// Name returns the human readable name of the type
func (t TypeCode) Name() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "Desconocido"
}

// Valid reports whether the type code is known
func (t TypeCode) Valid() bool {
	_, ok := schemaVersions[t]
	return ok
}

// ParseTypeCode parses a type code such as "03"
func ParseTypeCode(s string) (TypeCode, error) {
	t := TypeCode(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Environment is the MH environment flag (ambiente)
type Environment string

const (
	EnvironmentTest       Environment = "00"
	EnvironmentProduction Environment = "01"
)

// Valid reports whether the environment is known
func (e Environment) Valid() bool {
	return e == EnvironmentTest || e == EnvironmentProduction
}

// String returns a readable environment name
func (e Environment) String() string {
	switch e {
	case EnvironmentTest:
		return "test"
	case EnvironmentProduction:
		return "production"
	default:
		return string(e)
	}
}

// ParseEnvironment accepts "00"/"01" or "test"/"production"
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "00", "test", "pruebas":
		return EnvironmentTest, nil
	case "01", "prod", "production", "produccion":
		return EnvironmentProduction, nil
	default:
		return "", fmt.Errorf("unknown environment %q", s)
	}
}

// Classification of an item amount
type Classification string

const (
	ClassTaxed      Classification = "taxed"
	ClassExempt     Classification = "exempt"
	ClassNotSubject Classification = "not_subject"
)

// Valid reports whether c is empty (family default) or a known classification
func (c Classification) Valid() bool {
	switch c {
	case "", ClassTaxed, ClassExempt, ClassNotSubject:
		return true
	}
	return false
}

// Tax codes and descriptions
const (
	TaxCodeIVA        = "20"
	TaxDescriptionIVA = "Impuesto al Valor Agregado 13%"
	Currency          = "USD"
)

var punctuation = regexp.MustCompile(`[^0-9A-Za-z]`)

// CleanTaxID strips formatting punctuation ("0614-010190-101-3" -> "06140101901013")
func CleanTaxID(nit string) string {
	return punctuation.ReplaceAllString(strings.TrimSpace(nit), "")
}
