package builder_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/dte-emitter/internal/builder"
	"github.com/rezonia/dte-emitter/internal/model"
)

var issuedAt = time.Date(2026, 3, 15, 14, 30, 0, 0, builder.Location)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func testIssuer() model.Issuer {
	return model.Issuer{
		NIT:                 "0614-010190-101-3",
		NRC:                 "123456-7",
		Name:                "Comercial Ejemplo S.A. de C.V.",
		ActivityCode:        "46900",
		ActivityDescription: "Venta al por mayor de otros productos",
		EstablishmentType:   "01",
		Address:             model.Address{Department: "06", Municipality: "14", Complement: "Colonia Escalon, San Salvador"},
		Phone:               "22223333",
		Email:               "facturacion@ejemplo.com.sv",
		EstablishmentCodeMH: ptr("M001"),
		POSCodeMH:           ptr("P001"),
	}
}

func testReceiver() *model.Receiver {
	return &model.Receiver{
		NIT:                 "0614-020202-102-4",
		NRC:                 "765432-1",
		Name:                "Cliente Corporativo S.A.",
		ActivityCode:        ptr("62010"),
		ActivityDescription: ptr("Programacion informatica"),
		Address:             &model.Address{Department: "05", Municipality: "11", Complement: "Santa Tecla"},
		Email:               ptr("compras@cliente.com.sv"),
	}
}

// testParams is one taxed item, quantity 2 at 10.00
func testParams(t model.TypeCode) *model.Params {
	p := &model.Params{
		Environment:    model.EnvironmentTest,
		ControlNumber:  "DTE-" + string(t) + "-M001P001-000000000000001",
		GenerationCode: "0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0",
		IssuedAt:       issuedAt,
		Issuer:         testIssuer(),
		Receiver:       testReceiver(),
		Items: []model.ItemInput{{
			ItemType:      1,
			Code:          ptr("SKU-001"),
			Description:   "Resma de papel bond",
			Quantity:      d("2"),
			UnitPrice:     d("10.00"),
			UnitOfMeasure: 59,
		}},
	}
	switch t {
	case model.TypeCreditNote, model.TypeDebitNote:
		p.RelatedDocuments = []model.RelatedDocument{{
			DocumentType:   model.TypeTaxCredit,
			GenerationType: 2,
			DocumentNumber: "A1B2C3D4-0000-1111-2222-333344445555",
			IssueDate:      "2026-03-01",
		}}
	case model.TypeExportInvoice:
		p.Issuer.ExportItemType = ptr(1)
		p.Receiver = &model.Receiver{
			Name:           "Foreign Buyer Inc.",
			DocumentType:   ptr("37"),
			DocumentNumber: ptr("US-99-1234567"),
			CountryCode:    ptr("9450"),
			CountryName:    ptr("ESTADOS UNIDOS"),
			PersonType:     ptr(2),
			Address:        &model.Address{Complement: "100 Main St, Miami FL"},
		}
	case model.TypeExcludedSubject:
		p.Receiver = &model.Receiver{
			DocumentType:   ptr("13"),
			DocumentNumber: ptr("012345678"),
			Name:           "Juan Perez",
		}
	}
	return p
}

// toMap round-trips a document through JSON so tests can assert on keys
func toMap(t *testing.T, doc any) map[string]any {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func section(t *testing.T, m map[string]any, key string) map[string]any {
	t.Helper()
	v, ok := m[key].(map[string]any)
	require.True(t, ok, "section %s missing", key)
	return v
}
