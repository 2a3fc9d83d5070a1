package builder

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// Location is the time zone of fecEmi and horEmi
var Location = model.Location

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	defaultPaymentCode      = "01" // billetes y monedas
	defaultPaymentCondition = 1    // contado
	documentTypeNIT         = "36"
)

// base carries what every sales builder shares
type base struct {
	docType model.TypeCode
	clock   clockwork.Clock
}

func newBase(t model.TypeCode, opts []Option) base {
	o := newOptions(opts)
	return base{docType: t, clock: o.clock}
}

// Type returns the document type
func (b base) Type() model.TypeCode {
	return b.docType
}

func (b base) issuedAt(p *model.Params) time.Time {
	at := p.IssuedAt
	if at.IsZero() {
		at = b.clock.Now()
	}
	return at.In(Location)
}

func (b base) identification(p *model.Params) dte.Identification {
	at := b.issuedAt(p)
	id := dte.Identification{
		Version:        b.docType.Version(),
		Environment:    string(p.Environment),
		DocumentType:   string(b.docType),
		ControlNumber:  p.ControlNumber,
		GenerationCode: p.GenerationCode,
		ModelType:      1,
		OperationType:  1,
		IssueDate:      at.Format(dateLayout),
		IssueTime:      at.Format(timeLayout),
		Currency:       model.Currency,
	}
	if p.Contingency != nil {
		ct := p.Contingency.Type
		id.ModelType = 2
		id.OperationType = 2
		id.ContingencyType = &ct
		id.ContingencyReason = p.Contingency.Reason
	}
	return id
}

func (b base) result(p *model.Params, doc any, totals model.Totals) *Result {
	return &Result{
		Type:           b.docType,
		Version:        b.docType.Version(),
		GenerationCode: p.GenerationCode,
		Document:       doc,
		Totals:         totals,
	}
}

// validate checks the fields every sales document needs
func (b base) validate(p *model.Params) error {
	t := b.docType
	if p == nil {
		return model.ErrRequired(t, "params")
	}
	if !p.Environment.Valid() {
		return model.NewValidationError(t, "environment", string(p.Environment), model.RuleOneOf, "must be 00 or 01")
	}
	if p.ControlNumber == "" {
		return model.ErrRequired(t, "control_number")
	}
	if p.GenerationCode == "" {
		return model.ErrRequired(t, "generation_code")
	}
	if model.CleanTaxID(p.Issuer.NIT) == "" {
		return model.ErrRequired(t, "issuer.nit")
	}
	if p.Issuer.Name == "" {
		return model.ErrRequired(t, "issuer.name")
	}
	if len(p.Items) == 0 {
		return model.NewValidationError(t, "items", 0, model.RuleMinItems, "at least one item is required")
	}
	for i, item := range p.Items {
		field := func(name string) string { return fmt.Sprintf("items[%d].%s", i, name) }
		if item.Description == "" {
			return model.ErrRequired(t, field("description"))
		}
		if !money.IsPositive(item.Quantity) {
			return model.NewValidationError(t, field("quantity"), item.Quantity.String(), model.RulePositive, "must be greater than zero")
		}
		if !money.IsNonNegative(item.UnitPrice) {
			return model.NewValidationError(t, field("unit_price"), item.UnitPrice.String(), model.RuleNonNegative, "must not be negative")
		}
		if !money.IsNonNegative(item.Discount) {
			return model.NewValidationError(t, field("discount"), item.Discount.String(), model.RuleNonNegative, "must not be negative")
		}
		if money.RoundItem(item.Discount).GreaterThan(money.RoundItem(item.Quantity.Mul(item.UnitPrice))) {
			return model.NewValidationError(t, field("discount"), item.Discount.String(), model.RuleNotAllowed, "discount exceeds line amount")
		}
		if !item.Classification.Valid() {
			return model.NewValidationError(t, field("classification"), string(item.Classification), model.RuleOneOf, "must be taxed, exempt or not_subject")
		}
	}
	discounts := []struct {
		field  string
		amount decimal.Decimal
	}{
		{"discounts.not_subject", p.Discounts.NotSubject},
		{"discounts.exempt", p.Discounts.Exempt},
		{"discounts.taxed", p.Discounts.Taxed},
	}
	for _, d := range discounts {
		if !money.IsNonNegative(d.amount) {
			return model.NewValidationError(t, d.field, d.amount.String(), model.RuleNonNegative, "must not be negative")
		}
	}
	return nil
}

// validateTaxpayerReceiver requires a receiver with NIT and NRC (03, 05, 06)
func (b base) validateTaxpayerReceiver(p *model.Params) error {
	if p.Receiver == nil {
		return model.ErrRequired(b.docType, "receiver")
	}
	if model.CleanTaxID(p.Receiver.NIT) == "" {
		return model.ErrRequired(b.docType, "receiver.nit")
	}
	if model.CleanTaxID(p.Receiver.NRC) == "" {
		return model.ErrRequired(b.docType, "receiver.nrc")
	}
	if p.Receiver.Name == "" {
		return model.ErrRequired(b.docType, "receiver.name")
	}
	return nil
}

// validateRelatedDocuments requires at least one related document (05, 06)
func (b base) validateRelatedDocuments(p *model.Params) error {
	if len(p.RelatedDocuments) == 0 {
		return model.NewValidationError(b.docType, "related_documents", 0, model.RuleMinItems, "at least one related document is required")
	}
	for i, rd := range p.RelatedDocuments {
		if rd.DocumentNumber == "" {
			return model.ErrRequired(b.docType, fmt.Sprintf("related_documents[%d].document_number", i))
		}
	}
	return nil
}

func address(a model.Address) dte.Address {
	return dte.Address{
		Department:   a.Department,
		Municipality: a.Municipality,
		Complement:   a.Complement,
	}
}

func optionalAddress(a *model.Address) *dte.Address {
	if a == nil {
		return nil
	}
	addr := address(*a)
	return &addr
}

func issuer(i model.Issuer) dte.Issuer {
	return dte.Issuer{
		NIT:                 model.CleanTaxID(i.NIT),
		NRC:                 model.CleanTaxID(i.NRC),
		Name:                i.Name,
		ActivityCode:        i.ActivityCode,
		ActivityDescription: i.ActivityDescription,
		TradeName:           i.TradeName,
		EstablishmentType:   i.EstablishmentType,
		Address:             address(i.Address),
		Phone:               i.Phone,
		Email:               i.Email,
		EstablishmentCodeMH: i.EstablishmentCodeMH,
		EstablishmentCode:   i.EstablishmentCode,
		POSCodeMH:           i.POSCodeMH,
		POSCode:             i.POSCode,
	}
}

func taxpayerReceiver(r *model.Receiver) dte.TaxCreditReceiver {
	return dte.TaxCreditReceiver{
		NIT:                 model.CleanTaxID(r.NIT),
		NRC:                 model.CleanTaxID(r.NRC),
		Name:                r.Name,
		ActivityCode:        r.ActivityCode,
		ActivityDescription: r.ActivityDescription,
		TradeName:           r.TradeName,
		Address:             optionalAddress(r.Address),
		Phone:               r.Phone,
		Email:               r.Email,
	}
}

func relatedDocuments(docs []model.RelatedDocument) []dte.RelatedDocument {
	if len(docs) == 0 {
		return nil
	}
	out := make([]dte.RelatedDocument, len(docs))
	for i, d := range docs {
		out[i] = dte.RelatedDocument{
			DocumentType:   string(d.DocumentType),
			GenerationType: d.GenerationType,
			DocumentNumber: d.DocumentNumber,
			IssueDate:      d.IssueDate,
		}
	}
	return out
}

func thirdPartySale(s *model.ThirdPartySale) *dte.ThirdPartySale {
	if s == nil {
		return nil
	}
	return &dte.ThirdPartySale{NIT: model.CleanTaxID(s.NIT), Name: s.Name}
}

func extension(e *model.Extension) *dte.Extension {
	if e == nil {
		return nil
	}
	return &dte.Extension{
		DeliveredBy:         e.DeliveredBy,
		DeliveredByDocument: e.DeliveredByDocument,
		ReceivedBy:          e.ReceivedBy,
		ReceivedByDocument:  e.ReceivedByDocument,
		Observations:        e.Observations,
		VehiclePlate:        e.VehiclePlate,
	}
}

func noteExtension(e *model.Extension) *dte.NoteExtension {
	if e == nil {
		return nil
	}
	return &dte.NoteExtension{
		DeliveredBy:         e.DeliveredBy,
		DeliveredByDocument: e.DeliveredByDocument,
		ReceivedBy:          e.ReceivedBy,
		ReceivedByDocument:  e.ReceivedByDocument,
		Observations:        e.Observations,
	}
}

func appendix(entries []model.AppendixEntry) []dte.Appendix {
	if len(entries) == 0 {
		return nil
	}
	out := make([]dte.Appendix, len(entries))
	for i, e := range entries {
		out[i] = dte.Appendix{Field: e.Field, Label: e.Label, Value: e.Value}
	}
	return out
}

// payments maps the caller's payments, or a single cash payment of the
// whole payable amount when none were given
func payments(p *model.Params, payable decimal.Decimal) []dte.Payment {
	if len(p.Payments) == 0 {
		return []dte.Payment{{Code: defaultPaymentCode, Amount: money.Float(payable)}}
	}
	out := make([]dte.Payment, len(p.Payments))
	for i, pm := range p.Payments {
		out[i] = dte.Payment{
			Code:      pm.Code,
			Amount:    money.Float(money.RoundAggregate(pm.Amount)),
			Reference: pm.Reference,
			Term:      pm.Term,
			Period:    pm.Period,
		}
	}
	return out
}

func paymentCondition(p *model.Params) int {
	if p.PaymentCondition == 0 {
		return defaultPaymentCondition
	}
	return p.PaymentCondition
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
