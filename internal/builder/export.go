package builder

import (
	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// ExportInvoiceBuilder builds Factura de Exportacion (11) documents.
// Exports carry no IVA: items are exempt unless flagged not-subject, and
// freight and insurance are added to the operation total.
type ExportInvoiceBuilder struct {
	base
}

// NewExportInvoiceBuilder creates the 11 builder
func NewExportInvoiceBuilder(opts ...Option) *ExportInvoiceBuilder {
	return &ExportInvoiceBuilder{base: newBase(model.TypeExportInvoice, opts)}
}

// Build implements Builder
func (b *ExportInvoiceBuilder) Build(p *model.Params) (*Result, error) {
	if err := b.validate(p); err != nil {
		return nil, err
	}
	if p.Receiver == nil {
		return nil, model.ErrRequired(b.docType, "receiver")
	}
	if p.Receiver.Name == "" {
		return nil, model.ErrRequired(b.docType, "receiver.name")
	}
	if p.Issuer.ExportItemType == nil {
		return nil, model.ErrRequired(b.docType, "issuer.export_item_type")
	}

	var export model.ExportDetails
	if p.Export != nil {
		export = *p.Export
	}
	freight := money.RoundAggregate(export.Freight)
	insurance := money.RoundAggregate(export.Insurance)
	if !money.IsNonNegative(freight) {
		return nil, model.NewValidationError(b.docType, "export.freight", freight.String(), model.RuleNonNegative, "must not be negative")
	}
	if !money.IsNonNegative(insurance) {
		return nil, model.NewValidationError(b.docType, "export.insurance", insurance.String(), model.RuleNonNegative, "must not be negative")
	}

	// Export summaries only report the exempt and not-subject discounts
	discounts := model.Discounts{NotSubject: p.Discounts.NotSubject, Exempt: p.Discounts.Exempt.Add(p.Discounts.Taxed)}
	lines, lt := processItems(p.Items, exportClassifier)
	if err := checkDiscounts(b.docType, lt, discounts); err != nil {
		return nil, err
	}
	totals := classTotals(lt, discounts)
	totals.TotalTax = money.Zero
	totals.TotalOperation = totals.Subtotal.Add(freight).Add(insurance)
	totals.TotalPayable = totals.TotalOperation
	totals.AmountInWords = money.ToWords(totals.TotalPayable)

	body := make([]dte.ExportItem, len(lines))
	for i, l := range lines {
		body[i] = dte.ExportItem{
			Number:         l.number,
			Quantity:       money.Float(l.quantity),
			Code:           l.item.Code,
			UnitOfMeasure:  l.item.UnitOfMeasure,
			Description:    l.item.Description,
			UnitPrice:      money.Float(l.price),
			Discount:       money.Float(l.discount),
			NotSubjectSale: money.Float(l.notSubject()),
			ExemptSale:     money.Float(l.exempt()),
		}
	}

	r := p.Receiver
	doc := &dte.ExportInvoice{
		Identification: dte.ExportIdentification(b.identification(p)),
		Issuer: dte.ExportIssuer{
			Issuer:          issuer(p.Issuer),
			ExportItemType:  *p.Issuer.ExportItemType,
			FiscalEnclosure: p.Issuer.FiscalEnclosure,
			Regime:          p.Issuer.Regime,
		},
		Receiver: dte.ExportReceiver{
			Name:                r.Name,
			DocumentType:        r.DocumentType,
			DocumentNumber:      r.DocumentNumber,
			TradeName:           r.TradeName,
			CountryCode:         r.CountryCode,
			CountryName:         r.CountryName,
			Complement:          complement(r.Address),
			PersonType:          r.PersonType,
			ActivityDescription: r.ActivityDescription,
			Phone:               r.Phone,
			Email:               r.Email,
		},
		ThirdPartySale: thirdPartySale(p.ThirdPartySale),
		Body:           body,
		Summary: dte.ExportSummary{
			TotalNotSubject:         money.Float(totals.TotalNotSubject),
			TotalExempt:             money.Float(totals.TotalExempt),
			SalesSubtotal:           money.Float(totals.SalesSubtotal),
			Discount:                money.Float(summaryDiscount(discounts)),
			DiscountPercentage:      money.Float(discountPercentage(totals, discounts)),
			TotalDiscount:           money.Float(totals.TotalDiscount),
			Insurance:               money.Float(insurance),
			Freight:                 money.Float(freight),
			TotalOperation:          money.Float(totals.TotalOperation),
			TotalPayable:            money.Float(totals.TotalPayable),
			AmountInWords:           totals.AmountInWords,
			OperationCondition:      paymentCondition(p),
			Payments:                payments(p, totals.TotalPayable),
			IncotermsCode:           export.IncotermsCode,
			IncotermsDescription:    export.IncotermsDescription,
			Observations:            p.Observations,
			ElectronicPaymentNumber: p.ElectronicPaymentNumber,
		},
		Appendix: appendix(p.Appendix),
	}
	return b.result(p, doc, totals), nil
}

func complement(a *model.Address) *string {
	if a == nil {
		return nil
	}
	return stringPtr(a.Complement)
}
