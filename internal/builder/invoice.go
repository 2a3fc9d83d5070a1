package builder

import (
	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// InvoiceBuilder builds Factura (01) documents. Prices include IVA and the
// tax is extracted per line.
type InvoiceBuilder struct {
	base
}

// NewInvoiceBuilder creates the 01 builder
func NewInvoiceBuilder(opts ...Option) *InvoiceBuilder {
	return &InvoiceBuilder{base: newBase(model.TypeInvoice, opts)}
}

// Build implements Builder
func (b *InvoiceBuilder) Build(p *model.Params) (*Result, error) {
	if err := b.validate(p); err != nil {
		return nil, err
	}

	lines, lt := processItems(p.Items, defaultTo(model.ClassTaxed))
	if err := checkDiscounts(b.docType, lt, p.Discounts); err != nil {
		return nil, err
	}
	extractIncludedTax(lines, &lt)
	totals := inclusiveTotals(lt, p.Discounts)
	totals.AmountInWords = money.ToWords(totals.TotalPayable)

	body := make([]dte.InvoiceItem, len(lines))
	for i, l := range lines {
		body[i] = dte.InvoiceItem{
			Number:          l.number,
			ItemType:        l.item.ItemType,
			RelatedDocument: l.item.RelatedDocument,
			Quantity:        money.Float(l.quantity),
			Code:            l.item.Code,
			UnitOfMeasure:   l.item.UnitOfMeasure,
			Description:     l.item.Description,
			UnitPrice:       money.Float(l.price),
			Discount:        money.Float(l.discount),
			NotSubjectSale:  money.Float(l.notSubject()),
			ExemptSale:      money.Float(l.exempt()),
			TaxedSale:       money.Float(l.taxed()),
			ItemIVA:         money.Float(l.tax),
		}
	}

	doc := &dte.Invoice{
		Identification:   b.identification(p),
		RelatedDocuments: relatedDocuments(p.RelatedDocuments),
		Issuer:           issuer(p.Issuer),
		Receiver:         consumer(p.Receiver),
		ThirdPartySale:   thirdPartySale(p.ThirdPartySale),
		Body:             body,
		Summary: dte.InvoiceSummary{
			TotalNotSubject:         money.Float(totals.TotalNotSubject),
			TotalExempt:             money.Float(totals.TotalExempt),
			TotalTaxed:              money.Float(totals.TotalTaxed),
			SalesSubtotal:           money.Float(totals.SalesSubtotal),
			NotSubjectDiscount:      money.Float(money.RoundAggregate(p.Discounts.NotSubject)),
			ExemptDiscount:          money.Float(money.RoundAggregate(p.Discounts.Exempt)),
			TaxedDiscount:           money.Float(money.RoundAggregate(p.Discounts.Taxed)),
			DiscountPercentage:      money.Float(discountPercentage(totals, p.Discounts)),
			TotalDiscount:           money.Float(totals.TotalDiscount),
			Subtotal:                money.Float(totals.Subtotal),
			TotalOperation:          money.Float(totals.TotalOperation),
			TotalPayable:            money.Float(totals.TotalPayable),
			AmountInWords:           totals.AmountInWords,
			TotalIVA:                money.Float(totals.TotalTax),
			OperationCondition:      paymentCondition(p),
			Payments:                payments(p, totals.TotalPayable),
			ElectronicPaymentNumber: p.ElectronicPaymentNumber,
		},
		Extension: extension(p.Extension),
		Appendix:  appendix(p.Appendix),
	}
	return b.result(p, doc, totals), nil
}

// consumer maps an optional final consumer. A receiver identified only by
// NIT is reported with document type 36.
func consumer(r *model.Receiver) *dte.InvoiceReceiver {
	if r == nil {
		return nil
	}
	docType, docNumber := r.DocumentType, r.DocumentNumber
	if docNumber == nil {
		if nit := model.CleanTaxID(r.NIT); nit != "" {
			docType = stringPtr(documentTypeNIT)
			docNumber = &nit
		}
	}
	return &dte.InvoiceReceiver{
		DocumentType:        docType,
		DocumentNumber:      docNumber,
		NRC:                 stringPtr(model.CleanTaxID(r.NRC)),
		Name:                stringPtr(r.Name),
		ActivityCode:        r.ActivityCode,
		ActivityDescription: r.ActivityDescription,
		Address:             optionalAddress(r.Address),
		Phone:               r.Phone,
		Email:               r.Email,
	}
}
