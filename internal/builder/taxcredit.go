package builder

import (
	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// TaxCreditBuilder builds Comprobante de Credito Fiscal (03) documents.
// Prices exclude IVA, which is computed once over the taxed aggregate.
type TaxCreditBuilder struct {
	base
}

// NewTaxCreditBuilder creates the 03 builder
func NewTaxCreditBuilder(opts ...Option) *TaxCreditBuilder {
	return &TaxCreditBuilder{base: newBase(model.TypeTaxCredit, opts)}
}

// Build implements Builder
func (b *TaxCreditBuilder) Build(p *model.Params) (*Result, error) {
	if err := b.validate(p); err != nil {
		return nil, err
	}
	if err := b.validateTaxpayerReceiver(p); err != nil {
		return nil, err
	}

	lines, lt := processItems(p.Items, defaultTo(model.ClassTaxed))
	if err := checkDiscounts(b.docType, lt, p.Discounts); err != nil {
		return nil, err
	}
	totals := exclusiveTotals(lt, p.Discounts)
	totals.AmountInWords = money.ToWords(totals.TotalPayable)

	body := make([]dte.TaxCreditItem, len(lines))
	for i, l := range lines {
		body[i] = dte.TaxCreditItem{
			Number:          l.number,
			ItemType:        l.item.ItemType,
			RelatedDocument: l.item.RelatedDocument,
			Code:            l.item.Code,
			Description:     l.item.Description,
			Quantity:        money.Float(l.quantity),
			UnitOfMeasure:   l.item.UnitOfMeasure,
			UnitPrice:       money.Float(l.price),
			Discount:        money.Float(l.discount),
			NotSubjectSale:  money.Float(l.notSubject()),
			ExemptSale:      money.Float(l.exempt()),
			TaxedSale:       money.Float(l.taxed()),
			Tributes:        itemTributes(l),
		}
	}

	doc := &dte.TaxCredit{
		Identification:   b.identification(p),
		RelatedDocuments: relatedDocuments(p.RelatedDocuments),
		Issuer:           issuer(p.Issuer),
		Receiver:         taxpayerReceiver(p.Receiver),
		ThirdPartySale:   thirdPartySale(p.ThirdPartySale),
		Body:             body,
		Summary: dte.TaxCreditSummary{
			TotalNotSubject:         money.Float(totals.TotalNotSubject),
			TotalExempt:             money.Float(totals.TotalExempt),
			TotalTaxed:              money.Float(totals.TotalTaxed),
			SalesSubtotal:           money.Float(totals.SalesSubtotal),
			NotSubjectDiscount:      money.Float(money.RoundAggregate(p.Discounts.NotSubject)),
			ExemptDiscount:          money.Float(money.RoundAggregate(p.Discounts.Exempt)),
			TaxedDiscount:           money.Float(money.RoundAggregate(p.Discounts.Taxed)),
			DiscountPercentage:      money.Float(discountPercentage(totals, p.Discounts)),
			TotalDiscount:           money.Float(totals.TotalDiscount),
			Tributes:                taxTributes(totals),
			Subtotal:                money.Float(totals.Subtotal),
			TotalOperation:          money.Float(totals.TotalOperation),
			TotalPayable:            money.Float(totals.TotalPayable),
			AmountInWords:           totals.AmountInWords,
			OperationCondition:      paymentCondition(p),
			Payments:                payments(p, totals.TotalPayable),
			ElectronicPaymentNumber: p.ElectronicPaymentNumber,
		},
		Extension: extension(p.Extension),
		Appendix:  appendix(p.Appendix),
	}
	return b.result(p, doc, totals), nil
}
