package builder

import (
	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// ExcludedSubjectBuilder builds Factura de Sujeto Excluido (14) documents.
// The document records a purchase from a seller outside the IVA regime, so
// the receiver is the seller and items carry only a purchase amount.
type ExcludedSubjectBuilder struct {
	base
}

// NewExcludedSubjectBuilder creates the 14 builder
func NewExcludedSubjectBuilder(opts ...Option) *ExcludedSubjectBuilder {
	return &ExcludedSubjectBuilder{base: newBase(model.TypeExcludedSubject, opts)}
}

// Build implements Builder
func (b *ExcludedSubjectBuilder) Build(p *model.Params) (*Result, error) {
	if err := b.validate(p); err != nil {
		return nil, err
	}
	if p.Receiver == nil || p.Receiver.DocumentNumber == nil || *p.Receiver.DocumentNumber == "" {
		return nil, model.ErrRequired(b.docType, "receiver.document_number")
	}
	if p.Receiver.Name == "" {
		return nil, model.ErrRequired(b.docType, "receiver.name")
	}
	if !money.IsNonNegative(p.Withholding.IVA) {
		return nil, model.NewValidationError(b.docType, "withholding.iva", p.Withholding.IVA.String(), model.RuleNonNegative, "must not be negative")
	}
	if !money.IsNonNegative(p.Withholding.Income) {
		return nil, model.NewValidationError(b.docType, "withholding.income", p.Withholding.Income.String(), model.RuleNonNegative, "must not be negative")
	}

	// Every purchase line counts as not subject to IVA
	lines, lt := processItems(p.Items, func(model.Classification) model.Classification {
		return model.ClassNotSubject
	})
	if err := checkDiscounts(b.docType, lt, model.Discounts{NotSubject: p.Discounts.Total()}); err != nil {
		return nil, err
	}
	discount := money.RoundAggregate(p.Discounts.Total())
	totals := model.Totals{
		TotalNotSubject: money.RoundAggregate(lt.notSubject),
		ItemDiscount:    money.RoundAggregate(lt.discount),
		TotalTax:        money.Zero,
	}
	totals.SalesSubtotal = totals.TotalNotSubject
	totals.TotalDiscount = totals.ItemDiscount.Add(discount)
	totals.Subtotal = totals.SalesSubtotal.Sub(discount)
	totals.TotalOperation = totals.Subtotal

	ivaWithheld := money.RoundAggregate(p.Withholding.IVA)
	incomeWithheld := money.RoundAggregate(p.Withholding.Income)
	if withheld := ivaWithheld.Add(incomeWithheld); withheld.GreaterThan(totals.Subtotal) {
		return nil, model.NewValidationError(b.docType, "withholding", withheld.String(), model.RuleNotAllowed, "withholding exceeds subtotal")
	}
	totals.TotalPayable = totals.Subtotal.Sub(ivaWithheld).Sub(incomeWithheld)
	totals.AmountInWords = money.ToWords(totals.TotalPayable)

	body := make([]dte.ExcludedSubjectItem, len(lines))
	for i, l := range lines {
		body[i] = dte.ExcludedSubjectItem{
			Number:        l.number,
			ItemType:      l.item.ItemType,
			Quantity:      money.Float(l.quantity),
			Code:          l.item.Code,
			UnitOfMeasure: l.item.UnitOfMeasure,
			Description:   l.item.Description,
			UnitPrice:     money.Float(l.price),
			Discount:      money.Float(l.discount),
			Purchase:      money.Float(l.net),
		}
	}

	i, r := p.Issuer, p.Receiver
	doc := &dte.ExcludedSubjectInvoice{
		Identification: b.identification(p),
		Issuer: dte.ExcludedSubjectIssuer{
			NIT:                 model.CleanTaxID(i.NIT),
			NRC:                 model.CleanTaxID(i.NRC),
			Name:                i.Name,
			ActivityCode:        i.ActivityCode,
			ActivityDescription: i.ActivityDescription,
			Address:             address(i.Address),
			Phone:               i.Phone,
			EstablishmentCodeMH: i.EstablishmentCodeMH,
			EstablishmentCode:   i.EstablishmentCode,
			POSCodeMH:           i.POSCodeMH,
			POSCode:             i.POSCode,
			Email:               i.Email,
		},
		ExcludedSubject: dte.ExcludedSubject{
			DocumentType:        r.DocumentType,
			DocumentNumber:      *r.DocumentNumber,
			Name:                r.Name,
			ActivityCode:        r.ActivityCode,
			ActivityDescription: r.ActivityDescription,
			Address:             optionalAddress(r.Address),
			Phone:               r.Phone,
			Email:               r.Email,
		},
		Body: body,
		Summary: dte.ExcludedSubjectSummary{
			TotalPurchase:      money.Float(totals.SalesSubtotal),
			Discount:           money.Float(discount),
			TotalDiscount:      money.Float(totals.TotalDiscount),
			Subtotal:           money.Float(totals.Subtotal),
			IVAWithheld:        money.Float(ivaWithheld),
			IncomeWithheld:     money.Float(incomeWithheld),
			TotalPayable:       money.Float(totals.TotalPayable),
			AmountInWords:      totals.AmountInWords,
			OperationCondition: paymentCondition(p),
			Payments:           payments(p, totals.TotalPayable),
			Observations:       p.Observations,
		},
		Appendix: appendix(p.Appendix),
	}
	return b.result(p, doc, totals), nil
}
