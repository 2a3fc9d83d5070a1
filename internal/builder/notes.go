package builder

import (
	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// CreditNoteBuilder builds Nota de Credito (05) documents
type CreditNoteBuilder struct {
	base
}

// NewCreditNoteBuilder creates the 05 builder
func NewCreditNoteBuilder(opts ...Option) *CreditNoteBuilder {
	return &CreditNoteBuilder{base: newBase(model.TypeCreditNote, opts)}
}

// Build implements Builder
func (b *CreditNoteBuilder) Build(p *model.Params) (*Result, error) {
	n, err := buildNote(b.base, p)
	if err != nil {
		return nil, err
	}
	doc := &dte.CreditNote{
		Identification:   b.identification(p),
		RelatedDocuments: relatedDocuments(p.RelatedDocuments),
		Issuer:           noteIssuer(p.Issuer),
		Receiver:         taxpayerReceiver(p.Receiver),
		ThirdPartySale:   thirdPartySale(p.ThirdPartySale),
		Body:             n.body,
		Summary:          n.summary,
		Extension:        noteExtension(p.Extension),
		Appendix:         appendix(p.Appendix),
	}
	return b.result(p, doc, n.totals), nil
}

// DebitNoteBuilder builds Nota de Debito (06) documents
type DebitNoteBuilder struct {
	base
}

// NewDebitNoteBuilder creates the 06 builder
func NewDebitNoteBuilder(opts ...Option) *DebitNoteBuilder {
	return &DebitNoteBuilder{base: newBase(model.TypeDebitNote, opts)}
}

// Build implements Builder
func (b *DebitNoteBuilder) Build(p *model.Params) (*Result, error) {
	n, err := buildNote(b.base, p)
	if err != nil {
		return nil, err
	}
	doc := &dte.DebitNote{
		Identification:   b.identification(p),
		RelatedDocuments: relatedDocuments(p.RelatedDocuments),
		Issuer:           noteIssuer(p.Issuer),
		Receiver:         taxpayerReceiver(p.Receiver),
		ThirdPartySale:   thirdPartySale(p.ThirdPartySale),
		Body:             n.body,
		Summary: dte.DebitNoteSummary{
			NoteSummary:             n.summary,
			ElectronicPaymentNumber: p.ElectronicPaymentNumber,
		},
		Extension: noteExtension(p.Extension),
		Appendix:  appendix(p.Appendix),
	}
	return b.result(p, doc, n.totals), nil
}

type note struct {
	body    []dte.NoteItem
	summary dte.NoteSummary
	totals  model.Totals
}

// buildNote computes the body and summary shared by credit and debit notes.
// Notes carry no totalPagar, so the amount in words renders the operation total.
func buildNote(b base, p *model.Params) (*note, error) {
	if err := b.validate(p); err != nil {
		return nil, err
	}
	if err := b.validateTaxpayerReceiver(p); err != nil {
		return nil, err
	}
	if err := b.validateRelatedDocuments(p); err != nil {
		return nil, err
	}

	lines, lt := processItems(p.Items, defaultTo(model.ClassTaxed))
	if err := checkDiscounts(b.docType, lt, p.Discounts); err != nil {
		return nil, err
	}
	totals := exclusiveTotals(lt, p.Discounts)
	totals.AmountInWords = money.ToWords(totals.TotalOperation)

	defaultRelated := p.RelatedDocuments[0].DocumentNumber
	body := make([]dte.NoteItem, len(lines))
	for i, l := range lines {
		related := l.item.RelatedDocument
		if related == nil {
			related = &defaultRelated
		}
		body[i] = dte.NoteItem{
			Number:          l.number,
			ItemType:        l.item.ItemType,
			RelatedDocument: related,
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

	return &note{
		body: body,
		summary: dte.NoteSummary{
			TotalNotSubject:    money.Float(totals.TotalNotSubject),
			TotalExempt:        money.Float(totals.TotalExempt),
			TotalTaxed:         money.Float(totals.TotalTaxed),
			SalesSubtotal:      money.Float(totals.SalesSubtotal),
			NotSubjectDiscount: money.Float(money.RoundAggregate(p.Discounts.NotSubject)),
			ExemptDiscount:     money.Float(money.RoundAggregate(p.Discounts.Exempt)),
			TaxedDiscount:      money.Float(money.RoundAggregate(p.Discounts.Taxed)),
			TotalDiscount:      money.Float(totals.TotalDiscount),
			Tributes:           taxTributes(totals),
			Subtotal:           money.Float(totals.Subtotal),
			TotalOperation:     money.Float(totals.TotalOperation),
			AmountInWords:      totals.AmountInWords,
			OperationCondition: paymentCondition(p),
		},
		totals: totals,
	}, nil
}

func noteIssuer(i model.Issuer) dte.NoteIssuer {
	return dte.NoteIssuer{
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
	}
}
