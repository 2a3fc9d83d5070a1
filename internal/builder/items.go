package builder

import (
	"github.com/shopspring/decimal"

	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// line is one processed item, every figure at item precision
type line struct {
	number   int
	item     model.ItemInput
	class    model.Classification
	quantity decimal.Decimal
	price    decimal.Decimal
	discount decimal.Decimal
	net      decimal.Decimal
	tax      decimal.Decimal // included tax, inclusive family only
}

func (l line) amount(c model.Classification) decimal.Decimal {
	if l.class == c {
		return l.net
	}
	return money.Zero
}

func (l line) notSubject() decimal.Decimal { return l.amount(model.ClassNotSubject) }
func (l line) exempt() decimal.Decimal     { return l.amount(model.ClassExempt) }
func (l line) taxed() decimal.Decimal      { return l.amount(model.ClassTaxed) }

// lineTotals are running sums over processed lines, not yet rounded
type lineTotals struct {
	notSubject decimal.Decimal
	exempt     decimal.Decimal
	taxed      decimal.Decimal
	discount   decimal.Decimal
	tax        decimal.Decimal
}

// classifier resolves the effective classification of an item
type classifier func(model.Classification) model.Classification

// defaultTo uses the given classification for items that carry none
func defaultTo(def model.Classification) classifier {
	return func(c model.Classification) model.Classification {
		if c == "" {
			return def
		}
		return c
	}
}

// exportClassifier makes every item exempt unless flagged not-subject
func exportClassifier(c model.Classification) model.Classification {
	if c == model.ClassNotSubject {
		return model.ClassNotSubject
	}
	return model.ClassExempt
}

// processItems numbers items from 1 in input order, computes each net as
// round4(quantity*price) - round4(discount) and accumulates it under exactly
// one classification
func processItems(items []model.ItemInput, classify classifier) ([]line, lineTotals) {
	lines := make([]line, len(items))
	var totals lineTotals
	for i, item := range items {
		l := line{
			number:   i + 1,
			item:     item,
			class:    classify(item.Classification),
			quantity: money.RoundItem(item.Quantity),
			price:    money.RoundItem(item.UnitPrice),
			discount: money.RoundItem(item.Discount),
			net:      money.LineAmount(item.Quantity, item.UnitPrice, item.Discount),
		}
		totals.notSubject = totals.notSubject.Add(l.notSubject())
		totals.exempt = totals.exempt.Add(l.exempt())
		totals.taxed = totals.taxed.Add(l.taxed())
		totals.discount = totals.discount.Add(l.discount)
		lines[i] = l
	}
	return lines, totals
}

// extractIncludedTax fills the per-line tax of taxed lines whose amounts
// already contain IVA
func extractIncludedTax(lines []line, totals *lineTotals) {
	for i := range lines {
		if lines[i].class != model.ClassTaxed {
			continue
		}
		lines[i].tax = money.ExtractIncludedTax(lines[i].net, money.IVARate)
		totals.tax = totals.tax.Add(lines[i].tax)
	}
}

// classTotals fills the per-classification and discount aggregates
func classTotals(lt lineTotals, d model.Discounts) model.Totals {
	t := model.Totals{
		TotalNotSubject: money.RoundAggregate(lt.notSubject),
		TotalExempt:     money.RoundAggregate(lt.exempt),
		TotalTaxed:      money.RoundAggregate(lt.taxed),
		ItemDiscount:    money.RoundAggregate(lt.discount),
	}
	t.SalesSubtotal = t.TotalNotSubject.Add(t.TotalExempt).Add(t.TotalTaxed)
	global := summaryDiscount(d)
	t.TotalDiscount = t.ItemDiscount.Add(global)
	t.Subtotal = t.SalesSubtotal.Sub(global)
	return t
}

func summaryDiscount(d model.Discounts) decimal.Decimal {
	return money.Sum([]decimal.Decimal{
		money.RoundAggregate(d.NotSubject),
		money.RoundAggregate(d.Exempt),
		money.RoundAggregate(d.Taxed),
	})
}

// checkDiscounts rejects summary discounts larger than the aggregate of
// their classification
func checkDiscounts(t model.TypeCode, lt lineTotals, d model.Discounts) error {
	checks := []struct {
		field    string
		discount decimal.Decimal
		total    decimal.Decimal
	}{
		{"discounts.not_subject", d.NotSubject, lt.notSubject},
		{"discounts.exempt", d.Exempt, lt.exempt},
		{"discounts.taxed", d.Taxed, lt.taxed},
	}
	for _, c := range checks {
		if money.RoundAggregate(c.discount).GreaterThan(money.RoundAggregate(c.total)) {
			return model.NewValidationError(t, c.field, c.discount.String(), model.RuleNotAllowed, "discount exceeds classification total")
		}
	}
	return nil
}

// exclusiveTotals computes IVA once over the aggregate taxed amount
func exclusiveTotals(lt lineTotals, d model.Discounts) model.Totals {
	t := classTotals(lt, d)
	t.TotalTax = money.CalculateTax(t.TotalTaxed.Sub(money.RoundAggregate(d.Taxed)), money.IVARate)
	t.TotalOperation = t.Subtotal.Add(t.TotalTax)
	t.TotalPayable = t.TotalOperation
	return t
}

// inclusiveTotals reports the IVA already contained in the taxed amounts
func inclusiveTotals(lt lineTotals, d model.Discounts) model.Totals {
	t := classTotals(lt, d)
	discountTax := money.ExtractIncludedTax(money.RoundAggregate(d.Taxed), money.IVARate)
	t.TotalTax = money.RoundAggregate(lt.tax.Sub(discountTax))
	t.TotalOperation = t.Subtotal
	t.TotalPayable = t.TotalOperation
	return t
}

// discountPercentage is the summary-level discount as a share of sales
func discountPercentage(t model.Totals, d model.Discounts) decimal.Decimal {
	if !money.IsPositive(t.SalesSubtotal) {
		return money.Zero
	}
	return money.RoundAggregate(summaryDiscount(d).Div(t.SalesSubtotal).Mul(decimal.NewFromInt(100)))
}

// taxTributes is the resumen tax breakdown of the exclusive family
func taxTributes(t model.Totals) []dte.Tribute {
	if !money.IsPositive(t.TotalTaxed) {
		return nil
	}
	return []dte.Tribute{{
		Code:        model.TaxCodeIVA,
		Description: model.TaxDescriptionIVA,
		Value:       money.Float(t.TotalTax),
	}}
}

// itemTributes marks taxed lines of the exclusive family with the IVA code
func itemTributes(l line) []string {
	if l.class != model.ClassTaxed {
		return nil
	}
	return []string{model.TaxCodeIVA}
}
