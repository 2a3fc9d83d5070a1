package builder

import (
	"strings"

	"github.com/google/uuid"

	money "github.com/rezonia/dte-emitter/internal/decimal"
	"github.com/rezonia/dte-emitter/internal/dte"
	"github.com/rezonia/dte-emitter/internal/model"
)

// InvalidationResult is the output of an invalidation build
type InvalidationResult struct {
	GenerationCode string
	Version        int
	Document       *dte.Invalidation
}

// InvalidationBuilder builds invalidation events. Unlike sales builders it
// generates its own event id and timestamp and computes no totals.
type InvalidationBuilder struct {
	opts options
}

// NewInvalidationBuilder creates the invalidation event builder
func NewInvalidationBuilder(opts ...Option) *InvalidationBuilder {
	return &InvalidationBuilder{opts: newOptions(opts)}
}

func newEventID() string {
	return strings.ToUpper(uuid.NewString())
}

// Build maps the original document and the motive into a fresh event
func (b *InvalidationBuilder) Build(p *model.InvalidationParams) (*InvalidationResult, error) {
	if err := validateInvalidation(p); err != nil {
		return nil, err
	}

	id := b.opts.newID()
	at := b.opts.clock.Now().In(Location)

	o, m := p.Original, p.Motive
	replacement := m.ReplacementCode
	if m.Type == model.InvalidationRescinded {
		replacement = nil
	}

	doc := &dte.Invalidation{
		Identification: dte.InvalidationIdentification{
			Version:        model.TypeInvalidation.Version(),
			Environment:    string(p.Environment),
			GenerationCode: id,
			Date:           at.Format(dateLayout),
			Time:           at.Format(timeLayout),
		},
		Issuer: dte.InvalidationIssuer{
			NIT:                 model.CleanTaxID(p.Issuer.NIT),
			Name:                p.Issuer.Name,
			EstablishmentType:   p.Issuer.EstablishmentType,
			EstablishmentName:   p.Issuer.EstablishmentName,
			EstablishmentCodeMH: p.Issuer.EstablishmentCodeMH,
			EstablishmentCode:   p.Issuer.EstablishmentCode,
			POSCodeMH:           p.Issuer.POSCodeMH,
			POSCode:             p.Issuer.POSCode,
			Phone:               stringPtr(p.Issuer.Phone),
			Email:               p.Issuer.Email,
		},
		Document: dte.InvalidatedDocument{
			DocumentType:      string(o.Type),
			GenerationCode:    o.GenerationCode,
			ReceivedSeal:      o.ReceivedSeal,
			ControlNumber:     o.ControlNumber,
			IssueDate:         o.IssueDate,
			TaxAmount:         money.Float(money.RoundAggregate(o.TaxAmount)),
			ReplacementCode:   replacement,
			ReceiverDocType:   o.ReceiverDocumentType,
			ReceiverDocNumber: o.ReceiverDocumentNumber,
			ReceiverName:      o.ReceiverName,
			ReceiverPhone:     o.ReceiverPhone,
			ReceiverEmail:     o.ReceiverEmail,
		},
		Motive: dte.InvalidationMotive{
			Type:                 m.Type,
			Reason:               m.Reason,
			ResponsibleName:      m.Responsible.Name,
			ResponsibleDocType:   m.Responsible.DocumentType,
			ResponsibleDocNumber: m.Responsible.DocumentNumber,
			RequesterName:        m.Requester.Name,
			RequesterDocType:     m.Requester.DocumentType,
			RequesterDocNumber:   m.Requester.DocumentNumber,
		},
	}

	return &InvalidationResult{
		GenerationCode: id,
		Version:        doc.Identification.Version,
		Document:       doc,
	}, nil
}

func validateInvalidation(p *model.InvalidationParams) error {
	t := model.TypeInvalidation
	if p == nil {
		return model.ErrRequired(t, "params")
	}
	if !p.Environment.Valid() {
		return model.NewValidationError(t, "environment", string(p.Environment), model.RuleOneOf, "must be 00 or 01")
	}
	if model.CleanTaxID(p.Issuer.NIT) == "" {
		return model.ErrRequired(t, "issuer.nit")
	}
	if p.Issuer.Name == "" {
		return model.ErrRequired(t, "issuer.name")
	}

	o := p.Original
	if !o.Type.Valid() || o.Type == model.TypeInvalidation {
		return model.NewValidationError(t, "original.type", string(o.Type), model.RuleOneOf, "must be a sales document type")
	}
	required := []struct {
		field string
		value string
	}{
		{"original.generation_code", o.GenerationCode},
		{"original.received_seal", o.ReceivedSeal},
		{"original.control_number", o.ControlNumber},
		{"original.issue_date", o.IssueDate},
		{"motive.responsible.name", p.Motive.Responsible.Name},
		{"motive.responsible.document_number", p.Motive.Responsible.DocumentNumber},
		{"motive.requester.name", p.Motive.Requester.Name},
		{"motive.requester.document_number", p.Motive.Requester.DocumentNumber},
	}
	for _, r := range required {
		if r.value == "" {
			return model.ErrRequired(t, r.field)
		}
	}

	switch p.Motive.Type {
	case model.InvalidationReplaced:
		if p.Motive.ReplacementCode == nil || *p.Motive.ReplacementCode == "" {
			return model.ErrRequired(t, "motive.replacement_code")
		}
	case model.InvalidationRescinded:
	case model.InvalidationOther:
		if p.Motive.Reason == nil || *p.Motive.Reason == "" {
			return model.ErrRequired(t, "motive.reason")
		}
	default:
		return model.NewValidationError(t, "motive.type", p.Motive.Type, model.RuleOneOf, "must be 1, 2 or 3")
	}
	return nil
}
