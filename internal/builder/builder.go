// Package builder turns normalized business data into MH documents with
// reconciled totals. There is one builder per document type; the Registry
// dispatches on the type code.
package builder

import (
	"fmt"
	"sort"

	"github.com/jonboulle/clockwork"

	"github.com/rezonia/dte-emitter/internal/model"
)

// Result is the output of a sales document build
type Result struct {
	Type           model.TypeCode
	Version        int
	GenerationCode string
	Document       any
	Totals         model.Totals
}

// Builder builds one document type
type Builder interface {
	// Type returns the document type this builder produces
	Type() model.TypeCode

	// Build validates params and returns the document, or a
	// *model.ValidationError without any partial output
	Build(p *model.Params) (*Result, error)
}

// Option configures builders
type Option func(*options)

type options struct {
	clock clockwork.Clock
	newID func() string
}

// WithClock sets the clock used when Params.IssuedAt is zero
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithIDGenerator sets the generator of invalidation event ids
func WithIDGenerator(f func() string) Option {
	return func(o *options) {
		o.newID = f
	}
}

func newOptions(opts []Option) options {
	o := options{clock: clockwork.NewRealClock(), newID: newEventID}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Registry holds one builder per document type
type Registry struct {
	builders map[model.TypeCode]Builder
}

// NewRegistry creates a registry with the six sales document builders
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{builders: make(map[model.TypeCode]Builder)}
	for _, b := range []Builder{
		NewInvoiceBuilder(opts...),
		NewTaxCreditBuilder(opts...),
		NewCreditNoteBuilder(opts...),
		NewDebitNoteBuilder(opts...),
		NewExportInvoiceBuilder(opts...),
		NewExcludedSubjectBuilder(opts...),
	} {
		r.Register(b)
	}
	return r
}

// Register adds a builder, replacing any builder for the same type
func (r *Registry) Register(b Builder) {
	r.builders[b.Type()] = b
}

// Get returns the builder for a type code
func (r *Registry) Get(t model.TypeCode) (Builder, error) {
	b, ok := r.builders[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownType, t)
	}
	return b, nil
}

// MustGet returns the builder for a type code and panics if none is registered.
// Use it only with type codes known at compile time.
func (r *Registry) MustGet(t model.TypeCode) Builder {
	b, err := r.Get(t)
	if err != nil {
		panic(err)
	}
	return b
}

// Build builds a document of the given type
func (r *Registry) Build(t model.TypeCode, p *model.Params) (*Result, error) {
	b, err := r.Get(t)
	if err != nil {
		return nil, err
	}
	return b.Build(p)
}

// Types returns the registered type codes in ascending order
func (r *Registry) Types() []model.TypeCode {
	types := make([]model.TypeCode, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
