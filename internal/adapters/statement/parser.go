// Package statement turns uploaded bank statement files into statement rows.
package statement

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
)

// Parser converts one bank's export format into statement rows.
type Parser interface {
	Parse(r io.Reader) ([]domain.StatementRow, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

var _ portsrepo.StatementParser = (*Registry)(nil)

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate statement format: " + key)
	}
	r.parsers[key] = p
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse reads the file with the parser registered for format.
func (r *Registry) Parse(format string, in io.Reader) ([]domain.StatementRow, error) {
	p, ok := r.parsers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown statement format %q (supported: %s)",
			apperrors.ErrValidation, format, strings.Join(r.Formats(), ", "))
	}
	rows, err := p.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %s statement: %v", apperrors.ErrValidation, p.Format(), err)
	}
	return rows, nil
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&GenericCSVParser{})
	r.Register(&SignedAmountCSVParser{})
	return r
}
