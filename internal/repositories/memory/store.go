// Package memory is an in-process implementation of every repository port. A single mutex
// serializes writers, and WithinTx restores a snapshot when its function fails.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/SscSPs/temple_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/temple_ledger/internal/core/ports/repositories"
)

type state struct {
	temples    map[string]domain.Temple
	accounts   map[string]domain.Account
	entries    map[string]domain.JournalEntry
	lines      map[string][]domain.JournalLine // by entry ID
	heads      map[string]domain.LedgerHead
	sequences  map[string]int64 // by temple and fiscal year
	closings   map[string]domain.PeriodClosing
	statements map[string]domain.BankStatement
	stmtRows   map[string][]domain.StatementEntry // by statement ID
}

func newState() state {
	return state{
		temples:    map[string]domain.Temple{},
		accounts:   map[string]domain.Account{},
		entries:    map[string]domain.JournalEntry{},
		lines:      map[string][]domain.JournalLine{},
		heads:      map[string]domain.LedgerHead{},
		sequences:  map[string]int64{},
		closings:   map[string]domain.PeriodClosing{},
		statements: map[string]domain.BankStatement{},
		stmtRows:   map[string][]domain.StatementEntry{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	c := make(map[K][]V, len(m))
	for k, v := range m {
		c[k] = append([]V(nil), v...)
	}
	return c
}

func (st state) clone() state {
	return state{
		temples:    cloneMap(st.temples),
		accounts:   cloneMap(st.accounts),
		entries:    cloneMap(st.entries),
		lines:      cloneSliceMap(st.lines),
		heads:      cloneMap(st.heads),
		sequences:  cloneMap(st.sequences),
		closings:   cloneMap(st.closings),
		statements: cloneMap(st.statements),
		stmtRows:   cloneSliceMap(st.stmtRows),
	}
}

// Store keeps all ledger data in memory.
type Store struct {
	mu   sync.RWMutex
	data state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Provider exposes the store through every repository port.
func (s *Store) Provider(auditLog portsrepo.AuditLog) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TempleRepo:    s,
		AccountRepo:   s,
		JournalRepo:   s,
		ReportingRepo: s,
		PeriodRepo:    s,
		StatementRepo: s,
		AuditLog:      auditLog,
	}
}

// WithinTx runs fn holding the store's write lock. Changes made through tx are discarded when fn fails.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, &ledgerTx{st: &s.data}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func sequenceKey(templeID string, fiscalYear int) string {
	return fmt.Sprintf("%s|%d", templeID, fiscalYear)
}

var (
	_ portsrepo.TempleRepositoryFacade    = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.JournalRepositoryWithTx   = (*Store)(nil)
	_ portsrepo.ReportingRepository       = (*Store)(nil)
	_ portsrepo.PeriodRepository          = (*Store)(nil)
	_ portsrepo.StatementRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerTx                  = (*ledgerTx)(nil)
)
