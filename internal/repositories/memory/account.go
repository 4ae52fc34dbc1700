package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

func (st *state) codeTaken(templeID, code, exceptID string) bool {
	for _, a := range st.accounts {
		if a.TempleID == templeID && a.Code == code && a.AccountID != exceptID {
			return true
		}
	}
	return false
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	if s.data.codeTaken(account.TempleID, account.Code, "") {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	s.data.accounts[account.AccountID] = account
	return nil
}

func (s *Store) UpdateAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data.accounts[account.AccountID]
	if !ok || existing.TempleID != account.TempleID {
		return apperrors.NewNotFoundError("account " + account.AccountID)
	}
	if s.data.codeTaken(account.TempleID, account.Code, account.AccountID) {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	s.data.accounts[account.AccountID] = account
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, templeID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.data.accounts[accountID]
	if !ok || existing.TempleID != templeID {
		return apperrors.NewNotFoundError("account " + accountID)
	}
	delete(s.data.accounts, accountID)
	return nil
}

func (s *Store) FindAccountByID(_ context.Context, templeID, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.data.accounts[accountID]
	if !ok || a.TempleID != templeID {
		return nil, apperrors.NewNotFoundError("account " + accountID)
	}
	return &a, nil
}

func (s *Store) FindAccountByCode(_ context.Context, templeID, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.data.accounts {
		if a.TempleID == templeID && a.Code == code {
			return &a, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account code " + code)
}

func (s *Store) FindAccountsByIDs(_ context.Context, templeID string, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := s.data.accounts[id]; ok && a.TempleID == templeID {
			res[id] = a
		}
	}
	return res, nil
}

func (s *Store) ListAccounts(_ context.Context, templeID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]domain.Account, 0)
	for _, a := range s.data.accounts {
		if a.TempleID == templeID {
			accounts = append(accounts, a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *Store) AccountHasLines(_ context.Context, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, lines := range s.data.lines {
		for _, l := range lines {
			if l.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}
