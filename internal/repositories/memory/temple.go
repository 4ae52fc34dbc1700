package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/temple_ledger/internal/apperrors"
	"github.com/SscSPs/temple_ledger/internal/core/domain"
)

func (s *Store) SaveTemple(_ context.Context, temple domain.Temple) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.temples[temple.TempleID]; ok {
		return fmt.Errorf("%w: temple %s", apperrors.ErrDuplicate, temple.TempleID)
	}
	s.data.temples[temple.TempleID] = temple
	return nil
}

func (s *Store) FindTempleByID(_ context.Context, templeID string) (*domain.Temple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data.temples[templeID]
	if !ok {
		return nil, apperrors.NewNotFoundError("temple " + templeID)
	}
	return &t, nil
}

func (s *Store) ListTemples(_ context.Context) ([]domain.Temple, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	temples := make([]domain.Temple, 0, len(s.data.temples))
	for _, t := range s.data.temples {
		temples = append(temples, t)
	}
	sort.Slice(temples, func(i, j int) bool { return temples[i].Name < temples[j].Name })
	return temples, nil
}
