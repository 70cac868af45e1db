// Package memstore holds an in-memory AlertRepository with the same claim
// semantics as the database-backed one. It backs the engine tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/akarpov/pricewatch/internal/domain"
)

type AlertStore struct {
	mu     sync.Mutex
	nextID uint
	alerts map[uint]domain.Alert
}

func NewAlertStore() *AlertStore {
	return &AlertStore{alerts: make(map[uint]domain.Alert)}
}

func (s *AlertStore) Create(ctx context.Context, alert *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	alert.ID = s.nextID
	now := time.Now()
	alert.CreatedAt = now
	alert.UpdatedAt = now
	s.alerts[alert.ID] = *alert
	return nil
}

func (s *AlertStore) ListByUser(ctx context.Context, userID uint) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var alerts []domain.Alert
	for _, alert := range s.alerts {
		if alert.UserID == userID {
			alerts = append(alerts, alert)
		}
	}
	sortByID(alerts)
	return alerts, nil
}

func (s *AlertStore) Delete(ctx context.Context, userID uint, alertID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[alertID]
	if !ok || alert.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.alerts, alertID)
	return nil
}

func (s *AlertStore) ListDistinctActiveKeys(ctx context.Context) ([]domain.QuoteKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[domain.QuoteKey]struct{})
	var keys []domain.QuoteKey
	for _, alert := range s.alerts {
		if !alert.Active() {
			continue
		}
		key := domain.QuoteKey{Market: alert.Market, Pair: alert.Pair}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Market != keys[j].Market {
			return keys[i].Market < keys[j].Market
		}
		return keys[i].Pair < keys[j].Pair
	})
	return keys, nil
}

func (s *AlertStore) ListActiveByKey(ctx context.Context, key domain.QuoteKey) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var alerts []domain.Alert
	for _, alert := range s.alerts {
		if alert.Active() && alert.Market == key.Market && alert.Pair == key.Pair {
			alerts = append(alerts, alert)
		}
	}
	sortByID(alerts)
	return alerts, nil
}

func (s *AlertStore) TryClaim(ctx context.Context, alertID uint, triggeredAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alert, ok := s.alerts[alertID]
	if !ok || !alert.Active() {
		return false, nil
	}
	// The claim writes the trigger timestamp and nothing else, matching the
	// database repository's single-column update.
	alert.TriggeredAt = &triggeredAt
	s.alerts[alertID] = alert
	return true, nil
}

func sortByID(alerts []domain.Alert) {
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })
}
