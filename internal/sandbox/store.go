package sandbox

import (
	"sync"

	"github.com/dumensel/payment-console/internal/domain/payment"
)

// Store keeps sandbox payments in memory, indexed by id and by conversation
// id. The conversation index is what makes idempotent replays possible.
type Store struct {
	mu             sync.RWMutex
	byID           map[string]*payment.PaymentResponse
	byConversation map[string]*payment.PaymentResponse
}

func NewStore() *Store {
	return &Store{
		byID:           make(map[string]*payment.PaymentResponse),
		byConversation: make(map[string]*payment.PaymentResponse),
	}
}

func (s *Store) Save(p *payment.PaymentResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[p.ID] = p
	s.byConversation[p.ConversationID] = p
}

func (s *Store) GetByID(id string) (*payment.PaymentResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	return p, ok
}

func (s *Store) GetByConversationID(conversationID string) (*payment.PaymentResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byConversation[conversationID]
	return p, ok
}
