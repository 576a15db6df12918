package payment

import (
	"sync"

	"github.com/bitfsorg/paybuild-go/utxo"
)

// Session holds the outputs an operator has picked by hand. It has a single
// writer at a time; builds read a snapshot and never see a half-applied edit.
type Session struct {
	mu       sync.RWMutex
	selected []utxo.UTXO
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Select appends outputs not already selected and returns how many were added.
func (s *Session) Select(utxos ...utxo.UTXO) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, u := range utxos {
		if utxo.Contains(s.selected, u.Ref()) {
			continue
		}
		s.selected = append(s.selected, u)
		added++
	}
	return added
}

// Deselect removes the output with the given reference.
func (s *Session) Deselect(ref string) bool {
	ref = utxo.NormalizeRef(ref)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.selected {
		if u.Ref() == ref {
			s.selected = append(s.selected[:i:i], s.selected[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops the whole selection.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns a snapshot of the selection in the order it was made.
func (s *Session) Selected() []utxo.UTXO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]utxo.UTXO, len(s.selected))
	copy(out, s.selected)
	return out
}
