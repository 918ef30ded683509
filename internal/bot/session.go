package bot

import "sync"

// State is where a user sits in the add-purchase conversation.
type State int

const (
	StateIdle State = iota
	StateAwaitingPurchase
)

// Sessions keys conversation state by LINE user ID. State lives in memory
// only; a restart puts every user back to StateIdle.
type Sessions struct {
	mu     sync.Mutex
	states map[string]State
}

func NewSessions() *Sessions {
	return &Sessions{states: make(map[string]State)}
}

func (s *Sessions) Get(userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

func (s *Sessions) Set(userID string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state == StateIdle {
		delete(s.states, userID)
		return
	}
	s.states[userID] = state
}
