package table

import (
	"sync"

	"github.com/nurpe/contracts-panel/internal/model"
)

const (
	LoadingText = "Carregando..."
	errorPrefix = "Ocorreu um erro: "
)

// StatusStore holds the fetch status shown by the shell around the table.
// It is the only piece of view state that may be read from another
// goroutine, so it is guarded.
type StatusStore struct {
	mu     sync.RWMutex
	status model.Status
}

func NewStatusStore() *StatusStore {
	return &StatusStore{status: model.Status{State: model.LoadStateIdle}}
}

// Start marks a fetch as in flight and clears any previous error.
func (s *StatusStore) Start() {
	s.set(model.Status{State: model.LoadStateLoading})
}

func (s *StatusStore) Succeed() {
	s.set(model.Status{State: model.LoadStateIdle})
}

func (s *StatusStore) Fail(message string) {
	s.set(model.Status{State: model.LoadStateError, Message: message})
}

func (s *StatusStore) Snapshot() model.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *StatusStore) set(st model.Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// ErrorText is the inline banner for a failed fetch.
func ErrorText(message string) string {
	return errorPrefix + message
}

// Banner returns the text shown above the table for st, "" when idle.
func Banner(st model.Status) string {
	switch st.State {
	case model.LoadStateLoading:
		return LoadingText
	case model.LoadStateError:
		return ErrorText(st.Message)
	default:
		return ""
	}
}
