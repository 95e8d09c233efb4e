package register

import (
	"sync"

	"github.com/accountserv/accountserv/pkg/domain"
)

// subscriberList fans a successful registration out to external listeners
// (statistics, compliance hooks). Callbacks run synchronously on the
// registering goroutine and must not block.
type subscriberList struct {
	mu  sync.RWMutex
	fns []func(*domain.Account)
}

func (l *subscriberList) add(fn func(*domain.Account)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

func (l *subscriberList) notify(acct *domain.Account) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, fn := range l.fns {
		fn(acct)
	}
}

// Subscribe registers fn to be called with every newly registered account,
// after the account is durably created and audited.
func (s *Service) Subscribe(fn func(*domain.Account)) {
	s.subscribers.add(fn)
}
