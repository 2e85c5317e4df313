package reconcile

import "sync"

// Observer receives every reconciled view, synchronously, in registration
// order. Implementations must not block; rendering collaborators hang off
// this interface.
type Observer interface {
	ViewUpdated(view View)
}

type observerList struct {
	mu        sync.Mutex
	observers []Observer
}

func (l *observerList) register(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, o)
}

func (l *observerList) unregister(o Observer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, existing := range l.observers {
		if existing == o {
			l.observers = append(l.observers[:i], l.observers[i+1:]...)
			return
		}
	}
}

func (l *observerList) notify(view View) {
	l.mu.Lock()
	snapshot := make([]Observer, len(l.observers))
	copy(snapshot, l.observers)
	l.mu.Unlock()

	for _, o := range snapshot {
		o.ViewUpdated(view.clone())
	}
}
