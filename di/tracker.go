package di

import (
	"io"
	"sync"
)

// tracker records disposable values a container must close on teardown.
// A value is recorded once no matter how many times it is tracked.
type tracker struct {
	mu    sync.Mutex
	items []io.Closer
}

func newTracker() *tracker {
	return &tracker{items: make([]io.Closer, 0)}
}

// track records v if it implements io.Closer and is not already recorded.
func (t *tracker) track(v any) bool {
	closer, ok := v.(io.Closer)
	if !ok {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, existing := range t.items {
		if identical(existing, closer) {
			return false
		}
	}
	t.items = append(t.items, closer)
	return true
}

// drain returns the recorded values in tracking order and empties the tracker.
func (t *tracker) drain() []io.Closer {
	t.mu.Lock()
	defer t.mu.Unlock()

	items := t.items
	t.items = make([]io.Closer, 0)
	return items
}

func (t *tracker) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
