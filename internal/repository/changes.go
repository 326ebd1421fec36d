package repository

import "sync"

// Action classifies a structural change published on the change stream.
type Action int

const (
	ActionInsert Action = iota
	ActionUpdate
	ActionDelete
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one event on the process-wide record-changed stream. Entity is
// the affected top-level entity (*model.Category, *model.Entry,
// *model.Photo, or *model.Location).
type Change struct {
	Action Action
	Entity any
}

// changeStream is a plain subscriber list with synchronous delivery on the
// publishing goroutine. Subscribers must not block.
type changeStream struct {
	mu      sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

func (s *changeStream) subscribe(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func(Change))
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *changeStream) publish(c Change) {
	s.mu.Lock()
	subs := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
}

// OnChange subscribes fn to the record-changed stream and returns an
// unsubscribe function.
func (r *Repository) OnChange(fn func(Change)) func() {
	return r.stream.subscribe(fn)
}

func (r *Repository) publish(a Action, entity any) {
	r.stream.publish(Change{Action: a, Entity: entity})
}
