package markers

import "sync"

// Point is a pixel coordinate on the base image. Duplicates are permitted and
// points carry no identity beyond position.
type Point struct {
	X int
	Y int
}

// Session holds the uncommitted pending dots for one browser session. The
// pending set is stack-like: append, remove-last, clear. A mutex guards against
// overlapping htmx requests from the same browser.
type Session struct {
	mu   sync.Mutex
	dots []Point
}

func NewSession() *Session {
	return &Session{}
}

// AddDot appends a pending dot.
func (s *Session) AddDot(p Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dots = append(s.dots, p)
}

// UndoDot removes the most recently added dot. No-op when empty.
func (s *Session) UndoDot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.dots) > 0 {
		s.dots = s.dots[:len(s.dots)-1]
	}
}

// ClearDots empties the pending set.
func (s *Session) ClearDots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dots = s.dots[:0]
}

// Dots returns a copy of the pending set in insertion order.
func (s *Session) Dots() []Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	dots := make([]Point, len(s.dots))
	copy(dots, s.dots)
	return dots
}

// DotCount returns the number of pending dots.
func (s *Session) DotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dots)
}
