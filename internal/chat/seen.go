package chat

// seenSet is a bounded set of recently seen message ids. When the cap
// is reached the oldest id is evicted, keeping memory flat over
// long-lived sessions.
type seenSet struct {
	ids   map[string]struct{}
	order []string
	head  int
	limit int
}

func newSeenSet(limit int) *seenSet {
	return &seenSet{
		ids:   make(map[string]struct{}, limit),
		order: make([]string, 0, limit),
		limit: limit,
	}
}

// Add records id and reports whether it was already present.
func (s *seenSet) Add(id string) (dup bool) {
	if _, ok := s.ids[id]; ok {
		return true
	}
	if len(s.ids) >= s.limit {
		oldest := s.order[s.head]
		delete(s.ids, oldest)
		s.order[s.head] = id
		s.head = (s.head + 1) % s.limit
	} else {
		s.order = append(s.order, id)
	}
	s.ids[id] = struct{}{}
	return false
}

func (s *seenSet) Len() int { return len(s.ids) }
