package sync

// KeySet holds the course ids already written to a catalog. It lives for a single run.
type KeySet struct {
	ids map[string]struct{}
}

func NewKeySet(ids ...string) *KeySet {
	s := &KeySet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *KeySet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add records id and reports whether it was new.
func (s *KeySet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *KeySet) Len() int { return len(s.ids) }
