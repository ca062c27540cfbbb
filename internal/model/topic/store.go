package topic

// Store exposes topic lookup for handlers and the prompt builder.
type Store interface {
	List() []Topic
	FindByID(id string) (Topic, bool)
	FindOrDefault(id string) Topic
}

// MemoryStore implements Store with an in-memory slice, loaded once at
// startup. Catalog order is preserved.
type MemoryStore struct {
	items []Topic
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied topics.
func NewMemoryStore(items []Topic) *MemoryStore {
	return &MemoryStore{items: append([]Topic(nil), items...)}
}

// List returns the catalog in its declared order.
func (s *MemoryStore) List() []Topic {
	return append([]Topic(nil), s.items...)
}

// FindByID looks up a topic by identifier.
func (s *MemoryStore) FindByID(id string) (Topic, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Topic{}, false
}

// FindOrDefault resolves id, falling back to the default topic for unknown
// or empty ids. The default is guaranteed to exist in the seed catalog; if
// a custom catalog omits it, the first entry serves instead.
func (s *MemoryStore) FindOrDefault(id string) Topic {
	if t, ok := s.FindByID(id); ok {
		return t
	}
	if t, ok := s.FindByID(DefaultID); ok {
		return t
	}
	return s.items[0]
}
