package memo

// node is one entry in the recency ring. Nodes are owned exclusively by the
// store; no caller ever holds one.
type node struct {
	prev, next *node
	key        any
	value      any
}

// lruStore is the bounded cache store: a key→node map for O(1) lookup and a
// circular doubly-linked ring for O(1) recency updates. The ring has a
// sentinel root that is never a live entry; root.prev is the most recently
// used node, root.next the least recently used.
//
// All methods carry the Locked suffix: the owning Cache's mutex must be
// held across every call.
type lruStore struct {
	maxSize int
	entries map[any]*node
	root    *node
}

func newLRUStore(maxSize int) *lruStore {
	s := &lruStore{
		maxSize: maxSize,
		entries: make(map[any]*node),
		root:    &node{},
	}
	s.root.prev = s.root
	s.root.next = s.root
	return s
}

// getLocked looks up key and, on a hit, marks its entry most recently used.
func (s *lruStore) getLocked(key any) (any, bool) {
	n, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	s.unlinkLocked(n)
	s.linkFrontLocked(n)
	return n.value, true
}

// insertOutcome reports which commit branch an insertLocked call took.
type insertOutcome int

const (
	insertedNew   insertOutcome = iota // capacity available, node allocated
	insertedReuse                      // at capacity, LRU node overwritten
	discardedRace                      // key committed concurrently, value dropped
)

// insertLocked commits a freshly computed value after a miss and returns the
// value now cached under key.
//
// If a concurrent caller committed the same key while the lock was released
// for the computation, the existing entry wins and value is discarded. At
// capacity the least recently used node is overwritten in place and relinked
// to the front, so a full cache inserts without allocating.
func (s *lruStore) insertLocked(key, value any) (any, insertOutcome) {
	if n, ok := s.entries[key]; ok {
		return n.value, discardedRace
	}

	if len(s.entries) >= s.maxSize {
		oldest := s.root.next
		delete(s.entries, oldest.key)
		oldest.key = key
		oldest.value = value
		s.unlinkLocked(oldest)
		s.linkFrontLocked(oldest)
		s.entries[key] = oldest
		return value, insertedReuse
	}

	n := &node{key: key, value: value}
	s.linkFrontLocked(n)
	s.entries[key] = n
	return value, insertedNew
}

// clearLocked drops every entry and resets the ring to an empty cycle.
func (s *lruStore) clearLocked() {
	s.entries = make(map[any]*node)
	s.root.prev = s.root
	s.root.next = s.root
}

func (s *lruStore) lenLocked() int {
	return len(s.entries)
}

func (s *lruStore) unlinkLocked(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}

// linkFrontLocked places n at the most-recently-used position, immediately
// before the sentinel root.
func (s *lruStore) linkFrontLocked(n *node) {
	last := s.root.prev
	last.next = n
	n.prev = last
	n.next = s.root
	s.root.prev = n
}
