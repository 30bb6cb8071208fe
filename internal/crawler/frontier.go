package crawler

// frontier is the FIFO queue of URLs waiting to be visited.
// It belongs to a single crawl run and is not safe for concurrent use.
type frontier struct {
	items []string
	head  int
}

func newFrontier() *frontier {
	return &frontier{items: make([]string, 0, 64)}
}

// push appends u to the back of the queue.
func (f *frontier) push(u string) {
	f.items = append(f.items, u)
}

// pop removes and returns the URL at the front of the queue.
func (f *frontier) pop() (string, bool) {
	if f.head >= len(f.items) {
		return "", false
	}
	u := f.items[f.head]
	f.items[f.head] = ""
	f.head++

	// Reclaim the consumed prefix once it dominates the slice.
	if f.head >= 1024 && f.head*2 >= len(f.items) {
		n := copy(f.items, f.items[f.head:])
		f.items = f.items[:n]
		f.head = 0
	}
	return u, true
}

// len returns the number of pending URLs.
func (f *frontier) len() int {
	return len(f.items) - f.head
}

// urlSet is a set of normalized URLs. It only grows.
type urlSet map[string]struct{}

// add inserts u and reports whether it was new.
func (s urlSet) add(u string) bool {
	if _, ok := s[u]; ok {
		return false
	}
	s[u] = struct{}{}
	return true
}

// has reports whether u is in the set.
func (s urlSet) has(u string) bool {
	_, ok := s[u]
	return ok
}
