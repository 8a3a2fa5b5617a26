package routes

import "sort"

// Key builds the store key of a route.
func Key(url, method string) string {
	return url + "|" + method
}

// Store holds at most one Route per key. Insert overwrites silently.
type Store interface {
	Insert(key string, r Route)
	Get(key string) (Route, bool)
	Remove(key string) (Route, bool)
	// All returns every route in no particular order.
	All() []Route
	Len() int
}

type MemoryStore struct {
	routes map[string]Route
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{routes: make(map[string]Route)}
}

func (s *MemoryStore) Insert(key string, r Route) {
	s.routes[key] = r
}

func (s *MemoryStore) Get(key string) (Route, bool) {
	r, ok := s.routes[key]
	return r, ok
}

func (s *MemoryStore) Remove(key string) (Route, bool) {
	r, ok := s.routes[key]
	if ok {
		delete(s.routes, key)
	}
	return r, ok
}

func (s *MemoryStore) All() []Route {
	result := make([]Route, 0, len(s.routes))
	for _, r := range s.routes {
		result = append(result, r)
	}
	return result
}

func (s *MemoryStore) Len() int {
	return len(s.routes)
}

// Sorted orders routes by URL, then by HTTP method, in place.
func Sorted(routes []Route) []Route {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].URL != routes[j].URL {
			return routes[i].URL < routes[j].URL
		}
		return routes[i].HTTPMethod < routes[j].HTTPMethod
	})
	return routes
}

// Unguarded returns the routes without any guard expression.
func Unguarded(routes []Route) []Route {
	var result []Route
	for _, r := range routes {
		if !r.Guarded() {
			result = append(result, r)
		}
	}
	return result
}
