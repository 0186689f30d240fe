package mib

import (
	"fmt"
	"strconv"
	"sync"
)

// Registry is a schema registry indexed by class number, built once at
// process start and then immutable: after Freeze() is called, Register
// may no longer be called, and lookups need no locking (per the design
// note on global module-level side effects becoming explicit
// initialization).
type Registry struct {
	mu       sync.Mutex
	frozen   bool
	byNumber map[int]*Class
	byName   map[string]*Class
}

// NewRegistry creates an empty, unfrozen Registry.
func NewRegistry() *Registry {
	return &Registry{
		byNumber: make(map[int]*Class),
		byName:   make(map[string]*Class),
	}
}

// Register adds a MIB class to the registry. It is a fatal error
// (panic) to register a duplicate class number/name, or to register
// after the registry has been frozen.
func (r *Registry) Register(c *Class) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		panic("mib: registry is frozen; cannot register " + c.String())
	}
	if _, exists := r.byNumber[c.Number]; exists {
		panic(fmt.Sprintf("mib: duplicate class number %d", c.Number))
	}
	if _, exists := r.byName[c.Name]; exists {
		panic(fmt.Sprintf("mib: duplicate class name %q", c.Name))
	}
	r.byNumber[c.Number] = c
	r.byName[c.Name] = c
}

// Freeze marks the registry immutable. mibdefs.NewRegistry calls it once,
// after registering every class.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// ByNumber looks up a class by number; O(1).
func (r *Registry) ByNumber(number int) (*Class, bool) {
	c, ok := r.byNumber[number]
	return c, ok
}

// ByName looks up a class by name; O(1) average.
func (r *Registry) ByName(name string) (*Class, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Lookup resolves key as either a class number (if it is a decimal-digit
// string) or a class name.
func (r *Registry) Lookup(key string) (*Class, bool) {
	if isNumeric(key) {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, false
		}
		return r.ByNumber(n)
	}
	return r.ByName(key)
}

// Names returns every class's string form, in ascending number order,
// for use in diagnostic log messages ("MIB %d not implemented; MIBs: %s").
func (r *Registry) Names() string {
	numbers := make([]int, 0, len(r.byNumber))
	for n := range r.byNumber {
		numbers = append(numbers, n)
	}
	sortInts(numbers)
	s := ""
	for i, n := range numbers {
		if i > 0 {
			s += ", "
		}
		s += r.byNumber[n].String()
	}
	return s
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
