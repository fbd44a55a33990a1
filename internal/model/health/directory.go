package health

import "strings"

// Directory exposes facility lookup for HTTP handlers.
type Directory interface {
	List() []Facility
	ByKind(kind FacilityKind) []Facility
}

// MemoryDirectory implements Directory with an in-memory slice.
type MemoryDirectory struct {
	items []Facility
}

// NewMemoryDirectory returns a MemoryDirectory preloaded with the supplied facilities.
func NewMemoryDirectory(items []Facility) *MemoryDirectory {
	return &MemoryDirectory{items: append([]Facility(nil), items...)}
}

// List returns every facility.
func (d *MemoryDirectory) List() []Facility {
	return append([]Facility(nil), d.items...)
}

// ByKind returns the facilities of one kind. Unknown kinds yield an empty, non-nil slice.
func (d *MemoryDirectory) ByKind(kind FacilityKind) []Facility {
	out := []Facility{}
	want := FacilityKind(strings.ToLower(strings.TrimSpace(string(kind))))
	for _, item := range d.items {
		if item.Kind == want {
			out = append(out, item)
		}
	}
	return out
}
