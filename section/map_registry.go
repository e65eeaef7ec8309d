package section

import "github.com/octmgo/octm/errs"

// MapHandle addresses one UV or attribute map descriptor in a Registry. It is
// stable for the lifetime of the context (spec.md §9: "owned, indexable
// sequences addressed by a small handle; names map to handles through a
// compact lookup" — replacing the source's forward-linked-list registry with
// no back-pointers and no cycles).
type MapHandle int

// MapDescriptor is the per-map metadata that lives in the map registry: a
// unique name, an optional reference filename (UV maps only), the
// quantization precision, and the component count (2 for UV, 1..4 for
// attribute maps).
type MapDescriptor struct {
	Name       string
	Filename   string // UV maps only; empty for attribute maps
	Precision  float32
	Components int
}

// Registry is an owned, indexable sequence of map descriptors with O(1)
// name -> handle lookup. The zero value is an empty, ready-to-use registry.
type Registry struct {
	maps   []MapDescriptor
	byName map[string]MapHandle
}

// Add appends a new descriptor and returns its handle. Adding a name already
// present in the registry fails with errs.ErrInvalidArgument (spec.md §3:
// "UV-map and attribute-map names are unique within their list").
func (r *Registry) Add(d MapDescriptor) (MapHandle, error) {
	if r.byName == nil {
		r.byName = make(map[string]MapHandle)
	}
	if _, exists := r.byName[d.Name]; exists {
		return -1, errs.ErrInvalidArgument
	}

	h := MapHandle(len(r.maps))
	r.maps = append(r.maps, d)
	r.byName[d.Name] = h

	return h, nil
}

// Get returns the descriptor for h, or false if h is out of range.
func (r *Registry) Get(h MapHandle) (MapDescriptor, bool) {
	if h < 0 || int(h) >= len(r.maps) {
		return MapDescriptor{}, false
	}

	return r.maps[h], true
}

// Set overwrites the descriptor for h (used by SetPrecision-style mutators).
// The name is not re-validated for uniqueness since it is assumed unchanged;
// callers that need to rename a map should Add a new entry instead.
func (r *Registry) Set(h MapHandle, d MapDescriptor) bool {
	if h < 0 || int(h) >= len(r.maps) {
		return false
	}
	r.maps[h] = d

	return true
}

// ByName looks up a handle by name in O(1).
func (r *Registry) ByName(name string) (MapHandle, bool) {
	h, ok := r.byName[name]

	return h, ok
}

// Len returns the number of registered maps.
func (r *Registry) Len() int { return len(r.maps) }

// All returns the descriptors in registration order (the order they are
// written to and read from the wire).
func (r *Registry) All() []MapDescriptor { return r.maps }

// Reset clears the registry. Context.Load does not call it; it replaces its
// registries with fresh zero values instead.
func (r *Registry) Reset() {
	r.maps = nil
	r.byName = nil
}
