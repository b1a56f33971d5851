package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNoSuchObject = errors.New("no such object")
	ErrObjectNil    = errors.New("object is nil")
)

// Object is a typed item living in a Workspace.
type Object interface {
	// ClassName is the Praat type name, e.g. "TextGrid".
	ClassName() string
}

// Handle is a weak reference to a workspace object. It stays valid as a value
// after the object is removed, but no longer resolves.
type Handle struct {
	ID    int
	Class string
	Name  string
}

// Key is the human-readable "<Type> <name>" address of the object.
func (h Handle) Key() string {
	return h.Class + " " + h.Name
}

func (h Handle) String() string {
	return fmt.Sprintf("%d. %s", h.ID, h.Key())
}

type entry struct {
	handle Handle
	obj    Object
}

// Workspace is the live, ordered set of objects plus the current selection.
type Workspace struct {
	mu        sync.RWMutex
	lastID    int
	entries   []*entry
	selection []int
}

func newWorkspace() *Workspace {
	return &Workspace{}
}

// CleanName turns spaces into underscores, as Praat does for object names.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "untitled"
	}
	return strings.Join(strings.Fields(name), "_")
}

// Add appends obj under name and returns its handle. The selection is left
// unchanged; callers decide whether a new object becomes selected.
func (w *Workspace) Add(name string, obj Object) (Handle, error) {
	if obj == nil {
		return Handle{}, ErrObjectNil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastID++
	h := Handle{ID: w.lastID, Class: obj.ClassName(), Name: CleanName(name)}
	w.entries = append(w.entries, &entry{handle: h, obj: obj})
	return h, nil
}

func (w *Workspace) find(id int) (int, *entry) {
	for i, e := range w.entries {
		if e.handle.ID == id {
			return i, e
		}
	}
	return -1, nil
}

// Get returns the object and current handle for id.
func (w *Workspace) Get(id int) (Object, Handle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, e := w.find(id)
	if e == nil {
		return nil, Handle{}, false
	}
	return e.obj, e.handle, true
}

// Resolve returns the live object a handle refers to.
func (w *Workspace) Resolve(h Handle) (Object, bool) {
	obj, _, ok := w.Get(h.ID)
	return obj, ok
}

// Lookup finds the most recently added object with the "<Type> <name>" key.
func (w *Workspace) Lookup(key string) (Handle, bool) {
	key = strings.TrimSpace(key)
	w.mu.RLock()
	defer w.mu.RUnlock()
	for i := len(w.entries) - 1; i >= 0; i-- {
		if w.entries[i].handle.Key() == key {
			return w.entries[i].handle, true
		}
	}
	return Handle{}, false
}

func (w *Workspace) Rename(id int, name string) (Handle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, e := w.find(id)
	if e == nil {
		return Handle{}, fmt.Errorf("%w: %d", ErrNoSuchObject, id)
	}
	e.handle.Name = CleanName(name)
	return e.handle, nil
}

// Remove deletes the object and drops it from the selection.
func (w *Workspace) Remove(id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, e := w.find(id)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrNoSuchObject, id)
	}
	w.entries = slices.Delete(w.entries, i, i+1)
	w.selection = slices.DeleteFunc(w.selection, func(s int) bool { return s == id })
	return nil
}

// Select replaces the selection with ids, in the given order.
func (w *Workspace) Select(ids ...int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkIDs(ids); err != nil {
		return err
	}
	w.selection = w.selection[:0]
	for _, id := range ids {
		if !slices.Contains(w.selection, id) {
			w.selection = append(w.selection, id)
		}
	}
	return nil
}

// Plus adds ids to the end of the selection.
func (w *Workspace) Plus(ids ...int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkIDs(ids); err != nil {
		return err
	}
	for _, id := range ids {
		if !slices.Contains(w.selection, id) {
			w.selection = append(w.selection, id)
		}
	}
	return nil
}

// Minus removes ids from the selection.
func (w *Workspace) Minus(ids ...int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkIDs(ids); err != nil {
		return err
	}
	w.selection = slices.DeleteFunc(w.selection, func(s int) bool {
		return slices.Contains(ids, s)
	})
	return nil
}

func (w *Workspace) checkIDs(ids []int) error {
	for _, id := range ids {
		if _, e := w.find(id); e == nil {
			return fmt.Errorf("%w: %d", ErrNoSuchObject, id)
		}
	}
	return nil
}

// Selected returns the handles of the selected objects in selection order.
// The result is never nil.
func (w *Workspace) Selected() []Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Handle, 0, len(w.selection))
	for _, id := range w.selection {
		if _, e := w.find(id); e != nil {
			out = append(out, e.handle)
		}
	}
	return out
}

// Objects returns all handles in creation order.
func (w *Workspace) Objects() []Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Handle, 0, len(w.entries))
	for _, e := range w.entries {
		out = append(out, e.handle)
	}
	return out
}

func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

// Clear removes every object. Ids are not reused.
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = nil
	w.selection = nil
}
