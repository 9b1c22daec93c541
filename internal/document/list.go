package document

import (
	"github.com/google/uuid"
)

// Entry is an element of an ordered section list. The id is the only stable
// handle for update, delete and reorder.
type Entry interface {
	EntryID() string
}

// List is an ordered, order-significant collection of identified entries.
// Operations never mutate their input; they return a new slice.
type List[T Entry] []T

// Patch merges a partial change into an entry.
type Patch[T Entry] interface {
	Apply(T) T
}

// PatchFunc adapts a plain function to Patch.
type PatchFunc[T Entry] func(T) T

// Apply implements Patch.
func (f PatchFunc[T]) Apply(e T) T { return f(e) }

// NewID generates an entry id with the given prefix, e.g. "exp-6f1c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Append creates an entry through newEntry with a fresh id and appends it at the tail.
func Append[T Entry](list List[T], prefix string, newEntry func(id string) T) (List[T], T) {
	entry := newEntry(NewID(prefix))
	for list.IndexOf(entry.EntryID()) >= 0 {
		entry = newEntry(NewID(prefix))
	}
	out := make(List[T], 0, len(list)+1)
	out = append(out, list...)
	out = append(out, entry)
	return out, entry
}

// IndexOf returns the position of the entry with id, or -1.
func (l List[T]) IndexOf(id string) int {
	for i, e := range l {
		if e.EntryID() == id {
			return i
		}
	}
	return -1
}

// Get returns the entry with id.
func (l List[T]) Get(id string) (T, bool) {
	if i := l.IndexOf(id); i >= 0 {
		return l[i], true
	}
	var zero T
	return zero, false
}

// IDs returns the entry ids in order.
func (l List[T]) IDs() []string {
	ids := make([]string, len(l))
	for i, e := range l {
		ids[i] = e.EntryID()
	}
	return ids
}

// UpdateAt replaces the entry matching id with patch applied to it. An unknown id
// returns *EntryNotFoundError and the input list.
func UpdateAt[T Entry](list List[T], id string, patch Patch[T]) (List[T], error) {
	i := list.IndexOf(id)
	if i < 0 {
		return list, &EntryNotFoundError{ID: id}
	}
	out := append(List[T]{}, list...)
	updated := patch.Apply(out[i])
	if updated.EntryID() != id {
		return list, &ImmutableIDError{ID: id}
	}
	out[i] = updated
	return out, nil
}

// RemoveByID filters out the entry with id. Removing an absent id returns an
// equal list.
func RemoveByID[T Entry](list List[T], id string) List[T] {
	out := make(List[T], 0, len(list))
	for _, e := range list {
		if e.EntryID() != id {
			out = append(out, e)
		}
	}
	return out
}

// Reorder moves the entry fromID to the position currently held by toID,
// shifting the entries in between by one.
func Reorder[T Entry](list List[T], fromID, toID string) (List[T], error) {
	from := list.IndexOf(fromID)
	if from < 0 {
		return list, &EntryNotFoundError{ID: fromID}
	}
	to := list.IndexOf(toID)
	if to < 0 {
		return list, &EntryNotFoundError{ID: toID}
	}
	out := append(List[T]{}, list...)
	if from == to {
		return out, nil
	}
	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}
