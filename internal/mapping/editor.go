package mapping

// Editor is the in-memory working copy of a template's mapping entries,
// mutated interactively before the list is committed to the store.
//
// ReplaceAt and RemoveAt require an index within current bounds; an
// out-of-bounds index is a caller bug and panics like any slice access.
type Editor struct {
	entries []FieldMapping
}

// NewEditor creates an editor seeded with the given entries.
func NewEditor(entries []FieldMapping) *Editor {
	e := &Editor{entries: make([]FieldMapping, len(entries))}
	copy(e.entries, entries)
	return e
}

// Append adds an entry at the end of the list.
func (e *Editor) Append(entry FieldMapping) {
	e.entries = append(e.entries, entry)
}

// ReplaceAt overwrites the entry at index.
func (e *Editor) ReplaceAt(index int, entry FieldMapping) {
	e.entries[index] = entry
}

// RemoveAt deletes the entry at index, shifting later entries down.
func (e *Editor) RemoveAt(index int) {
	e.entries = append(e.entries[:index], e.entries[index+1:]...)
}

// Len reports the current number of entries.
func (e *Editor) Len() int {
	return len(e.entries)
}

// Entries returns a copy of the current list, ready for Store.Put.
func (e *Editor) Entries() []FieldMapping {
	out := make([]FieldMapping, len(e.entries))
	copy(out, e.entries)
	return out
}
