package arena

// StringID is a stable small id assigned to an interned byte sequence,
// suitable as a hash key or a slice index in place of the string itself.
type StringID uint32

// Interner maps strings to stable small ids, deduplicating repeated
// identifier and file-path text the way types.Table deduplicates integral
// and array shapes: a lookup map guards a growable, insertion-ordered
// slice, so two equal strings always resolve to the same StringID and the
// original text is always recoverable by index.
type Interner struct {
	ids     map[string]StringID
	strings []string
}

// NewInterner creates an empty, ready-to-use Interner.
func NewInterner() *Interner {
	return &Interner{ids: make(map[string]StringID)}
}

// Intern returns s's StringID, assigning a new one on first sight.
func (in *Interner) Intern(s string) StringID {
	if id, ok := in.ids[s]; ok {
		return id
	}
	id := StringID(len(in.strings))
	in.strings = append(in.strings, s)
	in.ids[s] = id
	return id
}

// Lookup returns the string previously interned under id, and whether id is
// in range.
func (in *Interner) Lookup(id StringID) (string, bool) {
	if int(id) >= len(in.strings) {
		return "", false
	}
	return in.strings[id], true
}

// Len reports how many distinct strings have been interned.
func (in *Interner) Len() int {
	return len(in.strings)
}
