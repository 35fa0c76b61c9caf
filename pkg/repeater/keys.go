package repeater

// Key is an opaque stable identity for one rendered element of a repeated
// fieldset. Keys survive the removal of other elements; only the positional
// index (which feeds address computation) shifts.
type Key uint64

// KeySequence holds the ordered keys for one list, one per currently
// rendered element. Fresh keys come from a monotonically increasing counter
// so an identity is never reused within a form's lifetime.
type KeySequence struct {
	next Key
	keys []Key
}

// NewKeySequence seeds a sequence with one key per existing element.
func NewKeySequence(length int) *KeySequence {
	seq := &KeySequence{}
	seq.Reconcile(length)
	return seq
}

// Reconcile aligns the sequence with the external value array's length:
// fresh keys are appended on growth, trailing keys dropped on shrinkage.
// Reconciliation is by length only, never by value identity.
func (s *KeySequence) Reconcile(length int) {
	if length < 0 {
		length = 0
	}
	for len(s.keys) < length {
		s.keys = append(s.keys, s.next)
		s.next++
	}
	if len(s.keys) > length {
		s.keys = s.keys[:length]
	}
}

// Append adds a fresh key and returns it.
func (s *KeySequence) Append() Key {
	key := s.next
	s.next++
	s.keys = append(s.keys, key)
	return key
}

// Remove drops the key at index. Out-of-range indices are ignored; surviving
// keys keep their identity and only shift position.
func (s *KeySequence) Remove(index int) {
	if index < 0 || index >= len(s.keys) {
		return
	}
	s.keys = append(s.keys[:index], s.keys[index+1:]...)
}

// Keys returns a copy of the current key order.
func (s *KeySequence) Keys() []Key {
	return append([]Key(nil), s.keys...)
}

// Len returns the number of live elements.
func (s *KeySequence) Len() int {
	return len(s.keys)
}
