package vocab

import (
	"bytes"
	"encoding/gob"
)

type ID uint32

const (
	// Null is the reserved identity of the empty-alignment token. It is
	// present in every vocabulary from construction and never appears in
	// literal sentence text.
	Null ID = 0

	// Nil is returned by Lookup for words the vocabulary has never seen.
	Nil ID = ^ID(0)
)

// NullToken is the printable form of the Null identity, used only on export.
const NullToken = "<NULL>"

// Vocab is the bijection between word strings and IDs for one language.
// Must be constructed with New; ID 0 is always the NULL token.
type Vocab struct {
	id2str []string
	str2id map[string]ID
}

func New() *Vocab {
	v := &Vocab{
		id2str: []string{NullToken},
		str2id: map[string]ID{NullToken: Null},
	}
	return v
}

// Size returns the number of identities assigned, NULL included.
func (v *Vocab) Size() int { return len(v.id2str) }

// Add looks up s, assigning the next free identity if s is new. Identities
// are stable for the lifetime of the vocabulary.
func (v *Vocab) Add(s string) ID {
	id, ok := v.str2id[s]
	if !ok {
		id = ID(len(v.id2str))
		v.id2str = append(v.id2str, s)
		v.str2id[s] = id
	}
	return id
}

// Lookup returns the identity of s, or Nil if s was never added.
func (v *Vocab) Lookup(s string) ID {
	id, ok := v.str2id[s]
	if !ok {
		return Nil
	}
	return id
}

// Word returns the string of a previously assigned identity.
func (v *Vocab) Word(id ID) string { return v.id2str[id] }

func (v *Vocab) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v.id2str); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Vocab) UnmarshalBinary(data []byte) error {
	var id2str []string
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&id2str); err != nil {
		return err
	}
	str2id := make(map[string]ID, len(id2str))
	for i, s := range id2str {
		str2id[s] = ID(i)
	}
	v.id2str = id2str
	v.str2id = str2id
	return nil
}
