// Package snapshot copies the contents of a depot to and from a CBOR
// document, so a database can be moved between files with a different
// bucket count or alignment.
package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/0xRadioAc7iv/go-depot/core"
)

// Entry is one key/value pair. The document is a CBOR array of entries.
type Entry struct {
	Key   []byte `cbor:"k"`
	Value []byte `cbor:"v"`
}

// Export writes every reachable record of d to w, sorted by key so the same
// contents always encode to the same bytes. It returns the number of
// entries written.
func Export(d *core.Depot, w io.Writer) (int, error) {
	var entries []Entry
	err := d.ForEach(func(key, value []byte) error {
		entries = append(entries, Entry{Key: key, Value: value})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("snapshot: reading depot: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Key, entries[j].Key) < 0
	})

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}

	data, err := em.Marshal(entries)
	if err != nil {
		return 0, fmt.Errorf("snapshot: encoding: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Import reads a document written by Export and puts every entry into d.
// Entries already present in d are overwritten.
func Import(d *core.Depot, r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	var entries []Entry
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return 0, fmt.Errorf("snapshot: decoding: %w", err)
	}

	for i, e := range entries {
		if err := d.Put(core.BytesKey(e.Key), e.Value); err != nil {
			return i, fmt.Errorf("snapshot: entry %d: %w", i, err)
		}
	}
	return len(entries), nil
}
