package core

import (
	"fmt"

	"github.com/0xRadioAc7iv/go-depot/internal/record"
)

// Each bucket chains its records into a binary search tree ordered by
// secondary hash: a greater hash goes left, a smaller one goes right.

// node is a record header plus the absolute position of the link that points
// at it, which is either a bucket slot or a parent's child field.
type node struct {
	record.Header
	link int64
}

// readNode reads the header at offset and rejects one that points outside the
// records area or whose body runs past the end of the stream.
func (d *Depot) readNode(offset uint32, link int64) (node, error) {
	at := int64(offset)
	if at < d.header.RecordsStart() {
		return node{}, fmt.Errorf("%w: link at %d points into the header (%d)", ErrCorruption, link, at)
	}

	h, err := record.ReadHeader(d.s, at)
	if err != nil {
		return node{}, err
	}

	if h.Offset+record.KeyField+int64(h.KeySize)+int64(h.ValueSize) > d.end {
		return node{}, fmt.Errorf("%w: record at %d runs past end of stream", ErrCorruption, at)
	}

	return node{Header: h, link: link}, nil
}

// maxTreeSteps bounds any descent or walk so a cycle of child links is
// reported instead of looping forever.
func (d *Depot) maxTreeSteps() int64 {
	return (d.end-d.header.RecordsStart())/record.HeaderSizeBytes + 1
}

// lookup descends the tree rooted at root for hash. When the hash is absent
// it reports found == false; the returned node is then meaningless.
func (d *Depot) lookup(root uint32, rootLink int64, hash int32) (node, bool, error) {
	if root == 0 {
		return node{}, false, nil
	}

	limit := d.maxTreeSteps()

	n, err := d.readNode(root, rootLink)
	if err != nil {
		return node{}, false, err
	}

	for steps := int64(1); ; steps++ {
		if steps > limit {
			return node{}, false, fmt.Errorf("%w: cycle in bucket tree rooted at %d", ErrCorruption, root)
		}

		var next uint32
		var link int64
		switch {
		case hash > n.SecondHash && n.LeftChild != 0:
			next, link = n.LeftChild, n.Offset+record.LeftChildField
		case hash < n.SecondHash && n.RightChild != 0:
			next, link = n.RightChild, n.Offset+record.RightChildField
		default:
			return n, n.SecondHash == hash, nil
		}

		if n, err = d.readNode(next, link); err != nil {
			return node{}, false, err
		}
	}
}

// insert hangs the record at offset below the tree rooted at root. A node
// already carrying hash leaves the tree untouched.
func (d *Depot) insert(root uint32, hash int32, offset uint32) error {
	limit := d.maxTreeSteps()

	at, link := root, int64(0)
	for steps := int64(1); ; steps++ {
		if steps > limit {
			return fmt.Errorf("%w: cycle in bucket tree rooted at %d", ErrCorruption, root)
		}

		n, err := d.readNode(at, link)
		if err != nil {
			return err
		}

		if hash == n.SecondHash {
			return nil
		}

		child, field := n.RightChild, n.Offset+record.RightChildField
		if hash > n.SecondHash {
			child, field = n.LeftChild, n.Offset+record.LeftChildField
		}

		if child == 0 {
			return record.WriteLink(d.s, field, offset)
		}
		at, link = child, field
	}
}

// walk visits every record of the tree rooted at root in pre-order: a node,
// then its left subtree, then its right subtree.
func (d *Depot) walk(root uint32, rootLink int64, fn func(node) error) error {
	if root == 0 {
		return nil
	}

	limit := d.maxTreeSteps()

	type pending struct {
		offset uint32
		link   int64
	}

	stack := []pending{{root, rootLink}}
	var visited int64
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited++; visited > limit {
			return fmt.Errorf("%w: cycle in bucket tree rooted at %d", ErrCorruption, root)
		}

		n, err := d.readNode(top.offset, top.link)
		if err != nil {
			return err
		}
		if err := fn(n); err != nil {
			return err
		}

		// Right is pushed first so the left subtree is visited first.
		if n.RightChild != 0 {
			stack = append(stack, pending{n.RightChild, n.Offset + record.RightChildField})
		}
		if n.LeftChild != 0 {
			stack = append(stack, pending{n.LeftChild, n.Offset + record.LeftChildField})
		}
	}

	return nil
}
