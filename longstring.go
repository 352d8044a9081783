package slabdb

import "unicode/utf8"

// LongStringArray decodes the small-blob long-string shape: a node whose
// ref-array payload names an offsets array, a blob node, and an optional
// nulls array.
type LongStringArray struct {
	offsets NodeView
	blob    NodeView
	nulls   *NodeView // nil when the optional nulls child is absent
}

// NewLongStringArray builds a LongStringArray from a NodeView. n must
// have HasRefs() == true and ContextFlag() == false (the small-blob
// shape); the big-blob shape (ContextFlag() == true) is recognized and
// rejected as UnsupportedNodeShape rather than misread.
func NewLongStringArray(n NodeView) (*LongStringArray, error) {
	if !n.HasRefs() {
		return nil, newErr(UnsupportedNodeShape, n.Ref(), 0)
	}
	if n.ContextFlag() {
		return nil, newErr(UnsupportedNodeShape, n.Ref(), 0)
	}

	switch n.Size() {
	case 2, 3:
	default:
		return nil, newErr(UnsupportedNodeShape, n.Ref(), 0)
	}

	offsets, err := n.ChildNode(0)
	if err != nil {
		return nil, err
	}
	blob, err := n.ChildNode(1)
	if err != nil {
		return nil, err
	}

	la := &LongStringArray{offsets: offsets, blob: blob}
	if n.Size() == 3 {
		nullsRef, err := n.GetRef(2)
		if err != nil {
			return nil, err
		}
		if nullsRef != 0 {
			nulls, err := n.ChildNode(2)
			if err != nil {
				return nil, err
			}
			la.nulls = &nulls
		}
	}
	return la, nil
}

// Len returns the number of logical entries in the array.
func (a *LongStringArray) Len() uint32 { return a.offsets.Size() }

// Get returns the i-th entry's raw bytes, sliced out of the blob node's
// payload. ok is false when the entry is null. The returned slice
// aliases the blob node's payload and must be copied if used beyond the
// next call.
func (a *LongStringArray) Get(i uint32) (value []byte, ok bool, err error) {
	if i >= a.offsets.Size() {
		return nil, false, newErr(OutOfBounds, a.offsets.Ref(), int64(i))
	}

	if a.nulls != nil {
		n, err := a.nulls.Get(i)
		if err != nil {
			return nil, false, err
		}
		if n == 1 {
			return nil, false, nil
		}
	}

	end, err := a.offsets.Get(i)
	if err != nil {
		return nil, false, err
	}
	var begin uint64
	if i > 0 {
		begin, err = a.offsets.Get(i - 1)
		if err != nil {
			return nil, false, err
		}
	}

	blobLen := uint64(len(a.blob.hdr.payload))
	if begin > end || end > blobLen {
		return nil, false, newErr(CorruptOffsets, a.offsets.Ref(), int64(i))
	}

	return a.blob.hdr.payload[begin:end], true, nil
}

// GetString is Get, additionally stripping a single trailing C-string
// terminator byte and validating the remainder as UTF-8.
func (a *LongStringArray) GetString(i uint32) (value string, ok bool, err error) {
	b, ok, err := a.Get(i)
	if err != nil || !ok {
		return "", ok, err
	}
	if len(b) == 0 || b[len(b)-1] != 0 {
		return "", false, newErr(CorruptOffsets, a.offsets.Ref(), int64(i))
	}
	b = b[:len(b)-1]
	if !utf8.Valid(b) {
		return "", false, newErr(InvalidUtf8, a.offsets.Ref(), int64(i))
	}
	return string(b), true, nil
}
