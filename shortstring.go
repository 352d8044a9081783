package slabdb

import "unicode/utf8"

// ShortStringArray decodes a node whose payload stores up to Size()
// fixed-length slots of Width() bytes, each either a null marker or a
// C-like string with a trailing zero-padding count.
type ShortStringArray struct {
	node NodeView
}

// NewShortStringArray builds a ShortStringArray from a NodeView. n must
// have HasRefs() == false.
func NewShortStringArray(n NodeView) (*ShortStringArray, error) {
	if n.HasRefs() {
		return nil, newErr(UnsupportedNodeShape, n.Ref(), 0)
	}
	return &ShortStringArray{node: n}, nil
}

// Len returns the number of slots in the array.
func (a *ShortStringArray) Len() uint32 { return a.node.Size() }

// Get returns the raw bytes of the i-th slot. ok is false when the slot
// is null (or Width() == 0, in which case every element is null); UTF-8
// is not validated here. The returned slice aliases the node's payload
// and must be copied if used beyond the next call.
func (a *ShortStringArray) Get(i uint32) (value []byte, ok bool, err error) {
	if i >= a.node.Size() {
		return nil, false, newErr(OutOfBounds, a.node.Ref(), int64(i))
	}
	width := a.node.Width()
	if width == 0 {
		return nil, false, nil
	}

	slot, err := a.node.RawSlot(i)
	if err != nil {
		return nil, false, err
	}

	k := slot[width-1]
	if k == width {
		return nil, false, nil
	}
	if k > width {
		return nil, false, newErr(MalformedShortString, a.node.Ref(), int64(i)*int64(width))
	}

	return slot[:int(width)-1-int(k)], true, nil
}

// GetString is Get, additionally validating that the slot's bytes are
// valid UTF-8.
func (a *ShortStringArray) GetString(i uint32) (value string, ok bool, err error) {
	b, ok, err := a.Get(i)
	if err != nil || !ok {
		return "", ok, err
	}
	if !utf8.Valid(b) {
		return "", false, newErr(InvalidUtf8, a.node.Ref(), int64(i))
	}
	return string(b), true, nil
}
