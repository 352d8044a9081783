package slabdb

// NodeView is a read-only handle onto a single decoded node: its header
// fields and its payload, plus enough context (a ByteSource) to resolve
// child refs on demand. It borrows from the ByteSource and owns no slab
// memory of its own.
//
// A NodeView carries no parent pointer: every child is materialized
// fresh from the ByteSource and a ref, never threaded through a mutable
// back-link.
type NodeView struct {
	src ByteSource
	hdr *nodeHeader
}

func newNodeView(src ByteSource, hdr *nodeHeader) NodeView {
	return NodeView{src: src, hdr: hdr}
}

// Ref returns the file-relative offset this node was decoded from.
func (n NodeView) Ref() uint64 { return n.hdr.ref }

// Size returns the node's logical element count.
func (n NodeView) Size() uint32 { return n.hdr.size }

// Width returns the node's element width (in bits for scheme 0, bytes for
// scheme 1 and 2).
func (n NodeView) Width() uint8 { return n.hdr.width }

// Flags returns the node's decoded header flags.
func (n NodeView) Flags() NodeFlags { return n.hdr.flags }

// HasRefs reports whether this node's payload is an array of child refs
// rather than plain values.
func (n NodeView) HasRefs() bool { return n.hdr.flags.HasRefs }

// ContextFlag returns the node header's context_flag bit, which
// disambiguates the small-blob and big-blob long-string shapes.
func (n NodeView) ContextFlag() bool { return n.hdr.flags.ContextFlag }

// IsInnerBptree reports whether this node is an inner node of a B+-tree,
// per the node header's is_inner_bptree flag.
func (n NodeView) IsInnerBptree() bool { return n.hdr.flags.IsInnerBptree }

// Get returns the i-th logical element of the payload as a zero-extended
// u64. i must be less than Size(), else OutOfBounds. Width-128 nodes
// hold values that do not fit a u64 and must be read through Fixed16;
// Get on such a node is UnsupportedNodeShape.
func (n NodeView) Get(i uint32) (uint64, error) {
	if i >= n.hdr.size {
		return 0, newErr(OutOfBounds, n.hdr.ref, int64(i))
	}
	if n.hdr.width > 64 {
		return 0, newErr(UnsupportedNodeShape, n.hdr.ref, int64(i))
	}
	return getDirect(n.hdr.payload, n.hdr.width, i), nil
}

// Fixed16 returns the 16-byte slot at logical index i of a width-128
// node, which stores fixed-size blob values (UUIDs and the like) too
// wide for Get.
func (n NodeView) Fixed16(i uint32) ([]byte, error) {
	if n.hdr.width != 128 {
		return nil, newErr(UnsupportedNodeShape, n.hdr.ref, int64(i))
	}
	if i >= n.hdr.size {
		return nil, newErr(OutOfBounds, n.hdr.ref, int64(i))
	}
	start := int64(i) * 16
	if start+16 > int64(len(n.hdr.payload)) {
		return nil, newErr(OutOfBounds, n.hdr.ref, start)
	}
	return n.hdr.payload[start : start+16], nil
}

// GetRef returns Get(i) validated as a ref: either 0 (absent) or a
// positive multiple of 8 past the file header and within the byte
// source's bounds. Any other value is InvalidRef.
func (n NodeView) GetRef(i uint32) (uint64, error) {
	v, err := n.Get(i)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, nil
	}
	if v%8 != 0 || int64(v) < fileHeaderSize || int64(v) >= n.src.Len() {
		return 0, newErr(InvalidRef, n.hdr.ref, int64(i))
	}
	return v, nil
}

// TaggedRefAt decodes the i-th slot as either a child ref or an inlined
// tagged scalar. Unlike GetRef, a tagged value (bit 0 set) is not
// treated as an error: it is returned as RefOrValue{IsRef: false, ...}.
func (n NodeView) TaggedRefAt(i uint32) (RefOrValue, error) {
	v, err := n.Get(i)
	if err != nil {
		return RefOrValue{}, err
	}
	return decodeTagged(v), nil
}

// RawSlot returns the width-byte slice at logical index i, for nodes
// under width scheme 1 (bytes-per-element) or scheme 2 (single opaque
// object, where i must be 0).
func (n NodeView) RawSlot(i uint32) ([]byte, error) {
	if i >= n.hdr.size {
		return nil, newErr(OutOfBounds, n.hdr.ref, int64(i))
	}
	w := int64(n.hdr.width)
	start := int64(i) * w
	end := start + w
	if end > int64(len(n.hdr.payload)) {
		return nil, newErr(OutOfBounds, n.hdr.ref, start)
	}
	return n.hdr.payload[start:end], nil
}

// ChildNode resolves GetRef(i) and decodes a fresh NodeView at that ref.
// It is an error to call ChildNode on an absent (ref == 0) child;
// callers that must tolerate absence should call GetRef first.
func (n NodeView) ChildNode(i uint32) (NodeView, error) {
	ref, err := n.GetRef(i)
	if err != nil {
		return NodeView{}, err
	}
	if ref == 0 {
		return NodeView{}, newErr(InvalidRef, n.hdr.ref, int64(i))
	}
	return nodeAt(n.src, ref)
}

// nodeAt decodes the node header at ref and wraps it in a NodeView bound
// to src.
func nodeAt(src ByteSource, ref uint64) (NodeView, error) {
	hdr, err := decodeNodeHeader(src, ref)
	if err != nil {
		return NodeView{}, err
	}
	return newNodeView(src, hdr), nil
}
