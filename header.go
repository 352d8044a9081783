package slabdb

import (
	"bytes"
	"encoding/binary"
)

// fileHeaderSize is the total size, in bytes, of the file header: two
// 8-byte top refs, the 4-byte mnemonic, the 2-byte version, the reserved
// byte, and the flags byte.
const fileHeaderSize = 24

// OpenOptions configures Open. The zero value (or a nil *OpenOptions) is
// valid and selects default behavior.
type OpenOptions struct {
	// AllowReservedNonZero suppresses the rejection of a non-zero reserved
	// header byte, a soft violation some writers are known to leave
	// behind. Default: false, i.e. a non-zero reserved byte is an error.
	AllowReservedNonZero bool
}

func (o *OpenOptions) norm() *OpenOptions {
	var oo OpenOptions
	if o != nil {
		oo = *o
	}
	return &oo
}

// Handle is the result of a successful Open: it carries the byte source
// and the file's active top ref. A Handle with Empty() true denotes a
// database whose top ref is 0 — a distinct success value, not an error.
type Handle struct {
	src     ByteSource
	topRef  uint64
	isEmpty bool
}

// Empty reports whether the database has no root node (its active top
// ref is 0).
func (h *Handle) Empty() bool { return h.isEmpty }

// Root returns the node view at the active top ref. It is an error to
// call Root on an empty Handle.
func (h *Handle) Root() (NodeView, error) {
	if h.isEmpty {
		return NodeView{}, newErr(InvalidRef, 0, 0)
	}
	return nodeAt(h.src, h.topRef)
}

// NodeAt returns the node view at an arbitrary file-relative ref,
// primarily for callers implementing higher-level schemas.
func (h *Handle) NodeAt(ref uint64) (NodeView, error) {
	return nodeAt(h.src, ref)
}

// Open reads and validates the file header from src and returns a Handle
// carrying the active top ref. A top ref of 0 is returned as a Handle
// with Empty() == true, not an error.
//
// The header layout is top_ref_0[8] top_ref_1[8] mnemonic[4] version[2]
// reserved[1] flags[1], 24 bytes total; bit 0 of flags selects which of
// the two top refs is active.
func Open(src ByteSource, opts *OpenOptions) (*Handle, error) {
	opts = opts.norm()

	if src.Len() < fileHeaderSize {
		return nil, newErr(OutOfBounds, 0, 0)
	}
	hdr, err := src.Slice(0, fileHeaderSize)
	if err != nil {
		return nil, err
	}

	topRef0 := binary.LittleEndian.Uint64(hdr[0:8])
	topRef1 := binary.LittleEndian.Uint64(hdr[8:16])

	if !bytes.Equal(hdr[16:20], mnemonic[:]) {
		return nil, newErr(BadMagic, 0, 16)
	}

	major, minor := hdr[20], hdr[21]
	if major != supportedMajor || minor != supportedMinor {
		return nil, newErr(UnsupportedVersion, 0, 20)
	}

	reserved := hdr[22]
	if reserved != 0 && !opts.AllowReservedNonZero {
		return nil, newErr(MalformedHeader, 0, 22)
	}

	flags := hdr[23]
	if flags&^uint8(0x1) != 0 {
		return nil, newErr(MalformedHeader, 0, 23)
	}

	active := topRef0
	if flags&0x1 == 1 {
		active = topRef1
	}

	if active == 0 {
		return &Handle{src: src, isEmpty: true}, nil
	}
	if active%8 != 0 {
		return nil, newErr(Misaligned, active, 0)
	}
	if int64(active) >= src.Len() {
		return nil, newErr(OutOfBounds, active, 0)
	}

	return &Handle{src: src, topRef: active}, nil
}
