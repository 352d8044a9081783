package slabdb

import "encoding/binary"

// widthScheme identifies how a node header's width and size fields map
// onto a payload byte count.
type widthScheme uint8

const (
	schemeBits   widthScheme = 0 // width is bits-per-element
	schemeBytes  widthScheme = 1 // width is bytes-per-element
	schemeObject widthScheme = 2 // a single opaque object of width bytes
)

// NodeFlags is the decoded form of a node header's flags byte.
type NodeFlags struct {
	IsInnerBptree bool
	HasRefs       bool
	ContextFlag   bool
	scheme        widthScheme
	widthNdx      uint8
}

// nodeHeader is the decoded, owned form of an 8-byte node header plus the
// payload slice it describes.
type nodeHeader struct {
	ref     uint64
	flags   NodeFlags
	size    uint32
	width   uint8
	payload []byte
}

// decodeNodeHeader parses the 8-byte node header at ref: it requires ref
// to be 8-aligned and in bounds, validates the checksum and flags byte,
// computes the payload length from the width scheme, and returns an
// owned descriptor holding the payload slice.
func decodeNodeHeader(src ByteSource, ref uint64) (*nodeHeader, error) {
	if ref%8 != 0 {
		return nil, newErr(Misaligned, ref, 0)
	}
	if int64(ref)+nodeHeaderSize > src.Len() {
		return nil, newErr(OutOfBounds, ref, 0)
	}

	hdr, err := src.Slice(int64(ref), nodeHeaderSize)
	if err != nil {
		return nil, err
	}

	checksum := binary.LittleEndian.Uint32(hdr[0:4])
	if checksum != checksumConst {
		return nil, newErr(ChecksumMismatch, ref, 0)
	}

	flagsByte := hdr[4]
	scheme := widthScheme((flagsByte >> 3) & 0x3)
	if scheme == 3 {
		return nil, newErr(MalformedHeader, ref, 4)
	}
	widthNdx := (flagsByte >> 5) & 0x7

	flags := NodeFlags{
		IsInnerBptree: flagsByte&0x1 != 0,
		HasRefs:       flagsByte&0x2 != 0,
		ContextFlag:   flagsByte&0x4 != 0,
		scheme:        scheme,
		widthNdx:      widthNdx,
	}

	size := uint32(hdr[5]) | uint32(hdr[6])<<8 | uint32(hdr[7])<<16 // 24-bit little-endian
	width := uint8(1) << widthNdx

	if flags.IsInnerBptree && size < 2 {
		return nil, newErr(MalformedHeader, ref, 5)
	}

	payloadLen := payloadByteLen(scheme, width, size)

	payloadStart := int64(ref) + nodeHeaderSize
	if payloadStart+payloadLen > src.Len() {
		return nil, newErr(OutOfBounds, ref, nodeHeaderSize)
	}

	payload, err := src.Slice(payloadStart, payloadLen)
	if err != nil {
		return nil, err
	}

	return &nodeHeader{
		ref:     ref,
		flags:   flags,
		size:    size,
		width:   width,
		payload: payload,
	}, nil
}

// payloadByteLen maps a node's width scheme, width and size onto its
// payload byte count. scheme is always one of schemeBits/schemeBytes/
// schemeObject here: the reserved value 3 is rejected by the caller
// before this is reached.
func payloadByteLen(scheme widthScheme, width uint8, size uint32) int64 {
	switch scheme {
	case schemeBytes:
		return int64(width) * int64(size)
	case schemeObject:
		return int64(width)
	default: // schemeBits
		bits := int64(width) * int64(size)
		return (bits + 7) / 8
	}
}
