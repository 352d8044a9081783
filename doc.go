/*
Package slabdb is a read-only decoder for the on-disk container format used
by a document-oriented embedded database (file format version 9.9,
unencrypted).

It opens a file, validates its header, locates the active top-level node,
and exposes a typed view of the tree of interlinked, variable-width nodes
stored in the file's slab region. Callers can walk node references, read
typed values out of a node's payload, and decode the two string-array
shapes the format defines. It does not implement the higher-level
table/column/row schema layered on top of the slab, nor any write path.

# Data Structure Documentation

# File

A file is an immutable, little-endian byte sequence made of three regions:
a 24-byte header, a slab of variable length, and an optional 16-byte
trailing region not consumed by this package.

	File layout:
	+----------------+------------------------------+------------------+
	| header (24B)   |  slab (variable)             | trailer (16B, optional) |
	+----------------+------------------------------+------------------+

	Header layout (24 bytes):
	+------------------+------------------+-----------------+-----------+
	| top_ref_0 (8B)   | top_ref_1 (8B)   | mnemonic "T-DB"  | version   |
	|                  |                  | (4B, offset 0x10)| (2B)      |
	+------------------+------------------+-----------------+-----------+
	| reserved (1B) | flags (1B) |
	+---------------+------------+

Bit 0 of the header's flags field selects which of the two top refs is
active; it points at the header of the root node.

# Node

A node is an 8-byte header followed by a payload, addressed in the slab by
a ref: a file-relative byte offset that is always a multiple of 8.

	Node layout:
	+--------------------+------------+-----------------------------+
	| checksum (4B)      | flags (1B) | size (3B, little-endian)    |
	+--------------------+------------+-----------------------------+
	| payload (variable, sized by width_scheme and size)            |
	+-----------------------------------------------------------------+

The flags byte packs, LSB to MSB: is_inner_bptree (1 bit), has_refs
(1 bit), context_flag (1 bit), width_scheme (2 bits), width_ndx (3 bits).
width = 1 << width_ndx. width_scheme selects how the payload byte count
relates to size and width:

	scheme 0: width is bits-per-element,  payload = ceil(width*size/8)
	scheme 1: width is bytes-per-element, payload = width*size
	scheme 2: a single opaque object,     payload = width

# Short-string array

A node with has_refs == 0 stores up to size fixed-length slots of width
bytes each. The last byte of a slot is either width (a null marker) or a
count k of trailing zero-padding bytes, with the string itself occupying
slot[0 : width-1-k].

# Long-string (small-blob) array

A node with has_refs == 1 and context_flag == 0 holds, in its ref-array
payload, two or three children: an offsets array (exclusive end offsets
into the blob), a blob node (the concatenated string bodies), and an
optional nulls array marking which logical entries are null.
*/
package slabdb
