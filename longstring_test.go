package slabdb_test

import (
	"github.com/bsm/slabdb"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// buildLongStringFixture assembles a small-blob long-string array: entries
// "a\0", "\0", "abc\0", a null (marked via the nulls array), and "ab\0",
// concatenated into one blob with an offsets array of exclusive end
// positions and a nulls array flagging the null entry.
func buildLongStringFixture() (f *fixtureBuilder, rootRef uint64) {
	f = newFixture().header(0, 0, 0)

	blob := []byte("a\x00" + "\x00" + "abc\x00" + "\x00\x00" + "ab\x00")
	blobRef := f.appendNode(composeFlags(false, false, false, 1, 0), uint32(len(blob)), blob)

	offsets := []uint64{2, 3, 7, 9, 12}
	offsetsRef := f.appendNode(composeFlags(false, false, false, 0, 6), uint32(len(offsets)),
		putBitsUint64(offsets))

	nulls := []uint64{0, 0, 0, 1, 0}
	nullsRef := f.appendNode(composeFlags(false, false, false, 0, 6), uint32(len(nulls)),
		putBitsUint64(nulls))

	rootRef = f.appendNode(composeFlags(false, true, false, 0, 6), 3,
		putBitsUint64([]uint64{offsetsRef, blobRef, nullsRef}))
	return f, rootRef
}

var _ = Describe("LongStringArray", func() {
	It("decodes the small-blob shape with a nulls child", func() {
		f, rootRef := buildLongStringFixture()
		f = f.header(rootRef, 0, 0)

		h, err := slabdb.Open(slabdb.NewMemoryByteSource(f.bytes()), nil)
		Expect(err).NotTo(HaveOccurred())
		root, err := h.Root()
		Expect(err).NotTo(HaveOccurred())

		arr, err := slabdb.NewLongStringArray(root)
		Expect(err).NotTo(HaveOccurred())
		Expect(arr.Len()).To(Equal(uint32(5)))

		want := []struct {
			s  string
			ok bool
		}{
			{"a", true},
			{"", true},
			{"abc", true},
			{"", false},
			{"ab", true},
		}
		for i, w := range want {
			v, ok, err := arr.GetString(uint32(i))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(Equal(w.ok), "index %d", i)
			if w.ok {
				Expect(v).To(Equal(w.s), "index %d", i)
			}
		}
	})

	It("accepts a 2-child array with no nulls child", func() {
		f := newFixture().header(0, 0, 0)
		blob := []byte("hi\x00")
		blobRef := f.appendNode(composeFlags(false, false, false, 1, 0), uint32(len(blob)), blob)
		offsetsRef := f.appendNode(composeFlags(false, false, false, 0, 6), 1, putBitsUint64([]uint64{3}))
		rootRef := f.appendNode(composeFlags(false, true, false, 0, 6), 2,
			putBitsUint64([]uint64{offsetsRef, blobRef}))
		f = f.header(rootRef, 0, 0)

		h, err := slabdb.Open(slabdb.NewMemoryByteSource(f.bytes()), nil)
		Expect(err).NotTo(HaveOccurred())
		root, err := h.Root()
		Expect(err).NotTo(HaveOccurred())

		arr, err := slabdb.NewLongStringArray(root)
		Expect(err).NotTo(HaveOccurred())

		v, ok, err := arr.GetString(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("hi"))
	})

	It("rejects offsets that run backwards", func() {
		f := newFixture().header(0, 0, 0)
		blob := []byte("xy")
		blobRef := f.appendNode(composeFlags(false, false, false, 1, 0), uint32(len(blob)), blob)
		offsetsRef := f.appendNode(composeFlags(false, false, false, 0, 6), 2, putBitsUint64([]uint64{2, 1}))
		rootRef := f.appendNode(composeFlags(false, true, false, 0, 6), 2,
			putBitsUint64([]uint64{offsetsRef, blobRef}))
		f = f.header(rootRef, 0, 0)

		h, err := slabdb.Open(slabdb.NewMemoryByteSource(f.bytes()), nil)
		Expect(err).NotTo(HaveOccurred())
		root, err := h.Root()
		Expect(err).NotTo(HaveOccurred())

		arr, err := slabdb.NewLongStringArray(root)
		Expect(err).NotTo(HaveOccurred())

		_, _, err = arr.Get(1)
		Expect(err).To(WithTransform(matchKind(slabdb.CorruptOffsets), BeTrue()))
	})

	It("rejects the big-blob (context_flag) shape as unsupported", func() {
		f := newFixture().header(0, 0, 0)
		rootRef := f.appendNode(composeFlags(false, true, true, 0, 6), 2,
			putBitsUint64([]uint64{0, 0}))
		f = f.header(rootRef, 0, 0)

		h, err := slabdb.Open(slabdb.NewMemoryByteSource(f.bytes()), nil)
		Expect(err).NotTo(HaveOccurred())
		root, err := h.Root()
		Expect(err).NotTo(HaveOccurred())

		_, err = slabdb.NewLongStringArray(root)
		Expect(err).To(WithTransform(matchKind(slabdb.UnsupportedNodeShape), BeTrue()))
	})

	It("rejects an unexpected ref-array arity", func() {
		f := newFixture().header(0, 0, 0)
		rootRef := f.appendNode(composeFlags(false, true, false, 0, 6), 1, putBitsUint64([]uint64{0}))
		f = f.header(rootRef, 0, 0)

		h, err := slabdb.Open(slabdb.NewMemoryByteSource(f.bytes()), nil)
		Expect(err).NotTo(HaveOccurred())
		root, err := h.Root()
		Expect(err).NotTo(HaveOccurred())

		_, err = slabdb.NewLongStringArray(root)
		Expect(err).To(WithTransform(matchKind(slabdb.UnsupportedNodeShape), BeTrue()))
	})
})
