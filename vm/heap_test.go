package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/umvm/vm"
)

var _ = Describe("Heap", func() {
	var h *vm.Heap

	BeforeEach(func() {
		h = vm.NewHeap()
	})

	It("keeps array 0 live after construction", func() {
		Expect(h.ProgramLen()).To(Equal(uint32(0)))
	})

	It("allocates a fresh array of the requested size, all zero", func() {
		id := h.Allocate(3)
		Expect(id).ToNot(Equal(uint32(0)))
		for offset := uint32(0); offset < 3; offset++ {
			v, err := h.Read(0, id, offset)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint32(0)))
		}
	})

	It("writes and reads back a value", func() {
		id := h.Allocate(2)
		Expect(h.Write(0, id, 1, 0xCAFE)).To(Succeed())
		v, err := h.Read(0, id, 1)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0xCAFE)))
	})

	It("rejects reads past the array's length", func() {
		id := h.Allocate(1)
		_, err := h.Read(0, id, 1)
		Expect(err).To(HaveOccurred())
		var f *vm.Fault
		Expect(err).To(BeAssignableToTypeOf(f))
	})

	It("rejects reads of a freed identifier", func() {
		id := h.Allocate(1)
		Expect(h.Abandon(0, id)).To(Succeed())
		_, err := h.Read(0, id, 0)
		Expect(err).To(HaveOccurred())
	})

	It("rejects abandoning identifier 0", func() {
		err := h.Abandon(0, 0)
		Expect(err).To(HaveOccurred())
	})

	It("rejects abandoning a non-live identifier", func() {
		err := h.Abandon(0, 999)
		Expect(err).To(HaveOccurred())
	})

	// S5 — Allocate reuses freed identifier.
	It("reissues an abandoned identifier on the next allocation (S5)", func() {
		x := h.Allocate(0)
		Expect(h.Abandon(0, x)).To(Succeed())
		y := h.Allocate(3)

		Expect(y).To(Equal(x))
		for offset := uint32(0); offset < 3; offset++ {
			v, err := h.Read(0, y, offset)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint32(0)))
		}
	})

	It("does not grow the arena across churn", func() {
		var ids []uint32
		for i := 0; i < 100; i++ {
			id := h.Allocate(1)
			ids = append(ids, id)
		}
		for _, id := range ids {
			Expect(h.Abandon(0, id)).To(Succeed())
		}
		for i := 0; i < 100; i++ {
			h.Allocate(1)
		}
		// A second full churn must not have grown beyond the first
		// churn's peak: reallocating 100 after freeing 100 must all
		// come from the free list, not from fresh arena growth.
		next := h.Allocate(1)
		Expect(next).To(BeNumerically("<=", 101))
	})

	// S6 — load-program duplication leaves the source array untouched.
	It("duplicates an array independently of the source", func() {
		id := h.Allocate(1)
		Expect(h.Write(0, id, 0, 0x12345678)).To(Succeed())

		dup, err := h.Duplicate(0, id)
		Expect(err).ToNot(HaveOccurred())
		Expect(dup).To(Equal([]uint32{0x12345678}))

		dup[0] = 0
		v, err := h.Read(0, id, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(uint32(0x12345678)))
	})

	It("leaves identifiers pairwise distinct among live arrays", func() {
		seen := map[uint32]bool{0: true}
		for i := 0; i < 10; i++ {
			id := h.Allocate(1)
			Expect(seen[id]).To(BeFalse())
			seen[id] = true
		}
	})
})
