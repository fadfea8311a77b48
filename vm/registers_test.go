package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/umvm/vm"
)

var _ = Describe("Registers", func() {
	It("should start all registers at zero", func() {
		var rs vm.Registers
		for i := uint8(0); i < 8; i++ {
			Expect(rs.Read(i)).To(Equal(uint32(0)))
		}
	})

	It("should store and retrieve a written value", func() {
		var rs vm.Registers
		rs.Write(3, 0xDEADBEEF)
		Expect(rs.Read(3)).To(Equal(uint32(0xDEADBEEF)))
	})

	It("should keep registers independent", func() {
		var rs vm.Registers
		rs.Write(0, 1)
		rs.Write(1, 2)
		Expect(rs.Read(0)).To(Equal(uint32(1)))
		Expect(rs.Read(1)).To(Equal(uint32(2)))
	})
})
