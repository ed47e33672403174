// Package mmu implements the VR4300 virtual-to-physical address
// translator used by the pipeline driver's IC fetch and DC/EX memory
// stages.
package mmu

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	kseg0Start = 0x80000000
	kseg1Start = 0xA0000000
	ksegBound  = 0xC0000000
)

// NotImplementedError is returned for any virtual address outside
// kseg0/kseg1 — kuseg and the TLB-mapped segments require a TLB model this
// core does not implement.
type NotImplementedError struct {
	VAddr uint32
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("address translation not implemented for vaddr=%#08x (kuseg/TLB)", e.VAddr)
}

// Translator maps kseg0/kseg1 virtual addresses onto physical ones.
type Translator struct{}

// New constructs a Translator. It carries no state — kseg0/kseg1 mapping is
// a pure function of the address.
func New() *Translator {
	return &Translator{}
}

// Translate implements cpu.Translator. Both kseg0 and kseg1 collapse to the
// same fast-path formula, and both are reported uncached — an acceptable
// simplification the reference core this was built from also makes,
// rather than a Translator-level TLB walk.
func (t *Translator) Translate(vaddr uint32) (uint32, bool, error) {
	if vaddr < kseg0Start || vaddr >= ksegBound {
		return 0, false, errors.WithStack(&NotImplementedError{VAddr: vaddr})
	}
	paddr := vaddr - kseg0Start - ((vaddr>>29)&1)*0x20000000
	return paddr, false, nil
}
