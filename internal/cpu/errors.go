package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// exc is the common shape of the five exception classes in §7: each knows
// the PC of the faulting instruction and, where applicable, its opcode
// name. All are constructed through pkg/errors so a stack trace survives to
// whatever logs them.
type exc interface {
	error
	PC() uint32
	Opcode() string
}

type excBase struct {
	pc uint32
}

func (e excBase) PC() uint32 { return e.pc }

// IntegerOverflowError is raised by ADD/ADDI/SUB/DADDI on a two's-complement
// overflow. The destination register is left unmodified. DADD and DSUB are
// decoded but raise NotImplementedError instead (see tables.go).
type IntegerOverflowError struct {
	excBase
	Mnemonic string
}

func (e *IntegerOverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %s at pc=%#08x", e.Mnemonic, e.pc)
}

func (e *IntegerOverflowError) Opcode() string { return e.Mnemonic }

func newIntegerOverflow(pc uint32, mnemonic string) error {
	return errors.WithStack(&IntegerOverflowError{excBase{pc}, mnemonic})
}

// InstructionAddressError is raised by an unaligned memory access or an
// unaligned jump/branch target.
type InstructionAddressError struct {
	excBase
	Mnemonic string
	Address  uint32
}

func (e *InstructionAddressError) Error() string {
	return fmt.Sprintf("address error: %s target=%#08x at pc=%#08x", e.Mnemonic, e.Address, e.pc)
}

func (e *InstructionAddressError) Opcode() string { return e.Mnemonic }

func newInstructionAddressError(pc uint32, mnemonic string, addr uint32) error {
	return errors.WithStack(&InstructionAddressError{excBase{pc}, mnemonic, addr})
}

// ReservedInstructionError is raised for an encoding with no handler: an
// unassigned primary opcode or SPECIAL funct, or a COP0 sub-function other
// than MFC0/MTC0. The core tracks no operating mode, so 64-bit-only opcodes
// such as LD/SD never raise it for executing in 32-bit mode.
type ReservedInstructionError struct {
	excBase
	Mnemonic string
}

func (e *ReservedInstructionError) Error() string {
	return fmt.Sprintf("reserved instruction: %s at pc=%#08x", e.Mnemonic, e.pc)
}

func (e *ReservedInstructionError) Opcode() string { return e.Mnemonic }

func newReservedInstruction(pc uint32, mnemonic string) error {
	return errors.WithStack(&ReservedInstructionError{excBase{pc}, mnemonic})
}

// TrapException is raised when an architectural trap predicate
// (TGE/TGEU/TLT/TLTU/TEQ/TNE) is met.
type TrapException struct {
	excBase
	Mnemonic string
}

func (e *TrapException) Error() string {
	return fmt.Sprintf("trap: %s at pc=%#08x", e.Mnemonic, e.pc)
}

func (e *TrapException) Opcode() string { return e.Mnemonic }

func newTrapException(pc uint32, mnemonic string) error {
	return errors.WithStack(&TrapException{excBase{pc}, mnemonic})
}

// NotImplementedError is raised for an opcode that is decoded and
// recognized but whose semantics are out of scope (§1 Non-goals) — FPU,
// multiply/divide, CACHE, unaligned L/S, etc. It is fatal to the current
// run: failing loudly beats silently executing the wrong semantics. An
// address outside kseg0/kseg1 is reported by internal/mmu's own
// NotImplementedError, not this one.
type NotImplementedError struct {
	excBase
	Mnemonic string
	Instr    uint32
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("not implemented: %s (instr=%#08x) at pc=%#08x", e.Mnemonic, e.Instr, e.pc)
}

func (e *NotImplementedError) Opcode() string { return e.Mnemonic }

func newNotImplemented(pc uint32, mnemonic string, instr uint32) error {
	return errors.WithStack(&NotImplementedError{excBase{pc}, mnemonic, instr})
}

// wrapStage adds PC/opcode context to an error surfacing from the EX stage,
// the point at which §7 says propagation is caught and the EX/DC effect is
// suppressed.
func wrapStage(err error, pc uint32, mnemonic string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "pc=%#08x opcode=%s", pc, mnemonic)
}
