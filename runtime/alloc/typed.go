package alloc

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"unsafe"

	"github.com/darragh-downey/goo/runtime/fault"
)

// typedMagic is the fixed constant stamped into every typed allocation's
// header, in the same spirit as MESSAGE_MAGIC in the message-queue
// example: a sentinel a freed (zeroed) or corrupted header can no longer
// match.
const typedMagic uint32 = 0x474f4f21 // "GOO!"

const typedHeaderSize = 16 // magic(4) + typeID(8) + size(4)

// TypeSignature identifies the type an allocation was made under (§4.G).
// TypeID mixes the name into the size so two same-sized-but-differently-
// named types never collide.
type TypeSignature struct {
	TypeID uint64
	Name   string
	Size   uint32
}

// NewTypeSignature computes TypeID for (name, size).
func NewTypeSignature(name string, size uint32) TypeSignature {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	id := h.Sum64() ^ (uint64(size) * 1099511628211) // mix in size with the FNV prime
	return TypeSignature{TypeID: id, Name: name, Size: size}
}

// Typed layers the typed-safety wrapper decorator (§4.G) over any
// Allocator. It accepts any underlying allocator, per §9's "the typed
// safety wrapper is a decorator" design note.
type Typed struct {
	inner Allocator
	fc    *fault.Context
}

// NewTyped wraps inner with the typed-safety header.
func NewTyped(inner Allocator, fc *fault.Context) *Typed {
	return &Typed{inner: inner, fc: fc}
}

// AllocTyped allocates room for sig.Size payload bytes behind a header
// carrying sig, and returns only the payload slice to the caller.
func (t *Typed) AllocTyped(sig TypeSignature, align uint32, flags Flags) ([]byte, error) {
	total, ok := checkedMul(1, typedHeaderSize+sig.Size)
	if !ok {
		return nil, fmt.Errorf("alloc: typed allocation size overflow for %q", sig.Name)
	}
	full, err := t.inner.Alloc(total, align, flags)
	if err != nil {
		return nil, err
	}
	writeTypedHeader(full, sig)
	return full[typedHeaderSize:], nil
}

// FreeTyped validates the header's magic, zeroes it (detecting a second
// free, §8 invariant 8), and releases the full allocation to the
// underlying allocator.
func (t *Typed) FreeTyped(payload []byte, align uint32) error {
	full, ok := fullFromPayload(payload)
	if !ok {
		return fmt.Errorf("alloc: free of an allocation too small to carry a header")
	}
	hdr := readTypedHeader(full)
	if hdr.magic == 0 {
		if t.fc != nil {
			t.fc.Fail(fault.ErrDoubleFree, "typed allocation %q already freed", hdr.name())
		}
		return fmt.Errorf("alloc: double free detected")
	}
	if hdr.magic != typedMagic {
		if t.fc != nil {
			t.fc.Fail(fault.ErrTypeMismatch, "corrupted or foreign typed allocation header")
		}
		return fmt.Errorf("alloc: corrupted or foreign typed allocation header")
	}
	zeroTypedHeader(full)
	t.inner.Free(full, uint32(len(full)), align)
	return nil
}

// CheckType reports whether payload currently carries a live header
// matching expected — the subsystem-boundary check described in §4.G for
// callers handed an untyped pointer.
func (t *Typed) CheckType(payload []byte, expected TypeSignature) bool {
	full, ok := fullFromPayload(payload)
	if !ok {
		return false
	}
	hdr := readTypedHeader(full)
	return hdr.magic == typedMagic && hdr.typeID == expected.TypeID && hdr.size == expected.Size
}

type typedHeader struct {
	magic  uint32
	typeID uint64
	size   uint32
}

func (h typedHeader) name() string {
	return fmt.Sprintf("type-id %x", h.typeID)
}

func writeTypedHeader(full []byte, sig TypeSignature) {
	binary.LittleEndian.PutUint32(full[0:4], typedMagic)
	binary.LittleEndian.PutUint64(full[4:12], sig.TypeID)
	binary.LittleEndian.PutUint32(full[12:16], sig.Size)
}

func readTypedHeader(full []byte) typedHeader {
	return typedHeader{
		magic:  binary.LittleEndian.Uint32(full[0:4]),
		typeID: binary.LittleEndian.Uint64(full[4:12]),
		size:   binary.LittleEndian.Uint32(full[12:16]),
	}
}

func zeroTypedHeader(full []byte) {
	for i := 0; i < typedHeaderSize; i++ {
		full[i] = 0
	}
}

// fullFromPayload recovers the header-prefixed allocation from the
// payload slice AllocTyped handed out. Both slices share the same
// backing array; stepping the data pointer back by the header size is
// the same trick the arena example's offset arithmetic performs over a
// shared buffer, done here with unsafe.Pointer instead of a byte-slice
// offset since Typed has no buffer of its own to index into.
func fullFromPayload(payload []byte) ([]byte, bool) {
	if len(payload) == 0 {
		return nil, false
	}
	base := unsafe.Add(unsafe.Pointer(&payload[0]), -typedHeaderSize)
	return unsafe.Slice((*byte)(base), typedHeaderSize+len(payload)), true
}
