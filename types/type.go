// Package types implements the symbol and type tables: an interning table
// of structural and nominal types, and a stack of lexical scopes mapping
// names to symbols.
package types

import (
	"fmt"
	"strings"
	"sync"
)

// Kind tags the variant a Type holds.
type Kind int

const (
	Invalid Kind = iota
	PrimitiveKind
	ArrayKind
	SliceKind
	PointerKind
	FunctionKind
	StructKind
	InterfaceKind
	EnumKind
	AliasKind
	ChannelKind
	ErrorKind
)

func (k Kind) String() string {
	switch k {
	case PrimitiveKind:
		return "primitive"
	case ArrayKind:
		return "array"
	case SliceKind:
		return "slice"
	case PointerKind:
		return "pointer"
	case FunctionKind:
		return "function"
	case StructKind:
		return "struct"
	case InterfaceKind:
		return "interface"
	case EnumKind:
		return "enum"
	case AliasKind:
		return "alias"
	case ChannelKind:
		return "channel"
	case ErrorKind:
		return "error"
	default:
		return "invalid"
	}
}

// Primitive enumerates the built-in scalar kinds.
type Primitive int

const (
	Bool Primitive = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	String
	Unit
	Any
)

var primitiveNames = map[Primitive]string{
	Bool: "bool", Int8: "i8", Int16: "i16", Int32: "i32", Int64: "i64",
	Uint8: "u8", Uint16: "u16", Uint32: "u32", Uint64: "u64",
	Float32: "f32", Float64: "f64", String: "string", Unit: "unit", Any: "any",
}

// ChannelPattern identifies a channel's messaging discipline.
type ChannelPattern int

const (
	Normal ChannelPattern = iota
	PubSub
	PushPull
	ReqRep
)

func (p ChannelPattern) String() string {
	switch p {
	case PubSub:
		return "pubsub"
	case PushPull:
		return "pushpull"
	case ReqRep:
		return "reqrep"
	default:
		return "normal"
	}
}

// Field is an ordered, named struct member.
type Field struct {
	Name   string
	Type   *Type
	Offset int
}

// Method is an ordered, named interface member. Only the function type
// (params/result) matters for structural satisfaction; the receiver is
// excluded from the comparison, per the structural-interface rule.
type Method struct {
	Name string
	Sig  *Type // always FunctionKind
}

// Variant is an ordered, named enum member with an optional payload type.
type Variant struct {
	Name    string
	Payload *Type // nil if the variant carries no payload
}

// Type is a tagged variant over every type category the language supports.
// Types are never constructed directly: they are produced and interned by
// a Table, so that equal(a, b) ⇔ a == b for any two *Type obtained from the
// same table (testable property #6).
type Type struct {
	kind Kind
	key  string // canonical interning key; also doubles as a display name

	prim Primitive

	elem   *Type // Array, Slice, Pointer, Channel
	length int   // Array only

	pattern ChannelPattern // Channel only

	params []*Type // Function
	result *Type   // Function

	name     string // Struct, Interface, Enum, Alias: declared name
	fields   []Field
	methods  []Method
	variants []Variant
	target   *Type // Alias
}

// Kind returns the tag identifying which variant this type is.
func (t *Type) Kind() Kind { return t.kind }

// Key returns the canonical interning key for this type. Two types
// produced by the same Table have equal Key() iff they are the same
// pointer.
func (t *Type) Key() string { return t.key }

// String renders the type for diagnostics.
func (t *Type) String() string { return t.key }

// Primitive returns the primitive sub-kind. Only meaningful if
// Kind() == PrimitiveKind.
func (t *Type) Primitive() Primitive { return t.prim }

// Elem returns the element/pointee type for Array, Slice, Pointer, and
// Channel types.
func (t *Type) Elem() *Type { return t.elem }

// Length returns the array length. Only meaningful if Kind() == ArrayKind.
func (t *Type) Length() int { return t.length }

// Pattern returns the channel's messaging discipline. Only meaningful if
// Kind() == ChannelKind.
func (t *Type) Pattern() ChannelPattern { return t.pattern }

// Params returns the function's parameter types, in declaration order.
func (t *Type) Params() []*Type { return t.params }

// Result returns the function's return type.
func (t *Type) Result() *Type { return t.result }

// Name returns the declared name for Struct, Interface, Enum, and Alias
// types.
func (t *Type) Name() string { return t.name }

// Fields returns the struct's ordered, named members.
func (t *Type) Fields() []Field { return t.fields }

// Methods returns the interface's ordered, named members.
func (t *Type) Methods() []Method { return t.methods }

// Variants returns the enum's ordered, named members.
func (t *Type) Variants() []Variant { return t.variants }

// Target returns the type an alias stands for.
func (t *Type) Target() *Type { return t.target }

// Table interns types so that structural equality reduces to pointer
// equality. Nominal types (struct, interface, enum, alias) are interned by
// declared name: redeclaring the same name within one table returns the
// original canonical pointer, matching a single compilation unit's
// single-declaration-per-name discipline (the checker rejects redeclaration
// before a second call to these constructors could occur). Structural types
// (array, slice, pointer, function, channel) are interned by the recursive
// shape of their key.
//
// A zero Table is not ready to use; construct one with NewTable, which
// installs the built-in primitive types.
type Table struct {
	mu       sync.RWMutex
	interned map[string]*Type

	builtins [Any + 1]*Type
	errType  *Type
}

// NewTable constructs a Table with every built-in primitive type installed.
func NewTable() *Table {
	t := &Table{interned: make(map[string]*Type, 64)}
	for p := Bool; p <= Any; p++ {
		t.builtins[p] = t.intern(&Type{kind: PrimitiveKind, prim: p, key: primitiveNames[p]})
	}
	t.errType = t.intern(&Type{kind: ErrorKind, key: "<error>"})
	return t
}

// Primitive returns the canonical Type for a built-in primitive kind.
func (t *Table) Primitive(p Primitive) *Type {
	return t.builtins[p]
}

// Error returns the sentinel error type used to suppress cascading
// diagnostics once one node in an expression has already failed to check.
// It compares unequal to every other type under Identical, but the
// checker's own assignability rule treats it as assignable to and from
// anything.
func (t *Table) Error() *Type {
	return t.errType
}

// IsError reports whether t is the sentinel error type.
func IsError(t *Type) bool {
	return t != nil && t.kind == ErrorKind
}

// Bool, Int64, String, Unit and friends are reachable via Primitive(Bool),
// etc.; there is no separate accessor per kind, since the enumeration is
// already exhaustive and small.

func (t *Table) intern(candidate *Type) *Type {
	t.mu.RLock()
	if existing, ok := t.interned[candidate.key]; ok {
		t.mu.RUnlock()
		return existing
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.interned[candidate.key]; ok {
		return existing
	}
	t.interned[candidate.key] = candidate
	return candidate
}

// Array interns an array type of the given element and length.
func (t *Table) Array(elem *Type, length int) *Type {
	key := fmt.Sprintf("[%d]%s", length, elem.key)
	return t.intern(&Type{kind: ArrayKind, elem: elem, length: length, key: key})
}

// Slice interns a slice type of the given element.
func (t *Table) Slice(elem *Type) *Type {
	return t.intern(&Type{kind: SliceKind, elem: elem, key: "[]" + elem.key})
}

// Pointer interns a pointer type to the given pointee.
func (t *Table) Pointer(pointee *Type) *Type {
	return t.intern(&Type{kind: PointerKind, elem: pointee, key: "*" + pointee.key})
}

// Channel interns a channel type of the given element and pattern.
func (t *Table) Channel(elem *Type, pattern ChannelPattern) *Type {
	key := fmt.Sprintf("chan(%s)<%s>", pattern, elem.key)
	return t.intern(&Type{kind: ChannelKind, elem: elem, pattern: pattern, key: key})
}

// Function interns a function type. Two function types with the same
// parameter types (in order) and result type are identical, regardless of
// where or how they were constructed — this is what makes structural
// interface satisfaction work: a method's signature is compared by this
// identity, with the receiver excluded.
func (t *Table) Function(params []*Type, result *Type) *Type {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.key
	}
	key := fmt.Sprintf("fn(%s)->%s", strings.Join(parts, ","), result.key)
	return t.intern(&Type{
		kind:   FunctionKind,
		params: append([]*Type(nil), params...),
		result: result,
		key:    key,
	})
}

// Struct interns a named struct type with the given ordered fields. Field
// offsets are assigned sequentially in declaration order; this models
// layout without committing to a specific alignment scheme, which is an
// allocator/codegen concern outside the type table's remit.
func (t *Table) Struct(name string, fields []Field) *Type {
	key := "struct " + name
	return t.intern(&Type{kind: StructKind, name: name, fields: append([]Field(nil), fields...), key: key})
}

// Interface interns a named interface type with the given ordered methods.
func (t *Table) Interface(name string, methods []Method) *Type {
	key := "interface " + name
	return t.intern(&Type{kind: InterfaceKind, name: name, methods: append([]Method(nil), methods...), key: key})
}

// Enum interns a named enum type with the given ordered variants.
func (t *Table) Enum(name string, variants []Variant) *Type {
	key := "enum " + name
	return t.intern(&Type{kind: EnumKind, name: name, variants: append([]Variant(nil), variants...), key: key})
}

// DeclareOpaque interns an empty named type of the given kind (one of
// StructKind, InterfaceKind, EnumKind) so that a forward or mutually
// recursive reference to name (typically behind a pointer field) has a
// stable handle before its body has been resolved. Complete fills the body
// in place once the declaring pass reaches it. Calling DeclareOpaque twice
// for the same name returns the same handle, matching the Table's usual
// first-wins interning rule.
func (t *Table) DeclareOpaque(kind Kind, name string) *Type {
	var key string
	switch kind {
	case StructKind:
		key = "struct " + name
	case InterfaceKind:
		key = "interface " + name
	case EnumKind:
		key = "enum " + name
	default:
		panic("types: DeclareOpaque called with a non-nominal kind")
	}
	return t.intern(&Type{kind: kind, name: name, key: key})
}

// Complete fills in the body of a type handle previously returned by
// DeclareOpaque or by Struct/Interface/Enum with an empty body. It must be
// called at most once per handle and only with a body matching the
// handle's Kind(); exactly one of fields, methods, variants is non-nil
// according to Kind().
func (t *Table) Complete(typ *Type, fields []Field, methods []Method, variants []Variant) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch typ.kind {
	case StructKind:
		typ.fields = append([]Field(nil), fields...)
	case InterfaceKind:
		typ.methods = append([]Method(nil), methods...)
	case EnumKind:
		typ.variants = append([]Variant(nil), variants...)
	default:
		panic("types: Complete called on a non-nominal type")
	}
}

// Alias interns a named alias for target.
func (t *Table) Alias(name string, target *Type) *Type {
	key := "alias " + name
	return t.intern(&Type{kind: AliasKind, name: name, target: target, key: key})
}

// Underlying strips alias layers, returning the first non-alias type in
// the chain.
func Underlying(t *Type) *Type {
	for t.kind == AliasKind {
		t = t.target
	}
	return t
}

// numeric category, used by IsNumeric and Promote.
type category int

const (
	catNone category = iota
	catSignedInt
	catUnsignedInt
	catFloat
)

func categoryOf(t *Type) category {
	if t.kind != PrimitiveKind {
		return catNone
	}
	switch t.prim {
	case Int8, Int16, Int32, Int64:
		return catSignedInt
	case Uint8, Uint16, Uint32, Uint64:
		return catUnsignedInt
	case Float32, Float64:
		return catFloat
	default:
		return catNone
	}
}

func widthOf(t *Type) int {
	switch t.prim {
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64:
		return 64
	default:
		return 0
	}
}

// IsNumeric reports whether t is one of the numeric primitive kinds
// (signed int, unsigned int, or float of any width). bool is explicitly
// excluded, per the numeric promotion rule.
//
// This supplies the placeholder goo_is_numeric_type the type-checker
// stub comments referenced but never defined.
func IsNumeric(t *Type) bool {
	return categoryOf(t) != catNone
}

// IsComparable reports whether t supports ordering comparison (`< <= >
// >=`): the numeric primitives and string.
//
// This supplies the placeholder goo_is_comparable_type the type-checker
// stub comments referenced but never defined.
func IsComparable(t *Type) bool {
	if IsNumeric(t) {
		return true
	}
	return t.kind == PrimitiveKind && t.prim == String
}

// SameCategory reports whether a and b are both numeric and in the same
// promotion category (signed int, unsigned int, or float).
func SameCategory(a, b *Type) bool {
	ca := categoryOf(a)
	return ca != catNone && ca == categoryOf(b)
}

// Promote returns the promoted type of a binary arithmetic operation
// between a and b: same-category numeric operands promote to the wider
// width. Cross-category mixing (including with bool) is rejected via the
// second return value.
func Promote(a, b *Type) (*Type, bool) {
	if !SameCategory(a, b) {
		return nil, false
	}
	if widthOf(a) >= widthOf(b) {
		return a, true
	}
	return b, true
}

// Identical reports whether a and b are the same interned type. Since
// every *Type in circulation for a given compilation unit was produced by
// exactly one Table, this is just pointer equality — but the helper
// documents the intent at call sites and is tolerant of either argument
// being nil (never identical to anything, including another nil, since a
// nil type denotes "no type", not "the unit type").
func Identical(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	return a == b
}
