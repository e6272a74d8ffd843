// Package token defines the lexical token model shared by the lexer and
// parser: token kinds, literal value carriers, and source positions.
package token

import "fmt"

// Position identifies a span of source text within a single file.
//
// Line and Column are both 1-based. Length is measured in bytes. A
// Position is a value type; once constructed it is never mutated.
type Position struct {
	File   string
	Line   uint32
	Column uint32
	Length uint32
}

// String renders the position as "file:line:column".
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Kind enumerates the fixed set of lexical token kinds.
//
// Downstream tools (the parser, and anything built atop the AST contract)
// depend on kind identity, so this enumeration is append-only.
type Kind int

const (
	// EOF is returned once the lexer has consumed all source bytes.
	EOF Kind = iota
	// Error marks a token the lexer could not make sense of; ERROR tokens
	// carry the offending source text as their lexeme and the diagnostic
	// message in Value.Str.
	Error

	Ident // identifiers and keywords share this kind until classified

	// Literals.
	IntLiteral
	FloatLiteral
	StringLiteral
	BoolLiteral
	RangeLiteral
	CharLiteral

	// Keywords. Recognized after identifier scanning by exact string match.
	KwPackage
	KwImport
	KwFn
	KwVar
	KwConst
	KwType
	KwStruct
	KwEnum
	KwInterface
	KwModule
	KwAllocator
	KwChannel
	KwComptime
	KwCapability
	KwIf
	KwElse
	KwFor
	KwWhile
	KwReturn
	KwBreak
	KwContinue
	KwSwitch
	KwMatch
	KwCase
	KwDefault
	KwSelect
	KwDefer
	KwGo
	KwSupervise
	KwTry
	KwRecover
	KwPanic
	KwScope
	KwAlloc
	KwFree
	KwNull
	KwTrue
	KwFalse
	KwIn
	KwSuper
	KwRequires

	// Operators and punctuation.
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	Bang
	Assign
	Eq
	NotEq
	Lt
	LtEq
	Gt
	GtEq
	Shl
	Shr
	AmpAmp
	PipePipe
	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	Arrow     // ->
	ChanSend  // <-
	Dot
	DotDot   // ..
	DotDotEq // ..=
	Comma
	Colon
	Semicolon
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
)

var kindNames = map[Kind]string{
	EOF: "EOF", Error: "ERROR", Ident: "IDENT",
	IntLiteral: "INT_LITERAL", FloatLiteral: "FLOAT_LITERAL",
	StringLiteral: "STRING_LITERAL", BoolLiteral: "BOOL_LITERAL",
	RangeLiteral: "RANGE_LITERAL", CharLiteral: "CHAR_LITERAL",
	KwPackage: "package", KwImport: "import", KwFn: "fn", KwVar: "var",
	KwConst: "const", KwType: "type", KwStruct: "struct", KwEnum: "enum",
	KwInterface: "interface", KwModule: "module", KwAllocator: "allocator",
	KwChannel: "channel", KwComptime: "comptime", KwCapability: "capability",
	KwIf: "if", KwElse: "else", KwFor: "for", KwWhile: "while",
	KwReturn: "return", KwBreak: "break", KwContinue: "continue",
	KwSwitch: "switch", KwMatch: "match", KwCase: "case", KwDefault: "default",
	KwSelect: "select", KwDefer: "defer", KwGo: "go", KwSupervise: "supervise",
	KwTry: "try", KwRecover: "recover", KwPanic: "panic", KwScope: "scope",
	KwAlloc: "alloc", KwFree: "free", KwNull: "null", KwTrue: "true", KwFalse: "false",
	KwIn: "in", KwSuper: "super", KwRequires: "requires",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", Bang: "!",
	Assign: "=", Eq: "==", NotEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=",
	Shl: "<<", Shr: ">>", AmpAmp: "&&", PipePipe: "||",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	Arrow: "->", ChanSend: "<-", Dot: ".", DotDot: "..", DotDotEq: "..=",
	Comma: ",", Colon: ":", Semicolon: ";",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
}

// Keywords maps reserved-word spellings to their keyword kind. The lexer
// consults this table after scanning a maximal identifier.
var Keywords = func() map[string]Kind {
	m := make(map[string]Kind, 40)
	for k := KwPackage; k <= KwRequires; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// String implements fmt.Stringer for Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= KwPackage && k <= KwRequires
}

// IsLiteral reports whether k is a literal token kind.
func (k Kind) IsLiteral() bool {
	return k >= IntLiteral && k <= CharLiteral
}

// Value is the decoded payload of a literal token. Exactly one of the
// fields is meaningful, selected by the owning Token's Kind.
type Value struct {
	Int      uint64
	Float    float64
	Str      string
	Bool     bool
	Char     rune
	RangeLo  int64
	RangeHi  int64
	Inclusive bool
}

// Token is a single lexical element: its kind, its position, the original
// lexeme slice, and — for literals — the decoded value.
//
// Tokens are value objects and may be freely copied.
type Token struct {
	Kind   Kind
	Pos    Position
	Lexeme string
	Value  Value
}

// String renders the token for diagnostics and test golden files.
func (t Token) String() string {
	switch {
	case t.Kind == EOF:
		return "EOF"
	case t.Kind == Error:
		return fmt.Sprintf("ERROR(%s)", t.Lexeme)
	case t.Kind.IsLiteral():
		return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
	default:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
}
