package script

// TokenType identifies a lexical token kind.
type TokenType int

// Token kinds produced by the Lexer.
const (
	EOF TokenType = iota

	IDENT
	NUMBER
	STRING
	TEMPLATE // full template literal, backticks included
	REGEX

	// Keywords.
	KwVar
	KwLet
	KwConst
	KwFunction
	KwReturn
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwThrow
	KwTry
	KwCatch
	KwFinally
	KwNew
	KwClass
	KwExtends
	KwImport
	KwExport
	KwFrom
	KwOf
	KwIn
	KwTypeof
	KwInstanceof
	KwDelete
	KwVoid
	KwThis
	KwNull
	KwTrue
	KwFalse

	// Punctuation.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Colon
	Dot
	Ellipsis
	Arrow
	Question
	OptChain // ?.

	// Operators.
	Plus
	Minus
	Star
	Slash
	Percent
	Pow
	Eq
	NotEq
	StrictEq
	StrictNotEq
	Less
	Greater
	LessEq
	GreaterEq
	AndAnd
	OrOr
	Nullish
	Not
	BitNot
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	UShr
	Inc
	Dec

	// Assignment operators.
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	PowAssign
	AndAndAssign
	OrOrAssign
	NullishAssign
	BitAndAssign
	BitOrAssign
	BitXorAssign
	ShlAssign
	ShrAssign
	UShrAssign
)

var keywords = map[string]TokenType{
	"var":        KwVar,
	"let":        KwLet,
	"const":      KwConst,
	"function":   KwFunction,
	"return":     KwReturn,
	"if":         KwIf,
	"else":       KwElse,
	"for":        KwFor,
	"while":      KwWhile,
	"do":         KwDo,
	"switch":     KwSwitch,
	"case":       KwCase,
	"default":    KwDefault,
	"break":      KwBreak,
	"continue":   KwContinue,
	"throw":      KwThrow,
	"try":        KwTry,
	"catch":      KwCatch,
	"finally":    KwFinally,
	"new":        KwNew,
	"class":      KwClass,
	"extends":    KwExtends,
	"import":     KwImport,
	"export":     KwExport,
	"from":       KwFrom,
	"of":         KwOf,
	"in":         KwIn,
	"typeof":     KwTypeof,
	"instanceof": KwInstanceof,
	"delete":     KwDelete,
	"void":       KwVoid,
	"this":       KwThis,
	"null":       KwNull,
	"true":       KwTrue,
	"false":      KwFalse,
}

// Token is a lexical token with its half-open byte span [Start, End) in the
// original source and 1-based line/column coordinates of its first byte.
type Token struct {
	Type   TokenType
	Lexeme string
	Start  int
	End    int
	Line   int
	Col    int
}

// isAssignOp reports whether t is an assignment operator token.
func isAssignOp(t TokenType) bool {
	return t >= Assign && t <= UShrAssign
}
