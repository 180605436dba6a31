package script

// Span is a half-open byte interval [Start, End) in the original source.
type Span struct {
	Start int
	End   int
}

// Bounds returns the interval's endpoints.
func (s Span) Bounds() (int, int) { return s.Start, s.End }

// Node is implemented by every syntax tree node. Kind names the node for
// diagnostics; Bounds gives its byte span in the original source.
type Node interface {
	Bounds() (int, int)
	Kind() string
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a binding or assignment target. Ident and MemberExpr double as
// patterns; the remaining pattern forms are structural.
type Pattern interface {
	Node
	patternNode()
}

// Program is a parsed script: the ordered top-level statement list.
type Program struct {
	Span
	Stmts []Stmt
}

func (*Program) Kind() string { return "program" }

// ---- statements ----

// Declarator is one target of a variable declaration.
type Declarator struct {
	Target    Pattern
	TypeAnnot string // raw annotation text, "" when absent
	Init      Expr   // nil when absent
}

// VarDecl is a var/let/const declaration statement.
type VarDecl struct {
	Span
	Kw    string // "var", "let" or "const"
	Decls []Declarator
}

func (*VarDecl) Kind() string { return "variable declaration" }
func (*VarDecl) stmtNode()    {}

// FuncDecl is a named function declaration statement.
type FuncDecl struct {
	Span
	Name *Ident
	Fn   *FuncLit
}

func (*FuncDecl) Kind() string { return "function declaration" }
func (*FuncDecl) stmtNode()    {}

// ClassDecl is a class declaration. The body is not modeled; the node only
// records its span, since classes are rejected by the rewrite pass.
type ClassDecl struct {
	Span
	Name string
}

func (*ClassDecl) Kind() string { return "class declaration" }
func (*ClassDecl) stmtNode()    {}

// ReturnStmt is a return statement; Arg is nil for a bare return.
type ReturnStmt struct {
	Span
	Arg Expr
}

func (*ReturnStmt) Kind() string { return "return statement" }
func (*ReturnStmt) stmtNode()    {}

// ThrowStmt is a throw statement.
type ThrowStmt struct {
	Span
	Arg Expr
}

func (*ThrowStmt) Kind() string { return "throw statement" }
func (*ThrowStmt) stmtNode()    {}

// BreakStmt is a break statement with an optional label.
type BreakStmt struct {
	Span
	Label string
}

func (*BreakStmt) Kind() string { return "break statement" }
func (*BreakStmt) stmtNode()    {}

// ContinueStmt is a continue statement with an optional label.
type ContinueStmt struct {
	Span
	Label string
}

func (*ContinueStmt) Kind() string { return "continue statement" }
func (*ContinueStmt) stmtNode()    {}

// LabeledStmt is a labeled statement.
type LabeledStmt struct {
	Span
	Label string
	Stmt  Stmt
}

func (*LabeledStmt) Kind() string { return "labeled statement" }
func (*LabeledStmt) stmtNode()    {}

// IfStmt is an if/else statement; Else may be nil.
type IfStmt struct {
	Span
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) Kind() string { return "if statement" }
func (*IfStmt) stmtNode()    {}

// ForStmt is a classic three-clause for loop. Init is a *VarDecl or an
// *ExprStmt; any clause may be nil.
type ForStmt struct {
	Span
	Init Stmt
	Cond Expr
	Post Expr
	Body Stmt
}

func (*ForStmt) Kind() string { return "for statement" }
func (*ForStmt) stmtNode()    {}

// ForInStmt covers both for...in and for...of loops. When Kw is non-empty
// the header declares Target as a new binding; otherwise Target is an
// existing reference (an Expr used as assignment target).
type ForInStmt struct {
	Span
	Kw     string // "", "var", "let" or "const"
	Target Node
	Iter   Expr
	Body   Stmt
	Of     bool
}

func (f *ForInStmt) Kind() string {
	if f.Of {
		return "for-of statement"
	}

	return "for-in statement"
}
func (*ForInStmt) stmtNode() {}

// WhileStmt is a while loop.
type WhileStmt struct {
	Span
	Cond Expr
	Body Stmt
}

func (*WhileStmt) Kind() string { return "while statement" }
func (*WhileStmt) stmtNode()    {}

// DoWhileStmt is a do/while loop.
type DoWhileStmt struct {
	Span
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) Kind() string { return "do-while statement" }
func (*DoWhileStmt) stmtNode()    {}

// SwitchCase is one case (or default, when Test is nil) of a switch.
type SwitchCase struct {
	Span
	Test Expr
	Body []Stmt
}

// SwitchStmt is a switch statement.
type SwitchStmt struct {
	Span
	Disc  Expr
	Cases []SwitchCase
}

func (*SwitchStmt) Kind() string { return "switch statement" }
func (*SwitchStmt) stmtNode()    {}

// TryStmt is a try statement with optional catch and finally clauses.
// CatchParam may be nil even when CatchBody is present.
type TryStmt struct {
	Span
	Block      *BlockStmt
	CatchParam Pattern
	CatchBody  *BlockStmt
	Finally    *BlockStmt
}

func (*TryStmt) Kind() string { return "try statement" }
func (*TryStmt) stmtNode()    {}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	Span
	List []Stmt
}

func (*BlockStmt) Kind() string { return "block" }
func (*BlockStmt) stmtNode()    {}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	Span
	X Expr
}

func (*ExprStmt) Kind() string { return "expression statement" }
func (*ExprStmt) stmtNode()    {}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	Span
}

func (*EmptyStmt) Kind() string { return "empty statement" }
func (*EmptyStmt) stmtNode()    {}

// ImportSpec is one named import: Name as it appears in the source module,
// Local as it is bound in this script.
type ImportSpec struct {
	Name  string
	Local string
}

// ImportDecl is an import declaration.
type ImportDecl struct {
	Span
	TypeOnly  bool
	Default   string // default-import local name, "" when absent
	Namespace string // namespace-import local name, "" when absent
	Named     []ImportSpec
	From      string // module specifier, quotes included
}

func (*ImportDecl) Kind() string { return "import declaration" }
func (*ImportDecl) stmtNode()    {}

// ExportDecl is an export declaration. Either Decl (export <stmt>) or
// Default (export default <expr>) is set.
type ExportDecl struct {
	Span
	Decl    Stmt
	Default Expr
}

func (*ExportDecl) Kind() string { return "export declaration" }
func (*ExportDecl) stmtNode()    {}

// ---- expressions ----

// Ident is an identifier reference. It doubles as the simplest pattern.
type Ident struct {
	Span
	Name string
}

func (*Ident) Kind() string { return "identifier" }
func (*Ident) exprNode()    {}
func (*Ident) patternNode() {}

// NumberLit is a numeric literal (raw spelling preserved by span).
type NumberLit struct {
	Span
	Raw string
}

func (*NumberLit) Kind() string { return "number literal" }
func (*NumberLit) exprNode()    {}

// StringLit is a quoted string literal.
type StringLit struct {
	Span
	Raw string
}

func (*StringLit) Kind() string { return "string literal" }
func (*StringLit) exprNode()    {}

// RegexLit is a regular-expression literal.
type RegexLit struct {
	Span
	Raw string
}

func (*RegexLit) Kind() string { return "regex literal" }
func (*RegexLit) exprNode()    {}

// BoolLit is true or false.
type BoolLit struct {
	Span
	Value bool
}

func (*BoolLit) Kind() string { return "boolean literal" }
func (*BoolLit) exprNode()    {}

// NullLit is the null literal.
type NullLit struct {
	Span
}

func (*NullLit) Kind() string { return "null literal" }
func (*NullLit) exprNode()    {}

// ThisExpr is a this reference.
type ThisExpr struct {
	Span
}

func (*ThisExpr) Kind() string { return "this expression" }
func (*ThisExpr) exprNode()    {}

// TemplateLit is a template literal; Exprs are its interpolations in
// source order. The quasi text between them is untouched by the pass, so
// it is not modeled.
type TemplateLit struct {
	Span
	Exprs []Expr
}

func (*TemplateLit) Kind() string { return "template literal" }
func (*TemplateLit) exprNode()    {}

// ArrayLit is an array literal; nil elements are holes.
type ArrayLit struct {
	Span
	Elems []Expr
}

func (*ArrayLit) Kind() string { return "array literal" }
func (*ArrayLit) exprNode()    {}

// PropKind classifies an object literal entry.
type PropKind int

// Object literal entry kinds.
const (
	PropInit PropKind = iota
	PropShorthand
	PropMethod
	PropGetter
	PropSetter
	PropSpread
)

// ObjectProp is one entry of an object literal. Key is an *Ident,
// *StringLit or *NumberLit, or an arbitrary expression when Computed.
// Value is set for init entries and for the spread argument; Fn for
// methods and accessors; Default for shorthand entries carrying a
// destructuring default.
type ObjectProp struct {
	Span
	PKind    PropKind
	Key      Expr
	Computed bool
	Value    Expr
	Fn       *FuncLit
	Default  Expr
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Span
	Props []ObjectProp
}

func (*ObjectLit) Kind() string { return "object literal" }
func (*ObjectLit) exprNode()    {}

// Param is one function parameter.
type Param struct {
	Target    Pattern
	TypeAnnot string
	Default   Expr
}

// FuncLit is a function or arrow expression. Arrow functions with an
// expression body have ExprBody set and Body nil.
type FuncLit struct {
	Span
	Name     string // named function expressions only
	Params   []Param
	RetType  string
	Body     *BlockStmt
	ExprBody Expr
	Arrow    bool
}

func (f *FuncLit) Kind() string {
	if f.Arrow {
		return "arrow function"
	}

	return "function expression"
}
func (*FuncLit) exprNode() {}

// CallExpr is a call expression.
type CallExpr struct {
	Span
	Callee Expr
	Args   []Expr
}

func (*CallExpr) Kind() string { return "call expression" }
func (*CallExpr) exprNode()    {}

// NewExpr is a new expression; Args is nil for argument-less new.
type NewExpr struct {
	Span
	Callee Expr
	Args   []Expr
}

func (*NewExpr) Kind() string { return "new expression" }
func (*NewExpr) exprNode()    {}

// MemberExpr is a property access. It doubles as a pattern so that
// property-path assignment targets can appear where patterns are expected.
type MemberExpr struct {
	Span
	Obj      Expr
	Prop     string // non-computed property name
	PropExpr Expr   // computed property expression
	Computed bool
	Optional bool
}

func (*MemberExpr) Kind() string { return "member expression" }
func (*MemberExpr) exprNode()    {}
func (*MemberExpr) patternNode() {}

// UnaryExpr is a prefix operator expression (including typeof, void and
// delete).
type UnaryExpr struct {
	Span
	Op string
	X  Expr
}

func (*UnaryExpr) Kind() string { return "unary expression" }
func (*UnaryExpr) exprNode()    {}

// UpdateExpr is ++ or -- in prefix or postfix position.
type UpdateExpr struct {
	Span
	Op     string
	Prefix bool
	X      Expr
}

func (*UpdateExpr) Kind() string { return "update expression" }
func (*UpdateExpr) exprNode()    {}

// BinaryExpr is a binary operator expression (including in/instanceof).
type BinaryExpr struct {
	Span
	Op string
	L  Expr
	R  Expr
}

func (*BinaryExpr) Kind() string { return "binary expression" }
func (*BinaryExpr) exprNode()    {}

// LogicalExpr is &&, || or ??.
type LogicalExpr struct {
	Span
	Op string
	L  Expr
	R  Expr
}

func (*LogicalExpr) Kind() string { return "logical expression" }
func (*LogicalExpr) exprNode()    {}

// CondExpr is the ternary conditional.
type CondExpr struct {
	Span
	Cond Expr
	Then Expr
	Else Expr
}

func (*CondExpr) Kind() string { return "conditional expression" }
func (*CondExpr) exprNode()    {}

// AssignExpr is an assignment; Target is an expression form (identifier,
// member access, or an array/object literal used as destructuring target).
type AssignExpr struct {
	Span
	Op     string
	Target Expr
	Value  Expr
}

func (*AssignExpr) Kind() string { return "assignment expression" }
func (*AssignExpr) exprNode()    {}

// SeqExpr is a comma-sequence expression.
type SeqExpr struct {
	Span
	Exprs []Expr
}

func (*SeqExpr) Kind() string { return "sequence expression" }
func (*SeqExpr) exprNode()    {}

// SpreadExpr is a spread element in a call, array or object position.
type SpreadExpr struct {
	Span
	Arg Expr
}

func (*SpreadExpr) Kind() string { return "spread element" }
func (*SpreadExpr) exprNode()    {}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	Span
	X Expr
}

func (*ParenExpr) Kind() string { return "parenthesized expression" }
func (*ParenExpr) exprNode()    {}

// ClassExpr is a class expression; like ClassDecl the body is not modeled.
type ClassExpr struct {
	Span
}

func (*ClassExpr) Kind() string { return "class expression" }
func (*ClassExpr) exprNode()    {}

// ---- patterns ----

// ObjectPatProp is one entry of an object destructuring pattern. Rest is
// set for rest entries; otherwise Key names the source property and Value
// the bound target (equal to the key for shorthand entries).
type ObjectPatProp struct {
	Span
	Key       Expr
	Computed  bool
	Value     Pattern
	Shorthand bool
	Default   Expr
	Rest      Pattern
}

// ObjectPat is an object destructuring pattern.
type ObjectPat struct {
	Span
	Props []ObjectPatProp
}

func (*ObjectPat) Kind() string { return "object pattern" }
func (*ObjectPat) patternNode() {}

// ArrayPat is an array destructuring pattern; nil elements are holes.
type ArrayPat struct {
	Span
	Elems []Pattern
}

func (*ArrayPat) Kind() string { return "array pattern" }
func (*ArrayPat) patternNode() {}

// AssignPat is a pattern with a default value.
type AssignPat struct {
	Span
	Target  Pattern
	Default Expr
}

func (*AssignPat) Kind() string { return "default pattern" }
func (*AssignPat) patternNode() {}

// RestPat is a rest element inside a pattern.
type RestPat struct {
	Span
	Arg Pattern
}

func (*RestPat) Kind() string { return "rest pattern" }
func (*RestPat) patternNode() {}
