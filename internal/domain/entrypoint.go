package domain

import (
	"hotsplit.dev/pkg/hotsplit/internal/script"
)

// entryPoint is the located framework call: the top-level statement, the
// call expression and its first argument.
type entryPoint struct {
	stmt *script.ExprStmt
	call *script.CallExpr
	arg  script.Expr
}

// locateEntryPoint scans top-level statements in order and returns the first
// expression statement whose call is rooted at the entry identifier and
// carries at least one argument. Calls without arguments do not stop the
// scan; configuration calls like app.configure() may precede the real entry.
func locateEntryPoint(prog *script.Program, entry string) (entryPoint, error) {
	for _, s := range prog.Stmts {
		es, ok := s.(*script.ExprStmt)
		if !ok {
			continue
		}

		call, ok := es.X.(*script.CallExpr)
		if !ok {
			continue
		}

		if !rootedAt(call.Callee, entry) {
			continue
		}

		if len(call.Args) == 0 {
			continue
		}

		return entryPoint{stmt: es, call: call, arg: call.Args[0]}, nil
	}

	return entryPoint{}, ErrEntryPointNotFound
}

// rootedAt unwraps member accesses, calls and grouping parens to find the
// leftmost reference of a callee, and reports whether it is the entry
// identifier. This accepts shapes like app(fn), app.run(fn) and
// app.page("home")(fn).
func rootedAt(e script.Expr, entry string) bool {
	for {
		switch x := e.(type) {
		case *script.Ident:
			return x.Name == entry
		case *script.MemberExpr:
			e = x.Obj
		case *script.CallExpr:
			e = x.Callee
		case *script.ParenExpr:
			e = x.X
		default:
			return false
		}
	}
}
