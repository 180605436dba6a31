package domain

import (
	"hotsplit.dev/pkg/hotsplit/internal/script"
	"hotsplit.dev/pkg/hotsplit/pkg/patchtext"

	m "hotsplit.dev/pkg/hotsplit/internal/model"
)

// rewriteEntryArg rewrites the entry call's first argument in place,
// replacing every free reference to a captured binding with an accessor
// read. Names shadowed by parameters, declarations or catch clauses are
// left untouched.
func rewriteEntryArg(buf *patchtext.Buffer, src string, arg script.Expr, bindings m.Bindings, localsName string) error {
	rw := newRewriter(buf, src, bindings, localsName)

	return rw.expr(arg, newScope())
}

type rewriter struct {
	src      string
	buf      *patchtext.Buffer
	captured map[string]struct{}
	locals   string
}

func newRewriter(buf *patchtext.Buffer, src string, bindings m.Bindings, localsName string) *rewriter {
	captured := make(map[string]struct{}, len(bindings))

	for _, b := range bindings {
		// Property-path bindings are exported but never match a bare
		// identifier reference.
		if isIdentName(b.Name) {
			captured[b.Name] = struct{}{}
		}
	}

	return &rewriter{src: src, buf: buf, captured: captured, locals: localsName}
}

func (rw *rewriter) free(name string, sc *scope) bool {
	if sc.has(name) {
		return false
	}

	_, ok := rw.captured[name]

	return ok
}

func (rw *rewriter) substitution(name string) string {
	return "(" + rw.locals + "." + name + ")"
}

// ---- expressions ----

func (rw *rewriter) expr(e script.Expr, sc *scope) error {
	switch x := e.(type) {
	case *script.Ident:
		if rw.free(x.Name, sc) {
			start, end := x.Bounds()
			return rw.buf.Replace(start, end, rw.substitution(x.Name))
		}

		return nil

	case *script.NumberLit, *script.StringLit, *script.RegexLit,
		*script.BoolLit, *script.NullLit, *script.ThisExpr:
		return nil

	case *script.TemplateLit:
		return rw.exprs(x.Exprs, sc)

	case *script.ArrayLit:
		return rw.exprs(x.Elems, sc)

	case *script.ObjectLit:
		return rw.objectLit(x, sc)

	case *script.FuncLit:
		return rw.funcLit(x, sc)

	case *script.CallExpr:
		if err := rw.expr(x.Callee, sc); err != nil {
			return err
		}

		return rw.exprs(x.Args, sc)

	case *script.NewExpr:
		if err := rw.expr(x.Callee, sc); err != nil {
			return err
		}

		return rw.exprs(x.Args, sc)

	case *script.MemberExpr:
		if err := rw.expr(x.Obj, sc); err != nil {
			return err
		}

		if x.Computed {
			return rw.expr(x.PropExpr, sc)
		}

		return nil

	case *script.UnaryExpr:
		return rw.expr(x.X, sc)

	case *script.UpdateExpr:
		return rw.expr(x.X, sc)

	case *script.BinaryExpr:
		if err := rw.expr(x.L, sc); err != nil {
			return err
		}

		return rw.expr(x.R, sc)

	case *script.LogicalExpr:
		if err := rw.expr(x.L, sc); err != nil {
			return err
		}

		return rw.expr(x.R, sc)

	case *script.CondExpr:
		if err := rw.expr(x.Cond, sc); err != nil {
			return err
		}

		if err := rw.expr(x.Then, sc); err != nil {
			return err
		}

		return rw.expr(x.Else, sc)

	case *script.AssignExpr:
		if err := rw.expr(x.Target, sc); err != nil {
			return err
		}

		return rw.expr(x.Value, sc)

	case *script.SeqExpr:
		return rw.exprs(x.Exprs, sc)

	case *script.SpreadExpr:
		return rw.expr(x.Arg, sc)

	case *script.ParenExpr:
		return rw.expr(x.X, sc)

	case *script.ClassExpr:
		return unsupportedConstruct(rw.src, x)

	default:
		return unsupportedConstruct(rw.src, e)
	}
}

func (rw *rewriter) exprs(list []script.Expr, sc *scope) error {
	for _, e := range list {
		if e == nil {
			continue
		}

		if err := rw.expr(e, sc); err != nil {
			return err
		}
	}

	return nil
}

func (rw *rewriter) objectLit(lit *script.ObjectLit, sc *scope) error {
	for i := range lit.Props {
		prop := &lit.Props[i]

		switch prop.PKind {
		case script.PropInit:
			if prop.Computed {
				if err := rw.expr(prop.Key, sc); err != nil {
					return err
				}
			}

			if err := rw.expr(prop.Value, sc); err != nil {
				return err
			}

		case script.PropShorthand:
			if err := rw.shorthand(prop, sc); err != nil {
				return err
			}

		case script.PropMethod, script.PropGetter, script.PropSetter:
			if prop.Computed {
				if err := rw.expr(prop.Key, sc); err != nil {
					return err
				}
			}

			if err := rw.funcLit(prop.Fn, sc); err != nil {
				return err
			}

		case script.PropSpread:
			if err := rw.expr(prop.Value, sc); err != nil {
				return err
			}
		}
	}

	return nil
}

// shorthand expands a shorthand entry whose name is a captured free
// reference: {x} becomes {x: (locals.x)} so the property keeps its key
// while the value reads through the accessor.
func (rw *rewriter) shorthand(prop *script.ObjectProp, sc *scope) error {
	id, ok := prop.Key.(*script.Ident)
	if !ok {
		return unsupportedConstruct(rw.src, prop.Key)
	}

	if rw.free(id.Name, sc) {
		start, end := id.Bounds()

		if err := rw.buf.Replace(start, end, id.Name+": "+rw.substitution(id.Name)); err != nil {
			return err
		}
	}

	if prop.Default != nil {
		return rw.expr(prop.Default, sc)
	}

	return nil
}

func (rw *rewriter) funcLit(fn *script.FuncLit, sc *scope) error {
	child := sc.clone()

	if fn.Name != "" {
		child.add(fn.Name)
	}

	for _, prm := range fn.Params {
		addPatternNames(child, prm.Target)
	}

	for _, prm := range fn.Params {
		if prm.Default != nil {
			if err := rw.expr(prm.Default, child); err != nil {
				return err
			}
		}

		if err := rw.patternExprs(prm.Target, child); err != nil {
			return err
		}
	}

	if fn.Body != nil {
		return rw.stmts(fn.Body.List, child)
	}

	return rw.expr(fn.ExprBody, child)
}

// ---- statements ----

func (rw *rewriter) stmt(s script.Stmt, sc *scope) error {
	switch x := s.(type) {
	case *script.VarDecl:
		return rw.varDecl(x, sc)

	case *script.FuncDecl:
		// The name itself was added by the hoisting pre-pass in stmts.
		return rw.funcLit(x.Fn, sc)

	case *script.ClassDecl:
		return unsupportedConstruct(rw.src, x)

	case *script.ReturnStmt:
		if x.Arg != nil {
			return rw.expr(x.Arg, sc)
		}

		return nil

	case *script.ThrowStmt:
		return rw.expr(x.Arg, sc)

	case *script.BreakStmt, *script.ContinueStmt, *script.EmptyStmt:
		return nil

	case *script.LabeledStmt:
		return rw.stmt(x.Stmt, sc)

	case *script.IfStmt:
		if err := rw.expr(x.Cond, sc); err != nil {
			return err
		}

		if err := rw.stmt(x.Then, sc); err != nil {
			return err
		}

		if x.Else != nil {
			return rw.stmt(x.Else, sc)
		}

		return nil

	case *script.ForStmt:
		return rw.forClassic(x, sc)

	case *script.ForInStmt:
		return rw.forIn(x, sc)

	case *script.WhileStmt:
		if err := rw.expr(x.Cond, sc); err != nil {
			return err
		}

		return rw.stmt(x.Body, sc)

	case *script.DoWhileStmt:
		if err := rw.stmt(x.Body, sc); err != nil {
			return err
		}

		return rw.expr(x.Cond, sc)

	case *script.SwitchStmt:
		return rw.switchStmt(x, sc)

	case *script.TryStmt:
		return rw.tryStmt(x, sc)

	case *script.BlockStmt:
		return rw.stmts(x.List, sc.clone())

	case *script.ExprStmt:
		return rw.expr(x.X, sc)

	default:
		// Imports and exports cannot be nested inside the entry function.
		return unsupportedConstruct(rw.src, s)
	}
}

// stmts processes a statement region sharing one scope. Function
// declarations hoist to the top of their region; everything else binds at
// its declaration site, after its own initializer is rewritten.
func (rw *rewriter) stmts(list []script.Stmt, sc *scope) error {
	for _, s := range list {
		if fd, ok := s.(*script.FuncDecl); ok {
			sc.add(fd.Name.Name)
		}
	}

	for _, s := range list {
		if err := rw.stmt(s, sc); err != nil {
			return err
		}
	}

	return nil
}

// varDecl rewrites initializers before the declared names become visible,
// so `let x = x` reads the enclosing binding.
func (rw *rewriter) varDecl(d *script.VarDecl, sc *scope) error {
	for i := range d.Decls {
		decl := &d.Decls[i]

		if decl.Init != nil {
			if err := rw.expr(decl.Init, sc); err != nil {
				return err
			}
		}

		if err := rw.patternExprs(decl.Target, sc); err != nil {
			return err
		}

		addPatternNames(sc, decl.Target)
	}

	return nil
}

func (rw *rewriter) forClassic(f *script.ForStmt, sc *scope) error {
	child := sc.clone()

	if f.Init != nil {
		if err := rw.stmt(f.Init, child); err != nil {
			return err
		}
	}

	if f.Cond != nil {
		if err := rw.expr(f.Cond, child); err != nil {
			return err
		}
	}

	if f.Post != nil {
		if err := rw.expr(f.Post, child); err != nil {
			return err
		}
	}

	return rw.stmt(f.Body, child)
}

// forIn handles both for...in and for...of. The iterated expression is
// evaluated in the enclosing scope; the loop target only shadows inside
// the body.
func (rw *rewriter) forIn(f *script.ForInStmt, sc *scope) error {
	child := sc.clone()

	if f.Kw != "" {
		pat, ok := f.Target.(script.Pattern)
		if !ok {
			return unsupportedConstruct(rw.src, f.Target)
		}

		if err := rw.patternExprs(pat, sc); err != nil {
			return err
		}

		addPatternNames(child, pat)
	} else {
		target, ok := f.Target.(script.Expr)
		if !ok {
			return unsupportedConstruct(rw.src, f.Target)
		}

		if err := rw.expr(target, sc); err != nil {
			return err
		}
	}

	if err := rw.expr(f.Iter, sc); err != nil {
		return err
	}

	return rw.stmt(f.Body, child)
}

// switchStmt gives the whole case body list a single shared scope.
func (rw *rewriter) switchStmt(s *script.SwitchStmt, sc *scope) error {
	if err := rw.expr(s.Disc, sc); err != nil {
		return err
	}

	child := sc.clone()

	for i := range s.Cases {
		for _, st := range s.Cases[i].Body {
			if fd, ok := st.(*script.FuncDecl); ok {
				child.add(fd.Name.Name)
			}
		}
	}

	for i := range s.Cases {
		c := &s.Cases[i]

		if c.Test != nil {
			if err := rw.expr(c.Test, child); err != nil {
				return err
			}
		}

		for _, st := range c.Body {
			if err := rw.stmt(st, child); err != nil {
				return err
			}
		}
	}

	return nil
}

// tryStmt shadows the catch parameter inside the catch body only.
func (rw *rewriter) tryStmt(t *script.TryStmt, sc *scope) error {
	if err := rw.stmts(t.Block.List, sc.clone()); err != nil {
		return err
	}

	if t.CatchBody != nil {
		child := sc.clone()

		if t.CatchParam != nil {
			addPatternNames(child, t.CatchParam)
		}

		if err := rw.stmts(t.CatchBody.List, child); err != nil {
			return err
		}
	}

	if t.Finally != nil {
		return rw.stmts(t.Finally.List, sc.clone())
	}

	return nil
}

// ---- patterns ----

// addPatternNames registers every name a pattern binds. Property-path
// targets bind nothing; they assign into an existing object.
func addPatternNames(sc *scope, p script.Pattern) {
	switch t := p.(type) {
	case *script.Ident:
		sc.add(t.Name)
	case *script.MemberExpr:
	case *script.ObjectPat:
		for _, prop := range t.Props {
			if prop.Rest != nil {
				addPatternNames(sc, prop.Rest)
				continue
			}

			addPatternNames(sc, prop.Value)
		}
	case *script.ArrayPat:
		for _, el := range t.Elems {
			if el != nil {
				addPatternNames(sc, el)
			}
		}
	case *script.AssignPat:
		addPatternNames(sc, t.Target)
	case *script.RestPat:
		addPatternNames(sc, t.Arg)
	}
}

// patternExprs rewrites the expression positions inside a pattern: computed
// keys, default values and property-path objects.
func (rw *rewriter) patternExprs(p script.Pattern, sc *scope) error {
	switch t := p.(type) {
	case *script.Ident:
		return nil

	case *script.MemberExpr:
		return rw.expr(t, sc)

	case *script.ObjectPat:
		for i := range t.Props {
			prop := &t.Props[i]

			if prop.Rest != nil {
				if err := rw.patternExprs(prop.Rest, sc); err != nil {
					return err
				}

				continue
			}

			if prop.Computed {
				if err := rw.expr(prop.Key, sc); err != nil {
					return err
				}
			}

			if prop.Value != nil {
				if err := rw.patternExprs(prop.Value, sc); err != nil {
					return err
				}
			}

			if prop.Default != nil {
				if err := rw.expr(prop.Default, sc); err != nil {
					return err
				}
			}
		}

		return nil

	case *script.ArrayPat:
		for _, el := range t.Elems {
			if el == nil {
				continue
			}

			if err := rw.patternExprs(el, sc); err != nil {
				return err
			}
		}

		return nil

	case *script.AssignPat:
		if err := rw.patternExprs(t.Target, sc); err != nil {
			return err
		}

		return rw.expr(t.Default, sc)

	case *script.RestPat:
		return rw.patternExprs(t.Arg, sc)

	default:
		return unsupportedConstruct(rw.src, p)
	}
}
