package script

import "strings"

// Parse tokenizes and parses a whole script.
func Parse(src string) (*Program, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}

	return p.program()
}

// parseExprAt parses a standalone expression carved out of orig at the
// given base offset (used for template interpolations). Token offsets are
// shifted so node spans land in orig.
func parseExprAt(orig, sub string, base, line, col int) (Expr, error) {
	toks, err := NewLexerAt(sub, base, line, col).Scan()
	if err != nil {
		return nil, err
	}

	p := &parser{src: orig, toks: toks}

	e, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF) {
		return nil, p.errHere("unexpected token after interpolated expression")
	}

	return e, nil
}

type parser struct {
	src  string
	toks []Token
	i    int
	noIn bool // suppress the `in` operator inside for-loop headers
}

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.i]
}

func (p *parser) peekAt(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.i+n]
}

func (p *parser) at(tt TokenType) bool { return p.peek().Type == tt }

func (p *parser) next() Token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}

	return t
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt TokenType) bool {
	if p.at(tt) {
		p.next()
		return true
	}

	return false
}

func (p *parser) need(tt TokenType, msg string) (Token, error) {
	if p.at(tt) {
		return p.next(), nil
	}

	return Token{}, p.errHere(msg)
}

func (p *parser) errHere(msg string) error {
	t := p.peek()

	return &ParseError{Pos: Position{Offset: t.Start, Line: t.Line, Col: t.Col}, Msg: msg}
}

func (p *parser) spanFrom(start Token) Span {
	return Span{Start: start.Start, End: p.prev().End}
}

// isWordToken reports whether tt can serve as a property name or object
// key (identifiers plus reserved words used as names).
func isWordToken(tt TokenType) bool {
	return tt == IDENT || (tt >= KwVar && tt <= KwFalse)
}

// ---- statements ----

func (p *parser) program() (*Program, error) {
	prog := &Program{}

	for !p.at(EOF) {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}

		prog.Stmts = append(prog.Stmts, s)
	}

	prog.Span = Span{Start: 0, End: len(p.src)}

	return prog, nil
}

func (p *parser) stmt() (Stmt, error) {
	switch p.peek().Type {
	case KwVar, KwLet, KwConst:
		d, err := p.varDecl()
		if err != nil {
			return nil, err
		}

		p.match(Semi)
		d.End = p.prev().End

		return d, nil
	case KwFunction:
		return p.funcDecl()
	case KwClass:
		return p.classDecl()
	case KwReturn:
		return p.returnStmt()
	case KwThrow:
		return p.throwStmt()
	case KwBreak, KwContinue:
		return p.breakContinue()
	case KwIf:
		return p.ifStmt()
	case KwFor:
		return p.forStmt()
	case KwWhile:
		return p.whileStmt()
	case KwDo:
		return p.doWhileStmt()
	case KwSwitch:
		return p.switchStmt()
	case KwTry:
		return p.tryStmt()
	case KwImport:
		return p.importDecl()
	case KwExport:
		return p.exportDecl()
	case LBrace:
		return p.block()
	case Semi:
		t := p.next()
		return &EmptyStmt{Span: Span{Start: t.Start, End: t.End}}, nil
	}

	if p.at(IDENT) && p.peekAt(1).Type == Colon {
		label := p.next()
		p.next() // colon

		inner, err := p.stmt()
		if err != nil {
			return nil, err
		}

		return &LabeledStmt{Span: p.spanFrom(label), Label: label.Lexeme, Stmt: inner}, nil
	}

	start := p.peek()

	x, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	p.match(Semi)

	return &ExprStmt{Span: p.spanFrom(start), X: x}, nil
}

// varDecl parses a var/let/const declaration without its trailing
// semicolon (for-loop headers reuse it).
func (p *parser) varDecl() (*VarDecl, error) {
	kw := p.next()
	decl := &VarDecl{Kw: kw.Lexeme}

	for {
		d, err := p.declarator()
		if err != nil {
			return nil, err
		}

		decl.Decls = append(decl.Decls, d)

		if !p.match(Comma) {
			break
		}
	}

	decl.Span = p.spanFrom(kw)

	return decl, nil
}

func (p *parser) declarator() (Declarator, error) {
	target, err := p.declTarget()
	if err != nil {
		return Declarator{}, err
	}

	var d Declarator
	d.Target = target

	if p.match(Colon) {
		ann, err := p.typeText()
		if err != nil {
			return Declarator{}, err
		}

		d.TypeAnnot = ann
	}

	if p.match(Assign) {
		init, err := p.assign()
		if err != nil {
			return Declarator{}, err
		}

		d.Init = init
	}

	return d, nil
}

// declTarget parses a declaration target. Unlike nested patterns it also
// accepts dotted property paths, which some scripts use to re-point an
// existing object property at declaration time.
func (p *parser) declTarget() (Pattern, error) {
	switch p.peek().Type {
	case LBrace:
		return p.objectPat()
	case LBracket:
		return p.arrayPat()
	case Ellipsis:
		t := p.next()

		arg, err := p.declTarget()
		if err != nil {
			return nil, err
		}

		return &RestPat{Span: p.spanFrom(t), Arg: arg}, nil
	case IDENT:
		id := p.next()

		var target Pattern = &Ident{Span: Span{Start: id.Start, End: id.End}, Name: id.Lexeme}
		for p.at(Dot) {
			p.next()

			if !isWordToken(p.peek().Type) {
				return nil, p.errHere("expected property name after '.'")
			}

			prop := p.next()
			target = &MemberExpr{
				Span: Span{Start: id.Start, End: prop.End},
				Obj:  target.(Expr),
				Prop: prop.Lexeme,
			}
		}

		return target, nil
	}

	return nil, p.errHere("expected binding target")
}

// pattern parses a binding pattern as used in parameters and nested
// destructuring positions.
func (p *parser) pattern() (Pattern, error) {
	switch p.peek().Type {
	case LBrace:
		return p.objectPat()
	case LBracket:
		return p.arrayPat()
	case Ellipsis:
		t := p.next()

		arg, err := p.pattern()
		if err != nil {
			return nil, err
		}

		return &RestPat{Span: p.spanFrom(t), Arg: arg}, nil
	case IDENT:
		id := p.next()
		return &Ident{Span: Span{Start: id.Start, End: id.End}, Name: id.Lexeme}, nil
	}

	return nil, p.errHere("expected binding pattern")
}

func (p *parser) objectPat() (*ObjectPat, error) {
	open, err := p.need(LBrace, "expected '{'")
	if err != nil {
		return nil, err
	}

	pat := &ObjectPat{}

	for !p.at(RBrace) {
		start := p.peek()

		var prop ObjectPatProp

		if p.match(Ellipsis) {
			rest, err := p.pattern()
			if err != nil {
				return nil, err
			}

			prop.Rest = rest
		} else {
			key, computed, err := p.propKey()
			if err != nil {
				return nil, err
			}

			prop.Key = key
			prop.Computed = computed

			if p.match(Colon) {
				value, err := p.pattern()
				if err != nil {
					return nil, err
				}

				prop.Value = value
			} else {
				id, ok := key.(*Ident)
				if !ok || computed {
					return nil, p.errHere("expected ':' after object pattern key")
				}

				prop.Value = id
				prop.Shorthand = true
			}

			if p.match(Assign) {
				def, err := p.assign()
				if err != nil {
					return nil, err
				}

				prop.Default = def
			}
		}

		prop.Span = p.spanFrom(start)
		pat.Props = append(pat.Props, prop)

		if !p.match(Comma) {
			break
		}
	}

	if _, err := p.need(RBrace, "expected '}' to close object pattern"); err != nil {
		return nil, err
	}

	pat.Span = p.spanFrom(open)

	return pat, nil
}

func (p *parser) arrayPat() (*ArrayPat, error) {
	open, err := p.need(LBracket, "expected '['")
	if err != nil {
		return nil, err
	}

	pat := &ArrayPat{}

	for !p.at(RBracket) {
		if p.at(Comma) {
			p.next()
			pat.Elems = append(pat.Elems, nil)

			continue
		}

		var elem Pattern

		if p.at(Ellipsis) {
			t := p.next()

			arg, err := p.pattern()
			if err != nil {
				return nil, err
			}

			elem = &RestPat{Span: p.spanFrom(t), Arg: arg}
		} else {
			inner, err := p.pattern()
			if err != nil {
				return nil, err
			}

			elem = inner

			if p.at(Assign) {
				p.next()

				def, err := p.assign()
				if err != nil {
					return nil, err
				}

				s, _ := inner.Bounds()
				elem = &AssignPat{Span: Span{Start: s, End: p.prev().End}, Target: inner, Default: def}
			}
		}

		pat.Elems = append(pat.Elems, elem)

		if !p.match(Comma) {
			break
		}
	}

	if _, err := p.need(RBracket, "expected ']' to close array pattern"); err != nil {
		return nil, err
	}

	pat.Span = p.spanFrom(open)

	return pat, nil
}

func (p *parser) propKey() (Expr, bool, error) {
	t := p.peek()

	switch {
	case t.Type == LBracket:
		p.next()

		key, err := p.assign()
		if err != nil {
			return nil, false, err
		}

		if _, err := p.need(RBracket, "expected ']' after computed key"); err != nil {
			return nil, false, err
		}

		return key, true, nil
	case isWordToken(t.Type):
		p.next()
		return &Ident{Span: Span{Start: t.Start, End: t.End}, Name: t.Lexeme}, false, nil
	case t.Type == STRING:
		p.next()
		return &StringLit{Span: Span{Start: t.Start, End: t.End}, Raw: t.Lexeme}, false, nil
	case t.Type == NUMBER:
		p.next()
		return &NumberLit{Span: Span{Start: t.Start, End: t.End}, Raw: t.Lexeme}, false, nil
	}

	return nil, false, p.errHere("expected object key")
}

// typeText consumes a type annotation and returns its raw source text.
// Types are never interpreted; the scan only tracks bracket balance so it
// stops at the right delimiter. An '=>' right after a balanced ')' group
// belongs to a function type and does not terminate the scan.
func (p *parser) typeText() (string, error) {
	start := p.peek()
	if start.Type == EOF {
		return "", p.errHere("expected type annotation")
	}

	paren, brack, brace, angle := 0, 0, 0, 0
	consumed := 0

	for {
		t := p.peek()
		if t.Type == EOF {
			break
		}

		if paren == 0 && brack == 0 && brace == 0 && angle <= 0 {
			stop := false

			switch t.Type {
			case Comma, RParen, RBrace, RBracket, Semi, Assign, KwIn, KwOf:
				stop = true
			case Arrow:
				if consumed == 0 || p.prev().Type != RParen {
					stop = true
				}
			case Greater, Shr, UShr:
				if angle == 0 {
					stop = true
				}
			}

			if stop {
				break
			}
		}

		switch t.Type {
		case LParen:
			paren++
		case RParen:
			paren--
		case LBracket:
			brack++
		case RBracket:
			brack--
		case LBrace:
			brace++
		case RBrace:
			brace--
		case Less:
			angle++
		case Greater:
			angle--
		case Shr:
			angle -= 2
		case UShr:
			angle -= 3
		}

		p.next()
		consumed++
	}

	if consumed == 0 {
		return "", p.errHere("expected type annotation")
	}

	return strings.TrimSpace(p.src[start.Start:p.prev().End]), nil
}

func (p *parser) funcDecl() (Stmt, error) {
	kw := p.next()

	name, err := p.need(IDENT, "expected function name")
	if err != nil {
		return nil, err
	}

	fn, err := p.funcRest(kw, name.Lexeme, false)
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Span: p.spanFrom(kw),
		Name: &Ident{Span: Span{Start: name.Start, End: name.End}, Name: name.Lexeme},
		Fn:   fn,
	}, nil
}

// funcRest parses params, optional return type and block body, shared by
// function declarations, function expressions and methods.
func (p *parser) funcRest(start Token, name string, arrow bool) (*FuncLit, error) {
	if _, err := p.need(LParen, "expected '(' to open parameter list"); err != nil {
		return nil, err
	}

	params, err := p.params()
	if err != nil {
		return nil, err
	}

	ret := ""

	if p.match(Colon) {
		ret, err = p.typeText()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &FuncLit{
		Span:    p.spanFrom(start),
		Name:    name,
		Params:  params,
		RetType: ret,
		Body:    body,
		Arrow:   arrow,
	}, nil
}

func (p *parser) params() ([]Param, error) {
	var params []Param

	for !p.at(RParen) {
		var prm Param

		if p.at(Ellipsis) {
			t := p.next()

			arg, err := p.pattern()
			if err != nil {
				return nil, err
			}

			prm.Target = &RestPat{Span: p.spanFrom(t), Arg: arg}
		} else {
			target, err := p.pattern()
			if err != nil {
				return nil, err
			}

			prm.Target = target
		}

		if p.match(Colon) {
			ann, err := p.typeText()
			if err != nil {
				return nil, err
			}

			prm.TypeAnnot = ann
		}

		if p.match(Assign) {
			def, err := p.assign()
			if err != nil {
				return nil, err
			}

			prm.Default = def
		}

		params = append(params, prm)

		if !p.match(Comma) {
			break
		}
	}

	if _, err := p.need(RParen, "expected ')' to close parameter list"); err != nil {
		return nil, err
	}

	return params, nil
}

func (p *parser) classDecl() (Stmt, error) {
	kw := p.next()

	name := ""
	if p.at(IDENT) {
		name = p.next().Lexeme
	}

	if err := p.skipClassTail(); err != nil {
		return nil, err
	}

	return &ClassDecl{Span: p.spanFrom(kw), Name: name}, nil
}

// skipClassTail consumes an optional extends clause and the balanced class
// body. Class internals are never rewritten, so they are not modeled.
func (p *parser) skipClassTail() error {
	if p.match(KwExtends) {
		if _, err := p.callMember(); err != nil {
			return err
		}
	}

	if _, err := p.need(LBrace, "expected '{' to open class body"); err != nil {
		return err
	}

	depth := 1
	for depth > 0 {
		switch p.peek().Type {
		case EOF:
			return p.errHere("unterminated class body")
		case LBrace:
			depth++
		case RBrace:
			depth--
		}

		p.next()
	}

	return nil
}

func (p *parser) returnStmt() (Stmt, error) {
	kw := p.next()
	stmt := &ReturnStmt{}

	if !p.at(Semi) && !p.at(RBrace) && !p.at(EOF) && p.peek().Line == kw.Line {
		arg, err := p.exprSeq()
		if err != nil {
			return nil, err
		}

		stmt.Arg = arg
	}

	p.match(Semi)
	stmt.Span = p.spanFrom(kw)

	return stmt, nil
}

func (p *parser) throwStmt() (Stmt, error) {
	kw := p.next()

	arg, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	p.match(Semi)

	return &ThrowStmt{Span: p.spanFrom(kw), Arg: arg}, nil
}

func (p *parser) breakContinue() (Stmt, error) {
	kw := p.next()

	label := ""
	if p.at(IDENT) && p.peek().Line == kw.Line {
		label = p.next().Lexeme
	}

	p.match(Semi)

	if kw.Type == KwBreak {
		return &BreakStmt{Span: p.spanFrom(kw), Label: label}, nil
	}

	return &ContinueStmt{Span: p.spanFrom(kw), Label: label}, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	kw := p.next()

	if _, err := p.need(LParen, "expected '(' after if"); err != nil {
		return nil, err
	}

	cond, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(RParen, "expected ')' after if condition"); err != nil {
		return nil, err
	}

	then, err := p.stmt()
	if err != nil {
		return nil, err
	}

	stmt := &IfStmt{Cond: cond, Then: then}

	if p.match(KwElse) {
		alt, err := p.stmt()
		if err != nil {
			return nil, err
		}

		stmt.Else = alt
	}

	stmt.Span = p.spanFrom(kw)

	return stmt, nil
}

func (p *parser) forStmt() (Stmt, error) {
	kw := p.next()

	if _, err := p.need(LParen, "expected '(' after for"); err != nil {
		return nil, err
	}

	switch {
	case p.at(Semi):
		p.next()
		return p.forClassic(kw, nil)

	case p.at(KwVar) || p.at(KwLet) || p.at(KwConst):
		declKw := p.next()

		target, err := p.declTarget()
		if err != nil {
			return nil, err
		}

		ann := ""
		if p.match(Colon) {
			if ann, err = p.typeText(); err != nil {
				return nil, err
			}
		}

		if p.at(KwIn) || p.at(KwOf) {
			of := p.next().Type == KwOf
			return p.forInOf(kw, declKw.Lexeme, target, of)
		}

		decl := &VarDecl{Kw: declKw.Lexeme}
		first := Declarator{Target: target, TypeAnnot: ann}

		if p.match(Assign) {
			if first.Init, err = p.assign(); err != nil {
				return nil, err
			}
		}

		decl.Decls = append(decl.Decls, first)

		for p.match(Comma) {
			d, err := p.declarator()
			if err != nil {
				return nil, err
			}

			decl.Decls = append(decl.Decls, d)
		}

		decl.Span = Span{Start: declKw.Start, End: p.prev().End}

		if _, err := p.need(Semi, "expected ';' after for-loop initializer"); err != nil {
			return nil, err
		}

		return p.forClassic(kw, decl)

	default:
		p.noIn = true
		init, err := p.exprSeq()
		p.noIn = false

		if err != nil {
			return nil, err
		}

		if p.at(KwIn) || p.at(KwOf) {
			of := p.next().Type == KwOf
			return p.forInOfTarget(kw, init, of)
		}

		s, e := init.Bounds()
		initStmt := &ExprStmt{Span: Span{Start: s, End: e}, X: init}

		if _, err := p.need(Semi, "expected ';' after for-loop initializer"); err != nil {
			return nil, err
		}

		return p.forClassic(kw, initStmt)
	}
}

func (p *parser) forClassic(kw Token, init Stmt) (Stmt, error) {
	stmt := &ForStmt{Init: init}

	if !p.at(Semi) {
		cond, err := p.exprSeq()
		if err != nil {
			return nil, err
		}

		stmt.Cond = cond
	}

	if _, err := p.need(Semi, "expected ';' after for-loop condition"); err != nil {
		return nil, err
	}

	if !p.at(RParen) {
		post, err := p.exprSeq()
		if err != nil {
			return nil, err
		}

		stmt.Post = post
	}

	if _, err := p.need(RParen, "expected ')' to close for-loop header"); err != nil {
		return nil, err
	}

	body, err := p.stmt()
	if err != nil {
		return nil, err
	}

	stmt.Body = body
	stmt.Span = p.spanFrom(kw)

	return stmt, nil
}

func (p *parser) forInOf(kw Token, declKw string, target Pattern, of bool) (Stmt, error) {
	return p.forInOfRest(kw, declKw, target, of)
}

func (p *parser) forInOfTarget(kw Token, target Expr, of bool) (Stmt, error) {
	return p.forInOfRest(kw, "", target, of)
}

func (p *parser) forInOfRest(kw Token, declKw string, target Node, of bool) (Stmt, error) {
	iter, err := p.assign()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(RParen, "expected ')' to close for-loop header"); err != nil {
		return nil, err
	}

	body, err := p.stmt()
	if err != nil {
		return nil, err
	}

	return &ForInStmt{
		Span:   p.spanFrom(kw),
		Kw:     declKw,
		Target: target,
		Iter:   iter,
		Body:   body,
		Of:     of,
	}, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	kw := p.next()

	if _, err := p.need(LParen, "expected '(' after while"); err != nil {
		return nil, err
	}

	cond, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(RParen, "expected ')' after while condition"); err != nil {
		return nil, err
	}

	body, err := p.stmt()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Span: p.spanFrom(kw), Cond: cond, Body: body}, nil
}

func (p *parser) doWhileStmt() (Stmt, error) {
	kw := p.next()

	body, err := p.stmt()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(KwWhile, "expected 'while' after do body"); err != nil {
		return nil, err
	}

	if _, err := p.need(LParen, "expected '(' after while"); err != nil {
		return nil, err
	}

	cond, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(RParen, "expected ')' after do-while condition"); err != nil {
		return nil, err
	}

	p.match(Semi)

	return &DoWhileStmt{Span: p.spanFrom(kw), Body: body, Cond: cond}, nil
}

func (p *parser) switchStmt() (Stmt, error) {
	kw := p.next()

	if _, err := p.need(LParen, "expected '(' after switch"); err != nil {
		return nil, err
	}

	disc, err := p.exprSeq()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(RParen, "expected ')' after switch discriminant"); err != nil {
		return nil, err
	}

	if _, err := p.need(LBrace, "expected '{' to open switch body"); err != nil {
		return nil, err
	}

	stmt := &SwitchStmt{Disc: disc}

	for !p.at(RBrace) {
		caseStart := p.peek()

		var c SwitchCase

		switch {
		case p.match(KwCase):
			test, err := p.exprSeq()
			if err != nil {
				return nil, err
			}

			c.Test = test
		case p.match(KwDefault):
		default:
			return nil, p.errHere("expected 'case' or 'default' in switch body")
		}

		if _, err := p.need(Colon, "expected ':' after case label"); err != nil {
			return nil, err
		}

		for !p.at(KwCase) && !p.at(KwDefault) && !p.at(RBrace) && !p.at(EOF) {
			s, err := p.stmt()
			if err != nil {
				return nil, err
			}

			c.Body = append(c.Body, s)
		}

		c.Span = p.spanFrom(caseStart)
		stmt.Cases = append(stmt.Cases, c)
	}

	if _, err := p.need(RBrace, "expected '}' to close switch body"); err != nil {
		return nil, err
	}

	stmt.Span = p.spanFrom(kw)

	return stmt, nil
}

func (p *parser) tryStmt() (Stmt, error) {
	kw := p.next()

	block, err := p.block()
	if err != nil {
		return nil, err
	}

	stmt := &TryStmt{Block: block}

	if p.match(KwCatch) {
		if p.match(LParen) {
			param, err := p.pattern()
			if err != nil {
				return nil, err
			}

			stmt.CatchParam = param

			if p.match(Colon) {
				if _, err := p.typeText(); err != nil {
					return nil, err
				}
			}

			if _, err := p.need(RParen, "expected ')' after catch parameter"); err != nil {
				return nil, err
			}
		}

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		stmt.CatchBody = body
	}

	if p.match(KwFinally) {
		fin, err := p.block()
		if err != nil {
			return nil, err
		}

		stmt.Finally = fin
	}

	if stmt.CatchBody == nil && stmt.Finally == nil {
		return nil, p.errHere("expected 'catch' or 'finally' after try block")
	}

	stmt.Span = p.spanFrom(kw)

	return stmt, nil
}

func (p *parser) block() (*BlockStmt, error) {
	open, err := p.need(LBrace, "expected '{'")
	if err != nil {
		return nil, err
	}

	blk := &BlockStmt{}

	for !p.at(RBrace) && !p.at(EOF) {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}

		blk.List = append(blk.List, s)
	}

	if _, err := p.need(RBrace, "expected '}' to close block"); err != nil {
		return nil, err
	}

	blk.Span = p.spanFrom(open)

	return blk, nil
}

func (p *parser) importDecl() (Stmt, error) {
	kw := p.next()
	decl := &ImportDecl{}

	if p.at(STRING) {
		decl.From = p.next().Lexeme
		p.match(Semi)
		decl.Span = p.spanFrom(kw)

		return decl, nil
	}

	// `import type ...` is contextual: only a keyword when a clause follows.
	if p.at(IDENT) && p.peek().Lexeme == "type" && p.peekAt(1).Type != KwFrom && p.peekAt(1).Type != Comma {
		p.next()
		decl.TypeOnly = true
	}

	if p.at(IDENT) {
		decl.Default = p.next().Lexeme
		p.match(Comma)
	}

	switch {
	case p.match(Star):
		if !p.at(IDENT) || p.peek().Lexeme != "as" {
			return nil, p.errHere("expected 'as' after '*' in import")
		}

		p.next()

		local, err := p.need(IDENT, "expected namespace import name")
		if err != nil {
			return nil, err
		}

		decl.Namespace = local.Lexeme

	case p.match(LBrace):
		for !p.at(RBrace) {
			if !isWordToken(p.peek().Type) {
				return nil, p.errHere("expected import name")
			}

			name := p.next()
			spec := ImportSpec{Name: name.Lexeme, Local: name.Lexeme}

			if p.at(IDENT) && p.peek().Lexeme == "as" {
				p.next()

				local, err := p.need(IDENT, "expected local import name after 'as'")
				if err != nil {
					return nil, err
				}

				spec.Local = local.Lexeme
			}

			decl.Named = append(decl.Named, spec)

			if !p.match(Comma) {
				break
			}
		}

		if _, err := p.need(RBrace, "expected '}' to close import clause"); err != nil {
			return nil, err
		}
	}

	if _, err := p.need(KwFrom, "expected 'from' in import declaration"); err != nil {
		return nil, err
	}

	from, err := p.need(STRING, "expected module specifier string")
	if err != nil {
		return nil, err
	}

	decl.From = from.Lexeme
	p.match(Semi)
	decl.Span = p.spanFrom(kw)

	return decl, nil
}

func (p *parser) exportDecl() (Stmt, error) {
	kw := p.next()
	decl := &ExportDecl{}

	if p.match(KwDefault) {
		arg, err := p.assign()
		if err != nil {
			return nil, err
		}

		p.match(Semi)
		decl.Default = arg
	} else {
		inner, err := p.stmt()
		if err != nil {
			return nil, err
		}

		decl.Decl = inner
	}

	decl.Span = p.spanFrom(kw)

	return decl, nil
}

// ---- expressions ----

func (p *parser) exprSeq() (Expr, error) {
	first, err := p.assign()
	if err != nil {
		return nil, err
	}

	if !p.at(Comma) {
		return first, nil
	}

	s, _ := first.Bounds()
	seq := &SeqExpr{Exprs: []Expr{first}}

	for p.match(Comma) {
		next, err := p.assign()
		if err != nil {
			return nil, err
		}

		seq.Exprs = append(seq.Exprs, next)
	}

	seq.Span = Span{Start: s, End: p.prev().End}

	return seq, nil
}

func (p *parser) assign() (Expr, error) {
	if p.at(LParen) && p.arrowAhead() {
		return p.arrowFunc()
	}

	if p.at(IDENT) && p.peekAt(1).Type == Arrow {
		return p.singleParamArrow()
	}

	left, err := p.conditional()
	if err != nil {
		return nil, err
	}

	if isAssignOp(p.peek().Type) {
		op := p.next()

		value, err := p.assign()
		if err != nil {
			return nil, err
		}

		s, _ := left.Bounds()

		return &AssignExpr{
			Span:   Span{Start: s, End: p.prev().End},
			Op:     op.Lexeme,
			Target: left,
			Value:  value,
		}, nil
	}

	return left, nil
}

// arrowAhead reports whether the parenthesized token group at the cursor
// is an arrow function parameter list.
func (p *parser) arrowAhead() bool {
	depth := 0
	j := p.i

	for ; j < len(p.toks); j++ {
		switch p.toks[j].Type {
		case LParen:
			depth++
		case RParen:
			depth--
		case EOF:
			return false
		}

		if depth == 0 {
			break
		}
	}

	if j >= len(p.toks)-1 {
		return false
	}

	after := p.toks[j+1].Type
	if after == Arrow {
		return true
	}

	if after == Colon {
		k := p.skipTypeToks(j + 2)
		return k < len(p.toks) && p.toks[k].Type == Arrow
	}

	return false
}

// skipTypeToks is the lookahead twin of typeText: it returns the index of
// the token that terminates a type annotation starting at index k.
func (p *parser) skipTypeToks(k int) int {
	paren, brack, brace, angle := 0, 0, 0, 0
	prev := Colon

	for ; k < len(p.toks); k++ {
		t := p.toks[k].Type
		if t == EOF {
			return k
		}

		if paren == 0 && brack == 0 && brace == 0 && angle <= 0 {
			switch t {
			case Comma, RParen, RBrace, RBracket, Semi, Assign, KwIn, KwOf:
				return k
			case Arrow:
				if prev != RParen {
					return k
				}
			case Greater, Shr, UShr:
				if angle == 0 {
					return k
				}
			}
		}

		switch t {
		case LParen:
			paren++
		case RParen:
			paren--
		case LBracket:
			brack++
		case RBracket:
			brack--
		case LBrace:
			brace++
		case RBrace:
			brace--
		case Less:
			angle++
		case Greater:
			angle--
		case Shr:
			angle -= 2
		case UShr:
			angle -= 3
		}

		prev = t
	}

	return k
}

func (p *parser) arrowFunc() (Expr, error) {
	start := p.peek()

	if _, err := p.need(LParen, "expected '('"); err != nil {
		return nil, err
	}

	params, err := p.params()
	if err != nil {
		return nil, err
	}

	ret := ""

	if p.match(Colon) {
		if ret, err = p.typeText(); err != nil {
			return nil, err
		}
	}

	if _, err := p.need(Arrow, "expected '=>'"); err != nil {
		return nil, err
	}

	return p.arrowBody(start, params, ret)
}

func (p *parser) singleParamArrow() (Expr, error) {
	start := p.next()
	param := Param{Target: &Ident{Span: Span{Start: start.Start, End: start.End}, Name: start.Lexeme}}

	if _, err := p.need(Arrow, "expected '=>'"); err != nil {
		return nil, err
	}

	return p.arrowBody(start, []Param{param}, "")
}

func (p *parser) arrowBody(start Token, params []Param, ret string) (Expr, error) {
	fn := &FuncLit{Params: params, RetType: ret, Arrow: true}

	if p.at(LBrace) {
		body, err := p.block()
		if err != nil {
			return nil, err
		}

		fn.Body = body
	} else {
		body, err := p.assign()
		if err != nil {
			return nil, err
		}

		fn.ExprBody = body
	}

	fn.Span = p.spanFrom(start)

	return fn, nil
}

func (p *parser) conditional() (Expr, error) {
	cond, err := p.binary(1)
	if err != nil {
		return nil, err
	}

	if !p.at(Question) {
		return cond, nil
	}

	p.next()

	then, err := p.assign()
	if err != nil {
		return nil, err
	}

	if _, err := p.need(Colon, "expected ':' in conditional expression"); err != nil {
		return nil, err
	}

	alt, err := p.assign()
	if err != nil {
		return nil, err
	}

	s, _ := cond.Bounds()

	return &CondExpr{Span: Span{Start: s, End: p.prev().End}, Cond: cond, Then: then, Else: alt}, nil
}

// lbp returns the left binding power of a binary operator token, 0 for
// non-operators.
func lbp(tt TokenType) int {
	switch tt {
	case OrOr, Nullish:
		return 1
	case AndAnd:
		return 2
	case BitOr:
		return 3
	case BitXor:
		return 4
	case BitAnd:
		return 5
	case Eq, NotEq, StrictEq, StrictNotEq:
		return 6
	case Less, Greater, LessEq, GreaterEq, KwIn, KwInstanceof:
		return 7
	case Shl, Shr, UShr:
		return 8
	case Plus, Minus:
		return 9
	case Star, Slash, Percent:
		return 10
	case Pow:
		return 11
	}

	return 0
}

func isLogical(tt TokenType) bool {
	return tt == AndAnd || tt == OrOr || tt == Nullish
}

func (p *parser) binary(minBP int) (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.Type == KwIn && p.noIn {
			break
		}

		bp := lbp(t.Type)
		if bp == 0 || bp < minBP {
			break
		}

		p.next()

		// ** is right-associative; everything else left.
		nextBP := bp + 1
		if t.Type == Pow {
			nextBP = bp
		}

		right, err := p.binary(nextBP)
		if err != nil {
			return nil, err
		}

		s, _ := left.Bounds()
		_, e := right.Bounds()
		span := Span{Start: s, End: e}

		if isLogical(t.Type) {
			left = &LogicalExpr{Span: span, Op: t.Lexeme, L: left, R: right}
		} else {
			left = &BinaryExpr{Span: span, Op: t.Lexeme, L: left, R: right}
		}
	}

	return left, nil
}

func (p *parser) unary() (Expr, error) {
	t := p.peek()

	switch t.Type {
	case Not, BitNot, Plus, Minus, KwTypeof, KwVoid, KwDelete:
		p.next()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		_, e := x.Bounds()

		return &UnaryExpr{Span: Span{Start: t.Start, End: e}, Op: t.Lexeme, X: x}, nil

	case Inc, Dec:
		p.next()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		_, e := x.Bounds()

		return &UpdateExpr{Span: Span{Start: t.Start, End: e}, Op: t.Lexeme, Prefix: true, X: x}, nil
	}

	return p.postfix()
}

func (p *parser) postfix() (Expr, error) {
	x, err := p.callMember()
	if err != nil {
		return nil, err
	}

	if p.at(Inc) || p.at(Dec) {
		op := p.next()
		s, _ := x.Bounds()

		return &UpdateExpr{Span: Span{Start: s, End: op.End}, Op: op.Lexeme, X: x}, nil
	}

	return x, nil
}

func (p *parser) callMember() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}

	return p.callTail(base)
}

func (p *parser) callTail(e Expr) (Expr, error) {
	for {
		s, _ := e.Bounds()

		switch p.peek().Type {
		case Dot:
			p.next()

			if !isWordToken(p.peek().Type) {
				return nil, p.errHere("expected property name after '.'")
			}

			prop := p.next()
			e = &MemberExpr{Span: Span{Start: s, End: prop.End}, Obj: e, Prop: prop.Lexeme}

		case OptChain:
			p.next()

			switch {
			case isWordToken(p.peek().Type):
				prop := p.next()
				e = &MemberExpr{Span: Span{Start: s, End: prop.End}, Obj: e, Prop: prop.Lexeme, Optional: true}
			case p.at(LBracket):
				p.next()

				idx, err := p.exprSeq()
				if err != nil {
					return nil, err
				}

				close, err := p.need(RBracket, "expected ']' after computed member")
				if err != nil {
					return nil, err
				}

				e = &MemberExpr{Span: Span{Start: s, End: close.End}, Obj: e, PropExpr: idx, Computed: true, Optional: true}
			case p.at(LParen):
				args, end, err := p.callArgs()
				if err != nil {
					return nil, err
				}

				e = &CallExpr{Span: Span{Start: s, End: end}, Callee: e, Args: args}
			default:
				return nil, p.errHere("expected property name after '?.'")
			}

		case LBracket:
			p.next()

			idx, err := p.exprSeq()
			if err != nil {
				return nil, err
			}

			close, err := p.need(RBracket, "expected ']' after computed member")
			if err != nil {
				return nil, err
			}

			e = &MemberExpr{Span: Span{Start: s, End: close.End}, Obj: e, PropExpr: idx, Computed: true}

		case LParen:
			args, end, err := p.callArgs()
			if err != nil {
				return nil, err
			}

			e = &CallExpr{Span: Span{Start: s, End: end}, Callee: e, Args: args}

		case TEMPLATE:
			return nil, p.errHere("tagged template literals are not supported")

		default:
			return e, nil
		}
	}
}

// callArgs parses a parenthesized argument list and returns the arguments
// with the end offset of the closing paren.
func (p *parser) callArgs() ([]Expr, int, error) {
	if _, err := p.need(LParen, "expected '('"); err != nil {
		return nil, 0, err
	}

	saved := p.noIn
	p.noIn = false
	defer func() { p.noIn = saved }()

	var args []Expr

	for !p.at(RParen) {
		if p.at(Ellipsis) {
			t := p.next()

			arg, err := p.assign()
			if err != nil {
				return nil, 0, err
			}

			_, e := arg.Bounds()
			args = append(args, &SpreadExpr{Span: Span{Start: t.Start, End: e}, Arg: arg})
		} else {
			arg, err := p.assign()
			if err != nil {
				return nil, 0, err
			}

			args = append(args, arg)
		}

		if !p.match(Comma) {
			break
		}
	}

	close, err := p.need(RParen, "expected ')' to close argument list")
	if err != nil {
		return nil, 0, err
	}

	return args, close.End, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.peek()

	switch t.Type {
	case IDENT:
		p.next()
		return &Ident{Span: Span{Start: t.Start, End: t.End}, Name: t.Lexeme}, nil
	case NUMBER:
		p.next()
		return &NumberLit{Span: Span{Start: t.Start, End: t.End}, Raw: t.Lexeme}, nil
	case STRING:
		p.next()
		return &StringLit{Span: Span{Start: t.Start, End: t.End}, Raw: t.Lexeme}, nil
	case REGEX:
		p.next()
		return &RegexLit{Span: Span{Start: t.Start, End: t.End}, Raw: t.Lexeme}, nil
	case TEMPLATE:
		p.next()
		return p.template(t)
	case KwTrue, KwFalse:
		p.next()
		return &BoolLit{Span: Span{Start: t.Start, End: t.End}, Value: t.Type == KwTrue}, nil
	case KwNull:
		p.next()
		return &NullLit{Span: Span{Start: t.Start, End: t.End}}, nil
	case KwThis:
		p.next()
		return &ThisExpr{Span: Span{Start: t.Start, End: t.End}}, nil
	case LParen:
		p.next()

		// Grouping re-enables the `in` operator inside for-loop headers.
		saved := p.noIn
		p.noIn = false

		inner, err := p.exprSeq()

		p.noIn = saved

		if err != nil {
			return nil, err
		}

		close, err := p.need(RParen, "expected ')' to close parenthesized expression")
		if err != nil {
			return nil, err
		}

		return &ParenExpr{Span: Span{Start: t.Start, End: close.End}, X: inner}, nil
	case LBracket:
		return p.arrayLit()
	case LBrace:
		return p.objectLit()
	case KwFunction:
		p.next()

		name := ""
		if p.at(IDENT) {
			name = p.next().Lexeme
		}

		return p.funcRest(t, name, false)
	case KwClass:
		p.next()

		if p.at(IDENT) {
			p.next()
		}

		if err := p.skipClassTail(); err != nil {
			return nil, err
		}

		return &ClassExpr{Span: p.spanFrom(t)}, nil
	case KwNew:
		return p.newExpr()
	}

	return nil, p.errHere("unexpected token " + t.Lexeme)
}

func (p *parser) newExpr() (Expr, error) {
	kw := p.next()

	callee, err := p.primary()
	if err != nil {
		return nil, err
	}

	// Member accesses bind to the constructor reference; the first
	// argument list terminates the new expression itself.
	for {
		s, _ := callee.Bounds()

		switch p.peek().Type {
		case Dot:
			p.next()

			if !isWordToken(p.peek().Type) {
				return nil, p.errHere("expected property name after '.'")
			}

			prop := p.next()
			callee = &MemberExpr{Span: Span{Start: s, End: prop.End}, Obj: callee, Prop: prop.Lexeme}

			continue
		case LBracket:
			p.next()

			idx, err := p.exprSeq()
			if err != nil {
				return nil, err
			}

			close, err := p.need(RBracket, "expected ']' after computed member")
			if err != nil {
				return nil, err
			}

			callee = &MemberExpr{Span: Span{Start: s, End: close.End}, Obj: callee, PropExpr: idx, Computed: true}

			continue
		}

		break
	}

	node := &NewExpr{Callee: callee}

	if p.at(LParen) {
		args, _, err := p.callArgs()
		if err != nil {
			return nil, err
		}

		node.Args = args
	}

	node.Span = p.spanFrom(kw)

	return node, nil
}

func (p *parser) arrayLit() (Expr, error) {
	open := p.next()
	lit := &ArrayLit{}

	for !p.at(RBracket) {
		if p.at(Comma) {
			p.next()
			lit.Elems = append(lit.Elems, nil)

			continue
		}

		if p.at(Ellipsis) {
			t := p.next()

			arg, err := p.assign()
			if err != nil {
				return nil, err
			}

			_, e := arg.Bounds()
			lit.Elems = append(lit.Elems, &SpreadExpr{Span: Span{Start: t.Start, End: e}, Arg: arg})
		} else {
			elem, err := p.assign()
			if err != nil {
				return nil, err
			}

			lit.Elems = append(lit.Elems, elem)
		}

		if !p.match(Comma) {
			break
		}
	}

	if _, err := p.need(RBracket, "expected ']' to close array literal"); err != nil {
		return nil, err
	}

	lit.Span = p.spanFrom(open)

	return lit, nil
}

func (p *parser) objectLit() (Expr, error) {
	open := p.next()
	lit := &ObjectLit{}

	for !p.at(RBrace) {
		prop, err := p.objectProp()
		if err != nil {
			return nil, err
		}

		lit.Props = append(lit.Props, prop)

		if !p.match(Comma) {
			break
		}
	}

	if _, err := p.need(RBrace, "expected '}' to close object literal"); err != nil {
		return nil, err
	}

	lit.Span = p.spanFrom(open)

	return lit, nil
}

func (p *parser) objectProp() (ObjectProp, error) {
	start := p.peek()

	if p.match(Ellipsis) {
		arg, err := p.assign()
		if err != nil {
			return ObjectProp{}, err
		}

		return ObjectProp{Span: p.spanFrom(start), PKind: PropSpread, Value: arg}, nil
	}

	// get/set are contextual: they are accessors only when a key follows.
	if start.Type == IDENT && (start.Lexeme == "get" || start.Lexeme == "set") {
		nt := p.peekAt(1).Type
		if isWordToken(nt) || nt == STRING || nt == NUMBER || nt == LBracket {
			p.next()

			key, computed, err := p.propKey()
			if err != nil {
				return ObjectProp{}, err
			}

			fn, err := p.funcRest(start, "", false)
			if err != nil {
				return ObjectProp{}, err
			}

			kind := PropGetter
			if start.Lexeme == "set" {
				kind = PropSetter
			}

			return ObjectProp{Span: p.spanFrom(start), PKind: kind, Key: key, Computed: computed, Fn: fn}, nil
		}
	}

	key, computed, err := p.propKey()
	if err != nil {
		return ObjectProp{}, err
	}

	switch {
	case p.match(Colon):
		value, err := p.assign()
		if err != nil {
			return ObjectProp{}, err
		}

		return ObjectProp{Span: p.spanFrom(start), PKind: PropInit, Key: key, Computed: computed, Value: value}, nil

	case p.at(LParen):
		fn, err := p.funcRest(start, "", false)
		if err != nil {
			return ObjectProp{}, err
		}

		return ObjectProp{Span: p.spanFrom(start), PKind: PropMethod, Key: key, Computed: computed, Fn: fn}, nil

	default:
		id, ok := key.(*Ident)
		if !ok || computed {
			return ObjectProp{}, p.errHere("expected ':' after object key")
		}

		prop := ObjectProp{PKind: PropShorthand, Key: id}

		if p.match(Assign) {
			def, err := p.assign()
			if err != nil {
				return ObjectProp{}, err
			}

			prop.Default = def
		}

		prop.Span = p.spanFrom(start)

		return prop, nil
	}
}

// templateExprEnd returns the index of the '}' closing the interpolation
// whose body starts at index start of raw, mirroring the brace tracking
// done by the lexer when the template was scanned.
func templateExprEnd(raw string, start int) (int, bool) {
	depth := 1

	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--

			if depth == 0 {
				return i, true
			}
		case '"', '\'', '`':
			quote := raw[i]

			for i++; i < len(raw); i++ {
				if raw[i] == '\\' {
					i++
					continue
				}

				if raw[i] == quote {
					break
				}
			}
		}
	}

	return 0, false
}

// template splits a TEMPLATE token into its interpolated expressions,
// re-parsing each interpolation in place so node spans stay anchored to
// the original source.
func (p *parser) template(tok Token) (Expr, error) {
	lit := &TemplateLit{Span: Span{Start: tok.Start, End: tok.End}}
	raw := tok.Lexeme

	line, col := tok.Line, tok.Col

	advance := func(from, to int) {
		for k := from; k < to; k++ {
			if raw[k] == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
	}

	i := 1 // skip opening backtick
	advance(0, 1)

	for i < len(raw)-1 {
		switch {
		case raw[i] == '\\':
			advance(i, i+2)
			i += 2
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			end, ok := templateExprEnd(raw, i+2)
			if !ok {
				return nil, &ParseError{
					Pos: Position{Offset: tok.Start + i, Line: line, Col: col},
					Msg: "unterminated template interpolation",
				}
			}

			advance(i, i+2)

			sub := raw[i+2 : end]

			expr, perr := parseExprAt(p.src, sub, tok.Start+i+2, line, col)
			if perr != nil {
				return nil, perr
			}

			lit.Exprs = append(lit.Exprs, expr)

			advance(i+2, end+1)
			i = end + 1
		default:
			advance(i, i+1)
			i++
		}
	}

	return lit, nil
}
