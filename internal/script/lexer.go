package script

// Lexer scans script source into a flat token slice. Offsets are byte
// offsets into the original source; templates are scanned as single tokens
// (interpolations are split out later by the parser).
type Lexer struct {
	src  string
	base int // added to every offset, for sub-lexing template interpolations
	cur  int
	line int
	col  int
	toks []Token

	// Coordinates of the first byte of the token being scanned.
	startLine int
	startCol  int
}

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return NewLexerAt(src, 0, 1, 1)
}

// NewLexerAt creates a Lexer whose reported offsets are shifted by base and
// whose coordinates start at line/col. Used when re-scanning a template
// interpolation in place.
func NewLexerAt(src string, base, line, col int) *Lexer {
	return &Lexer{src: src, base: base, line: line, col: col}
}

// Scan tokenizes the whole source, ending with an EOF token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanks()

		if l.atEnd() {
			l.markStart()
			l.add(EOF, l.cur, l.cur)

			return l.toks, nil
		}

		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
}

func (l *Lexer) atEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}

	return l.src[l.cur]
}

func (l *Lexer) peekAt(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}

	return l.src[l.cur+n]
}

func (l *Lexer) advance() byte {
	b := l.src[l.cur]
	l.cur++

	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return b
}

func (l *Lexer) add(tt TokenType, start, end int) {
	l.toks = append(l.toks, Token{
		Type:   tt,
		Lexeme: l.src[start:end],
		Start:  l.base + start,
		End:    l.base + end,
		Line:   l.startLine,
		Col:    l.startCol,
	})
}

func (l *Lexer) err(msg string) error {
	return &LexError{Pos: Position{Offset: l.base + l.cur, Line: l.line, Col: l.col}, Msg: msg}
}

func (l *Lexer) skipBlanks() {
	for !l.atEnd() {
		switch b := l.peek(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.advance()
		case b == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case b == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()

			for !l.atEnd() {
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.advance()
					l.advance()

					break
				}

				l.advance()
			}
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

func (l *Lexer) markStart() {
	l.startLine = l.line
	l.startCol = l.col
}

func (l *Lexer) scanToken() error {
	l.markStart()

	start := l.cur
	b := l.advance()

	switch {
	case isAlpha(b):
		for !l.atEnd() && isAlphaNum(l.peek()) {
			l.advance()
		}

		word := l.src[start:l.cur]
		if kw, ok := keywords[word]; ok {
			l.add(kw, start, l.cur)
		} else {
			l.add(IDENT, start, l.cur)
		}

		return nil

	case isDigit(b) || (b == '.' && isDigit(l.peek())):
		return l.scanNumber(start, b)

	case b == '"' || b == '\'':
		return l.scanString(start, b)

	case b == '`':
		return l.scanTemplate(start)

	case b == '/' && l.regexAllowed():
		return l.scanRegex(start)
	}

	return l.scanOperator(start, b)
}

func (l *Lexer) scanNumber(start int, first byte) error {
	if first == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()

		for !l.atEnd() && isHex(l.peek()) {
			l.advance()
		}

		l.add(NUMBER, start, l.cur)

		return nil
	}

	for !l.atEnd() && isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()

		for !l.atEnd() && isDigit(l.peek()) {
			l.advance()
		}
	}

	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
			l.advance()
			l.advance()

			for !l.atEnd() && isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	l.add(NUMBER, start, l.cur)

	return nil
}

func (l *Lexer) scanString(start int, quote byte) error {
	for {
		if l.atEnd() {
			return l.err("unterminated string literal")
		}

		b := l.advance()
		if b == '\\' {
			if l.atEnd() {
				return l.err("unterminated escape sequence")
			}

			l.advance()

			continue
		}

		if b == '\n' {
			return l.err("newline in string literal")
		}

		if b == quote {
			break
		}
	}

	l.add(STRING, start, l.cur)

	return nil
}

// scanTemplate consumes a complete template literal, backticks included.
// Interpolations are tracked only for brace balance; their contents are
// re-scanned by the parser.
func (l *Lexer) scanTemplate(start int) error {
	for {
		if l.atEnd() {
			return l.err("unterminated template literal")
		}

		b := l.advance()

		switch {
		case b == '\\':
			if l.atEnd() {
				return l.err("unterminated escape sequence")
			}

			l.advance()

		case b == '`':
			l.add(TEMPLATE, start, l.cur)
			return nil

		case b == '$' && l.peek() == '{':
			l.advance()

			if err := l.skipInterpolation(); err != nil {
				return err
			}
		}
	}
}

// skipInterpolation consumes up to and including the brace that closes a
// `${` opener, tracking nested braces, strings and templates.
func (l *Lexer) skipInterpolation() error {
	depth := 1

	for depth > 0 {
		if l.atEnd() {
			return l.err("unterminated template interpolation")
		}

		b := l.advance()

		switch b {
		case '{':
			depth++
		case '}':
			depth--
		case '"', '\'':
			if err := l.skipQuoted(b); err != nil {
				return err
			}
		case '`':
			if err := l.skipNestedTemplate(); err != nil {
				return err
			}
		case '\\':
			if !l.atEnd() {
				l.advance()
			}
		}
	}

	return nil
}

func (l *Lexer) skipQuoted(quote byte) error {
	for {
		if l.atEnd() {
			return l.err("unterminated string literal")
		}

		b := l.advance()
		if b == '\\' && !l.atEnd() {
			l.advance()
			continue
		}

		if b == quote {
			return nil
		}
	}
}

func (l *Lexer) skipNestedTemplate() error {
	for {
		if l.atEnd() {
			return l.err("unterminated template literal")
		}

		b := l.advance()

		switch {
		case b == '\\':
			if !l.atEnd() {
				l.advance()
			}
		case b == '`':
			return nil
		case b == '$' && l.peek() == '{':
			l.advance()

			if err := l.skipInterpolation(); err != nil {
				return err
			}
		}
	}
}

// regexAllowed reports whether a '/' at the current position starts a regex
// literal rather than a division operator, judged by the preceding token.
func (l *Lexer) regexAllowed() bool {
	if len(l.toks) == 0 {
		return true
	}

	switch l.toks[len(l.toks)-1].Type {
	case IDENT, NUMBER, STRING, TEMPLATE, REGEX, RParen, RBracket,
		KwThis, KwNull, KwTrue, KwFalse, Inc, Dec:
		return false
	}

	return true
}

func (l *Lexer) scanRegex(start int) error {
	inClass := false

	for {
		if l.atEnd() {
			return l.err("unterminated regex literal")
		}

		b := l.advance()

		switch {
		case b == '\\':
			if l.atEnd() {
				return l.err("unterminated regex literal")
			}

			l.advance()
		case b == '[':
			inClass = true
		case b == ']':
			inClass = false
		case b == '\n':
			return l.err("newline in regex literal")
		case b == '/' && !inClass:
			for !l.atEnd() && isAlpha(l.peek()) {
				l.advance()
			}

			l.add(REGEX, start, l.cur)

			return nil
		}
	}
}

func (l *Lexer) scanOperator(start int, b byte) error {
	two := func(next byte, tt TokenType) bool {
		if l.peek() == next {
			l.advance()
			l.add(tt, start, l.cur)

			return true
		}

		return false
	}

	emit := func(tt TokenType) {
		l.add(tt, start, l.cur)
	}

	switch b {
	case '(':
		emit(LParen)
	case ')':
		emit(RParen)
	case '{':
		emit(LBrace)
	case '}':
		emit(RBrace)
	case '[':
		emit(LBracket)
	case ']':
		emit(RBracket)
	case ',':
		emit(Comma)
	case ';':
		emit(Semi)
	case ':':
		emit(Colon)
	case '~':
		emit(BitNot)
	case '.':
		if l.peek() == '.' && l.peekAt(1) == '.' {
			l.advance()
			l.advance()
			emit(Ellipsis)
		} else {
			emit(Dot)
		}
	case '?':
		switch {
		case l.peek() == '.' && !isDigit(l.peekAt(1)):
			l.advance()
			emit(OptChain)
		case l.peek() == '?':
			l.advance()
			if !two('=', NullishAssign) {
				emit(Nullish)
			}
		default:
			emit(Question)
		}
	case '+':
		switch {
		case two('+', Inc):
		case two('=', PlusAssign):
		default:
			emit(Plus)
		}
	case '-':
		switch {
		case two('-', Dec):
		case two('=', MinusAssign):
		default:
			emit(Minus)
		}
	case '*':
		switch {
		case l.peek() == '*':
			l.advance()
			if !two('=', PowAssign) {
				emit(Pow)
			}
		case two('=', StarAssign):
		default:
			emit(Star)
		}
	case '/':
		if !two('=', SlashAssign) {
			emit(Slash)
		}
	case '%':
		if !two('=', PercentAssign) {
			emit(Percent)
		}
	case '=':
		switch {
		case l.peek() == '=':
			l.advance()
			if !two('=', StrictEq) {
				emit(Eq)
			}
		case two('>', Arrow):
		default:
			emit(Assign)
		}
	case '!':
		if l.peek() == '=' {
			l.advance()
			if !two('=', StrictNotEq) {
				emit(NotEq)
			}
		} else {
			emit(Not)
		}
	case '<':
		switch {
		case l.peek() == '<':
			l.advance()
			if !two('=', ShlAssign) {
				emit(Shl)
			}
		case two('=', LessEq):
		default:
			emit(Less)
		}
	case '>':
		switch {
		case l.peek() == '>':
			l.advance()
			if l.peek() == '>' {
				l.advance()
				if !two('=', UShrAssign) {
					emit(UShr)
				}
			} else if !two('=', ShrAssign) {
				emit(Shr)
			}
		case two('=', GreaterEq):
		default:
			emit(Greater)
		}
	case '&':
		switch {
		case l.peek() == '&':
			l.advance()
			if !two('=', AndAndAssign) {
				emit(AndAnd)
			}
		case two('=', BitAndAssign):
		default:
			emit(BitAnd)
		}
	case '|':
		switch {
		case l.peek() == '|':
			l.advance()
			if !two('=', OrOrAssign) {
				emit(OrOr)
			}
		case two('=', BitOrAssign):
		default:
			emit(BitOr)
		}
	case '^':
		if !two('=', BitXorAssign) {
			emit(BitXor)
		}
	default:
		return l.err("unexpected character " + string(b))
	}

	return nil
}
