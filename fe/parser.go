package fe

import (
	"fmt"

	"github.com/kallsbrook/recurtrace/syntax"
)

// ParseError is the front end's own error shape, raised while consuming
// tokens. recurtrace.Parse converts it to the package-level ParseError that
// also covers runtime failures.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: %s", e.Line, e.Col, e.Message)
}

// parser walks a flat token stream and builds a syntax.Program. The grammar
// is mutually recursive (summand <-> call <-> condition <-> block <-> loop);
// rather than forward-declaring placeholders, each production is simply a
// method that calls whichever sibling method it needs, which Go allows
// without any special ceremony.
type parser struct {
	toks []Token
	pos  int
}

// Parse turns a token stream into a Program, or returns a *ParseError
// describing the first grammar violation encountered.
func Parse(toks []Token) (prog *syntax.Program, err error) {
	p := &parser{toks: toks}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			err = pe
		}
	}()
	prog = p.parseProgram()
	return prog, nil
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) at(k Kind) bool {
	return p.peek().Kind == k
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...interface{}) {
	t := p.peek()
	panic(&ParseError{Line: t.Line, Col: t.Col, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) expect(k Kind) Token {
	if !p.at(k) {
		p.errorf("expected %s, found %s", k, p.peek().Kind)
	}
	return p.advance()
}

func (p *parser) pos2() syntax.Position {
	t := p.peek()
	return syntax.Position{Line: t.Line, Col: t.Col}
}

// parseProgram implements `Program := FunctionDef MainCall ";"`, with
// nothing else permitted at the top level.
func (p *parser) parseProgram() *syntax.Program {
	fn := p.parseFunctionDef()
	main := p.parseMainCall()
	p.expect(TSemicolon)
	if !p.at(TEOF) {
		p.errorf("unexpected %s after program", p.peek().Kind)
	}
	return &syntax.Program{Func: fn, Main: main}
}

// parseFunctionDef implements
// `FunctionDef := "fun" "(" [Identifier {"," Identifier}] ")" "{" Block "}"`.
func (p *parser) parseFunctionDef() *syntax.FunctionDef {
	at := p.pos2()
	p.expect(TKeywordFun)
	p.expect(TLParen)
	var params []syntax.Ident
	if !p.at(TRParen) {
		params = append(params, p.parseParamIdent())
		for p.at(TComma) {
			p.advance()
			params = append(params, p.parseParamIdent())
		}
	}
	p.expect(TRParen)
	p.expect(TLBrace)
	body := p.parseBlock()
	p.expect(TRBrace)
	return &syntax.FunctionDef{Params: params, Body: body, At: at}
}

func (p *parser) parseParamIdent() syntax.Ident {
	at := p.pos2()
	t := p.expect(TIdent)
	return syntax.Ident{Name: t.Lexeme, At: at}
}

// parseMainCall implements `MainCall := "fun" "(" [Summand {"," Summand}] ")"`.
func (p *parser) parseMainCall() *syntax.MainCall {
	at := p.pos2()
	p.expect(TKeywordFun)
	p.expect(TLParen)
	var args []syntax.Expr
	if !p.at(TRParen) {
		args = append(args, p.parseSummand())
		for p.at(TComma) {
			p.advance()
			args = append(args, p.parseSummand())
		}
	}
	p.expect(TRParen)
	return &syntax.MainCall{Args: args, At: at}
}

// parseBlock implements `Block := {Statement}`, ending at whatever closing
// brace the caller is about to expect.
func (p *parser) parseBlock() *syntax.Block {
	at := p.pos2()
	var stmts []syntax.Stmt
	for !p.at(TRBrace) && !p.at(TEOF) {
		stmts = append(stmts, p.parseStatement())
	}
	return &syntax.Block{Stmts: stmts, At: at}
}

// parseStatement implements `Statement := If | Loop | SimpleStmt`.
func (p *parser) parseStatement() syntax.Stmt {
	switch p.peek().Kind {
	case TKeywordIf:
		return p.parseIf()
	case TKeywordFor:
		return p.parseLoop()
	default:
		return p.parseSimpleStmt()
	}
}

// parseIf implements
// `If := "if" "(" OrCondition ")" "{" Block "}" ["else" "{" Block "}"]`.
// Once "if (" is seen and the condition closes, `{` is required: there is no
// backtrack point between the condition and the block.
func (p *parser) parseIf() *syntax.IfStmt {
	at := p.pos2()
	p.expect(TKeywordIf)
	p.expect(TLParen)
	cond := p.parseOrCondition()
	p.expect(TRParen)
	p.expect(TLBrace)
	then := p.parseBlock()
	p.expect(TRBrace)
	var elseBlock *syntax.Block
	if p.at(TKeywordElse) {
		p.advance()
		// Committed: once "else" is seen, "{" is mandatory and any
		// mismatch reports against the else clause itself.
		p.expect(TLBrace)
		elseBlock = p.parseBlock()
		p.expect(TRBrace)
	}
	return &syntax.IfStmt{Cond: cond, Then: then, Else: elseBlock, At: at}
}

// parseLoop implements
// `Loop := "for" "(" Assignment ";" OrCondition ";" Assignment ")" "{" Block "}"`.
// Once "for (" is seen, everything through the matching ")" is committed:
// a malformed init/cond/post reports at the offending token, not at "for".
func (p *parser) parseLoop() *syntax.LoopStmt {
	at := p.pos2()
	p.expect(TKeywordFor)
	p.expect(TLParen)
	init := p.parseAssignment()
	p.expect(TSemicolon)
	cond := p.parseOrCondition()
	p.expect(TSemicolon)
	post := p.parseAssignment()
	p.expect(TRParen)
	p.expect(TLBrace)
	body := p.parseBlock()
	p.expect(TRBrace)
	return &syntax.LoopStmt{Init: init, Cond: cond, Post: post, Body: body, At: at}
}

// parseSimpleStmt implements
// `SimpleStmt := (Assignment | Return | Expression) ";"`.
func (p *parser) parseSimpleStmt() syntax.Stmt {
	at := p.pos2()
	var stmt syntax.Stmt
	switch {
	case p.at(TKeywordReturn):
		p.advance()
		expr := p.parseSummand()
		stmt = &syntax.ReturnStmt{Expr: expr, At: at}
	case p.at(TIdent) && p.identStartsAssignment():
		stmt = p.parseAssignment()
	default:
		stmt = &syntax.ExprStmt{Expr: p.parseExpression(), At: at}
	}
	p.expect(TSemicolon)
	return stmt
}

// identStartsAssignment looks past an identifier (and an optional index
// bracket) to see whether a top-level "=" follows, distinguishing
// `x = e;` and `x[i] = e;` from an expression statement that merely begins
// with an identifier (e.g. `x.append(y);`).
func (p *parser) identStartsAssignment() bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.advance() // identifier
	if p.at(TLBracket) {
		depth := 1
		p.advance()
		for depth > 0 && !p.at(TEOF) {
			switch p.peek().Kind {
			case TLBracket:
				depth++
			case TRBracket:
				depth--
			}
			p.advance()
		}
	}
	return p.at(TAssign)
}

// parseAssignment implements `Identifier "=" Summand`, used both as a
// SimpleStmt and as the init/post clauses of a Loop.
func (p *parser) parseAssignment() *syntax.AssignStmt {
	at := p.pos2()
	target := p.parseIdentifier()
	p.expect(TAssign)
	rhs := p.parseSummand()
	return &syntax.AssignStmt{Target: target, Rhs: rhs, At: at}
}

// parseIdentifier implements `Identifier := name ["[" Summand "]"]`. Nested
// indexing is not part of the grammar: a second "[" after the first closes
// is simply left for the caller (almost always a syntax error at whatever
// follows).
func (p *parser) parseIdentifier() *syntax.Ident {
	at := p.pos2()
	t := p.expect(TIdent)
	id := &syntax.Ident{Name: t.Lexeme, At: at}
	if p.at(TLBracket) {
		p.advance()
		id.Index = p.parseSummand()
		p.expect(TRBracket)
	}
	return id
}

// parseOrCondition implements `OrCondition := AndCondition {"||" AndCondition}`.
func (p *parser) parseOrCondition() syntax.Expr {
	left := p.parseAndCondition()
	for p.at(TOr) {
		at := p.pos2()
		p.advance()
		right := p.parseAndCondition()
		left = &syntax.BinaryExpr{Op: syntax.Or, L: left, R: right, At: at}
	}
	return left
}

// parseAndCondition implements `AndCondition := Condition {"&&" Condition}`.
func (p *parser) parseAndCondition() syntax.Expr {
	left := p.parseCondition()
	for p.at(TAnd) {
		at := p.pos2()
		p.advance()
		right := p.parseCondition()
		left = &syntax.BinaryExpr{Op: syntax.And, L: left, R: right, At: at}
	}
	return left
}

// parseCondition implements `Condition := Test | "(" OrCondition ")"`. There
// is no separate branch for the parenthesized form: parseTerm parses every
// parenthesized group as an OrCondition (a plain Summand is one), so a
// parenthesized OrCondition arrives here as the left operand of a Test.
func (p *parser) parseCondition() syntax.Expr {
	return p.parseTest()
}

// parseTest implements `Test := Summand [relop Summand]`, the only point in
// the grammar where a relational operator may appear.
func (p *parser) parseTest() syntax.Expr {
	left := p.parseSummand()
	if op, ok := relOp(p.peek().Kind); ok {
		at := p.pos2()
		p.advance()
		right := p.parseSummand()
		return &syntax.BinaryExpr{Op: op, L: left, R: right, At: at}
	}
	return left
}

func relOp(k Kind) (syntax.BinaryOp, bool) {
	switch k {
	case TEq:
		return syntax.Eq, true
	case TNotEq:
		return syntax.NotEq, true
	case TLt:
		return syntax.Less, true
	case TLtEq:
		return syntax.LessEq, true
	case TGt:
		return syntax.Greater, true
	case TGtEq:
		return syntax.GreaterEq, true
	default:
		return 0, false
	}
}

// parseSummand implements `Summand := Factor {("+"|"-") Factor}`.
func (p *parser) parseSummand() syntax.Expr {
	left := p.parseFactor()
	for p.at(TPlus) || p.at(TMinus) {
		op := syntax.Add
		if p.at(TMinus) {
			op = syntax.Sub
		}
		at := p.pos2()
		p.advance()
		right := p.parseFactor()
		left = &syntax.BinaryExpr{Op: op, L: left, R: right, At: at}
	}
	return left
}

// parseFactor implements `Factor := Term {("*"|"/") Term}`.
func (p *parser) parseFactor() syntax.Expr {
	left := p.parseTerm()
	for p.at(TStar) || p.at(TSlash) {
		op := syntax.Mul
		if p.at(TSlash) {
			op = syntax.Div
		}
		at := p.pos2()
		p.advance()
		right := p.parseTerm()
		left = &syntax.BinaryExpr{Op: op, L: left, R: right, At: at}
	}
	return left
}

// parseTerm implements the atomic production: a literal, a parenthesized
// summand or condition, an array literal, a call of one of the three call
// shapes, or an identifier (with optional index).
func (p *parser) parseTerm() syntax.Expr {
	at := p.pos2()
	switch p.peek().Kind {
	case TNumber:
		t := p.advance()
		n, err := parseNumber(t.Lexeme)
		if err != nil {
			p.errorf("malformed number literal %q", t.Lexeme)
		}
		return &syntax.NumberLit{Value: n, At: at}
	case TString:
		t := p.advance()
		return &syntax.StringLit{Value: t.Lexeme, At: at}
	case TLBracket:
		return p.parseArrayLit()
	case TLParen:
		p.advance()
		inner := p.parseOrCondition()
		p.expect(TRParen)
		return inner
	case TKeywordFun:
		return p.parseMainCall()
	case TBuiltinLen, TBuiltinAppend, TBuiltinInsert, TBuiltinReplace:
		return p.parseFunctionCall()
	case TIdent:
		if p.peekAheadIsDot() {
			return p.parseMethodCall()
		}
		return p.parseIdentifier()
	default:
		p.errorf("unexpected %s", p.peek().Kind)
		return nil
	}
}

func (p *parser) peekAheadIsDot() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.advance()
	if p.at(TLBracket) {
		depth := 1
		p.advance()
		for depth > 0 && !p.at(TEOF) {
			switch p.peek().Kind {
			case TLBracket:
				depth++
			case TRBracket:
				depth--
			}
			p.advance()
		}
	}
	return p.at(TDot)
}

// parseArrayLit implements `Array := "[" [Summand {"," Summand}] "]"`.
func (p *parser) parseArrayLit() *syntax.ArrayLit {
	at := p.pos2()
	p.expect(TLBracket)
	var elems []syntax.Expr
	if !p.at(TRBracket) {
		elems = append(elems, p.parseSummand())
		for p.at(TComma) {
			p.advance()
			elems = append(elems, p.parseSummand())
		}
	}
	p.expect(TRBracket)
	if elems == nil {
		elems = []syntax.Expr{}
	}
	return &syntax.ArrayLit{Elems: elems, At: at}
}

// parseFunctionCall implements
// `FunctionCall := builtin "(" [Summand {"," Summand}] ")"`.
func (p *parser) parseFunctionCall() *syntax.BuiltinCall {
	at := p.pos2()
	name := builtinOf(p.peek().Kind)
	p.advance()
	p.expect(TLParen)
	var args []syntax.Expr
	if !p.at(TRParen) {
		args = append(args, p.parseSummand())
		for p.at(TComma) {
			p.advance()
			args = append(args, p.parseSummand())
		}
	}
	p.expect(TRParen)
	return &syntax.BuiltinCall{Name: name, Args: args, At: at}
}

func builtinOf(k Kind) syntax.Builtin {
	switch k {
	case TBuiltinLen:
		return syntax.Len
	case TBuiltinAppend:
		return syntax.Append
	case TBuiltinInsert:
		return syntax.Insert
	case TBuiltinReplace:
		return syntax.Replace
	default:
		panic(fmt.Sprintf("fe: builtinOf called with non-builtin kind %s", k))
	}
}

// parseMethodCall implements `MethodCall := Identifier "." FunctionCall`.
// The receiver must be a plain identifier, never an indexed one: the
// grammar's Identifier production allows an index, but a method receiver is
// restricted to a bare name per spec.md §4.5.
func (p *parser) parseMethodCall() *syntax.MethodCall {
	at := p.pos2()
	recvTok := p.expect(TIdent)
	recv := &syntax.Ident{Name: recvTok.Lexeme, At: at}
	p.expect(TDot)
	if !isBuiltinKind(p.peek().Kind) {
		p.errorf("expected built-in function name after '.', found %s", p.peek().Kind)
	}
	call := p.parseFunctionCall()
	return &syntax.MethodCall{Receiver: recv, Call: call, At: at}
}

func isBuiltinKind(k Kind) bool {
	switch k {
	case TBuiltinLen, TBuiltinAppend, TBuiltinInsert, TBuiltinReplace:
		return true
	default:
		return false
	}
}

// parseExpression implements the statement-level Expression alternative of
// SimpleStmt: one of the three call shapes. Only a MainCall (which adds a
// frame to the call tree) and a MethodCall (which rebinds its receiver)
// have an effect; a direct builtin call's result is simply discarded.
func (p *parser) parseExpression() syntax.Expr {
	switch {
	case p.at(TKeywordFun):
		return p.parseMainCall()
	case isBuiltinKind(p.peek().Kind):
		return p.parseFunctionCall()
	case p.at(TIdent) && p.peekAheadIsDot():
		return p.parseMethodCall()
	default:
		p.errorf("expected a call expression, found %s", p.peek().Kind)
		return nil
	}
}
