package parser

import (
	"fmt"
	"io"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

type parseFunc func(*Parser) *Node

// Parser builds a declaration-level concrete syntax tree. Method, constructor
// and initializer bodies are kept as opaque KindBody spans; everything a
// declaration header carries (modifiers, annotations, types, parameters) is
// parsed in full.
type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	tokens          []Token
	comments        []Token
	pos             int
	entry           parseFunc
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseCompilationUnit, opts)
}

// ParseExpression parses a single annotation element value.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseElementValue, opts)
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{reader: r, entry: entry}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Source returns the bytes consumed by the last Finish call.
func (p *Parser) Source() []byte {
	return p.input
}

func (p *Parser) Finish() (*Node, error) {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p.displayName(), err)
		}
		p.input = data
	}
	p.tokens = p.tokens[:0]
	p.comments = p.comments[:0]
	p.pos = 0
	p.tokenize(NewLexer(p.input, p.file))
	return p.entry(p), nil
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.tokens = nil
	p.comments = nil
	p.pos = 0
}

func (p *Parser) displayName() string {
	if p.file == "" {
		return "input"
	}
	return p.file
}

func (p *Parser) tokenize(lexer *Lexer) {
	for {
		tok := lexer.NextToken()
		switch tok.Kind {
		case TokenWhitespace:
			continue
		case TokenComment, TokenLineComment:
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			return
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1]
		}
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectIdentifier() *Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; it consumes one token and reports false when nothing moved.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			p.advance()
			return false
		}
		return true
	}
}

func (p *Parser) isIdentifierLike() bool {
	return isIdentifierKind(p.peek().Kind)
}

func isIdentifierKind(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenRecord, TokenSealed, TokenPermits:
		return true
	}
	return false
}

func (p *Parser) identifier(tok *Token) *Node {
	if tok == nil {
		return nil
	}
	return &Node{Kind: KindIdentifier, Token: tok, Span: tok.Span}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else {
		n.Span.End = n.Span.Start
	}
	if n.Span.End.Offset < n.Span.Start.Offset {
		n.Span.End = n.Span.Start
	}
	return n
}

// errorNode records an error at the current token, consumes it and skips
// ahead to the first token of recoverTo.
func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	node := &Node{
		Kind: KindError,
		Span: tok.Span,
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

// missingNode records an error without consuming input.
func (p *Parser) missingNode(msg string) *Node {
	tok := p.peek()
	return &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Got: &tok},
	}
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	p.advance()
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) && !p.match(kinds...) {
		p.advance()
	}
}

var declarationStart = []TokenKind{
	TokenAt, TokenPublic, TokenPrivate, TokenProtected,
	TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
	TokenClass, TokenInterface, TokenEnum, TokenRecord,
	TokenSealed, TokenNonSealed,
}

var memberStart = append([]TokenKind{
	TokenNative, TokenSynchronized, TokenTransient, TokenVolatile,
	TokenDefault, TokenIdent, TokenLT, TokenRBrace, TokenSemicolon,
	TokenVoid, TokenBoolean, TokenByte, TokenChar, TokenShort,
	TokenInt, TokenLong, TokenFloat, TokenDouble,
}, declarationStart...)

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}

	for p.check(TokenImport) || p.check(TokenSemicolon) {
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		if p.check(TokenSemicolon) {
			p.advance()
			continue
		}
		progress := p.mustProgress()
		node.AddChild(p.parseTypeDecl(p.parseModifiers()))
		progress()
	}

	return p.finishNode(node)
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	save := p.pos
	for p.check(TokenAt) && p.peekN(1).Kind != TokenInterface {
		p.parseAnnotation()
	}
	result := p.check(TokenPackage)
	p.pos = save
	return result
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if tok := p.expect(TokenStatic); tok != nil {
		node.AddChild(p.identifier(tok))
	}

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenDot) && p.peekN(1).Kind == TokenOperator && p.peekN(1).Literal == "*" {
		p.advance()
		tok := p.advance()
		node.AddChild(p.identifier(&tok))
	}

	if p.expect(TokenSemicolon) == nil {
		node.AddChild(p.errorNode("expected ';' after import", []TokenKind{TokenSemicolon, TokenImport}, TokenSemicolon))
		p.expect(TokenSemicolon)
	}
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)

	tok := p.expectIdentifier()
	if tok == nil {
		return p.missingNode("expected identifier")
	}
	node.AddChild(p.identifier(tok))

	for p.check(TokenDot) && isIdentifierKind(p.peekN(1).Kind) {
		p.advance()
		tok := p.advance()
		node.AddChild(p.identifier(&tok))
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeDecl(modifiers *Node) *Node {
	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	case TokenRecord:
		if p.isRecordDecl() {
			return p.parseRecordDecl(modifiers)
		}
	}

	if len(modifiers.Children) > 0 {
		return p.errorNode("expected class, interface, enum, record, or @interface", declarationStart)
	}
	return p.errorNode("expected type declaration", declarationStart)
}

func (p *Parser) isRecordDecl() bool {
	if !p.check(TokenRecord) || !isIdentifierKind(p.peekN(1).Kind) {
		return false
	}
	next := p.peekN(2).Kind
	return next == TokenLParen || next == TokenLT
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault,
			TokenNonSealed:
			tok := p.advance()
			node.AddChild(p.identifier(&tok))
		case TokenSealed:
			// "sealed" is only a modifier in front of another declaration token.
			if isIdentifierKind(p.peekN(1).Kind) && p.peekN(1).Kind != TokenRecord {
				return p.finishNode(node)
			}
			tok := p.advance()
			node.AddChild(p.identifier(&tok))
		default:
			return p.finishNode(node)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())

	if !p.check(TokenLParen) {
		return p.finishNode(node)
	}
	p.advance()

	if !p.check(TokenRParen) {
		if p.isIdentifierLike() && p.peekN(1).Kind == TokenAssign {
			for {
				progress := p.mustProgress()
				node.AddChild(p.parseAnnotationElement())
				if !p.check(TokenComma) || !progress() {
					break
				}
				p.advance()
			}
		} else {
			node.AddChild(p.parseElementValue())
		}
	}

	if p.expect(TokenRParen) == nil {
		node.AddChild(p.errorNode("expected ')' to close annotation", []TokenKind{TokenRParen}, TokenRParen))
		p.expect(TokenRParen)
	}
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	node.AddChild(p.identifier(p.expectIdentifier()))
	p.expect(TokenAssign)
	node.AddChild(p.parseElementValue())
	return p.finishNode(node)
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNode(KindClassDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)

	p.expect(TokenClass)
	node.AddChild(p.identifier(p.expectIdentifier()))

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeClause(KindExtendsClause))
	}
	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}
	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNode(KindInterfaceDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)

	p.expect(TokenInterface)
	node.AddChild(p.identifier(p.expectIdentifier()))

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}
	if p.check(TokenExtends) {
		node.AddChild(p.parseTypeClause(KindExtendsClause))
	}
	if p.check(TokenPermits) {
		node.AddChild(p.parseTypeClause(KindPermitsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNode(KindEnumDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)

	p.expect(TokenEnum)
	node.AddChild(p.identifier(p.expectIdentifier()))

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	body := p.startNode(KindClassBody)
	p.expect(TokenLBrace)

	for p.isIdentifierLike() || p.check(TokenAt) {
		progress := p.mustProgress()
		body.AddChild(p.parseEnumConstant())
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(TokenSemicolon) != nil {
		p.parseMembers(body)
	}

	p.expect(TokenRBrace)
	node.AddChild(p.finishNode(body))
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindEnumConstant)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	node.AddChild(p.identifier(p.expectIdentifier()))

	if p.check(TokenLParen) {
		p.skipBalanced(TokenLParen, TokenRParen)
	}
	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parseRecordDecl(modifiers *Node) *Node {
	node := p.startNode(KindRecordDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)

	p.expect(TokenRecord)
	node.AddChild(p.identifier(p.expectIdentifier()))

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenImplements) {
		node.AddChild(p.parseTypeClause(KindImplementsClause))
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startNode(KindAnnotationDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)

	p.expect(TokenAt)
	p.expect(TokenInterface)
	node.AddChild(p.identifier(p.expectIdentifier()))

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeClause(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)

	for !p.check(TokenGT) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		for p.check(TokenAt) {
			node.AddChild(p.parseAnnotation())
		}
		node.AddChild(p.identifier(p.expectIdentifier()))
		if p.check(TokenExtends) {
			p.advance()
			node.AddChild(p.parseType())
			for p.check(TokenBitAnd) {
				p.advance()
				node.AddChild(p.parseType())
			}
		}
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch {
	case isPrimitiveType(p.peek().Kind):
		tok := p.advance()
		node.AddChild(p.identifier(&tok))
	case p.isIdentifierLike():
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		// Outer<T>.Inner<U>
		for p.check(TokenDot) && isIdentifierKind(p.peekN(1).Kind) {
			p.advance()
			node.AddChild(p.parseQualifiedName())
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	default:
		return p.missingNode("expected type")
	}

	for p.check(TokenLBracket) || (p.check(TokenAt) && p.isAnnotatedDimension()) {
		wrapper := &Node{Kind: KindArrayType, Span: Span{Start: node.Span.Start}}
		for p.check(TokenAt) {
			wrapper.AddChild(p.parseAnnotation())
		}
		p.expect(TokenLBracket)
		p.expect(TokenRBracket)
		wrapper.AddChild(p.finishNode(node))
		node = wrapper
	}

	return p.finishNode(node)
}

func (p *Parser) isAnnotatedDimension() bool {
	save := p.pos
	defer func() { p.pos = save }()
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	return p.check(TokenLBracket)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)

	for !p.check(TokenGT) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenQuestion) {
			node.AddChild(p.parseWildcard())
		} else {
			node.AddChild(p.parseType())
		}
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	p.expect(TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}
	p.expect(TokenQuestion)

	if p.check(TokenExtends) || p.check(TokenSuper) {
		tok := p.advance()
		node.AddChild(p.identifier(&tok))
		node.AddChild(p.parseType())
	}

	return p.finishNode(node)
}

func (p *Parser) parseClassBody() *Node {
	node := p.startNode(KindClassBody)
	if p.expect(TokenLBrace) == nil {
		node.AddChild(p.missingNode("expected '{'"))
		return p.finishNode(node)
	}
	p.parseMembers(node)
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseMembers(body *Node) {
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		body.AddChild(p.parseClassMember())
		progress()
	}
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenSemicolon) {
		p.advance()
		return nil
	}

	if p.check(TokenLBrace) || (p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace) {
		node := p.startNode(KindInitializer)
		if tok := p.expect(TokenStatic); tok != nil {
			node.AddChild(p.identifier(tok))
		}
		node.AddChild(p.skipBody())
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum:
		return p.parseTypeDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	case TokenRecord:
		if p.isRecordDecl() {
			return p.parseRecordDecl(modifiers)
		}
	}

	var typeParams *Node
	if p.check(TokenLT) {
		typeParams = p.parseTypeParameters()
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}

	// Compact canonical constructor of a record.
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		node := p.startNode(KindConstructorDecl)
		node.Span.Start = modifiers.Span.Start
		node.AddChild(modifiers)
		node.AddChild(p.identifier(p.expectIdentifier()))
		node.AddChild(p.skipBody())
		return p.finishNode(node)
	}

	typ := p.parseType()
	if typ.IsError() {
		return p.errorNode("expected member declaration", memberStart)
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseMethod(modifiers, typeParams, typ)
	}
	if p.isIdentifierLike() {
		return p.parseField(modifiers, typ)
	}

	return p.errorNode("expected member declaration", memberStart)
}

func (p *Parser) parseConstructor(modifiers, typeParams *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)
	node.AddChild(typeParams)

	node.AddChild(p.identifier(p.expectIdentifier()))
	node.AddChild(p.parseParameters())

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.skipBody())
	} else {
		p.expect(TokenSemicolon)
	}
	return p.finishNode(node)
}

func (p *Parser) parseMethod(modifiers, typeParams, returnType *Node) *Node {
	node := p.startNode(KindMethodDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)
	node.AddChild(typeParams)
	node.AddChild(returnType)

	node.AddChild(p.identifier(p.expectIdentifier()))
	node.AddChild(p.parseParameters())

	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	switch {
	case p.check(TokenLBrace):
		node.AddChild(p.skipBody())
	case p.check(TokenDefault):
		p.advance()
		node.AddChild(p.parseElementValue())
		p.expect(TokenSemicolon)
	case p.expect(TokenSemicolon) != nil:
	default:
		node.AddChild(p.errorNode("expected method body or ';'", memberStart, TokenLBrace, TokenSemicolon))
	}

	return p.finishNode(node)
}

// parseField records the declared names of a field declaration; variable
// initializers are skipped.
func (p *Parser) parseField(modifiers, typ *Node) *Node {
	node := p.startNode(KindFieldDecl)
	node.Span.Start = modifiers.Span.Start
	node.AddChild(modifiers)
	node.AddChild(typ)

	for {
		progress := p.mustProgress()
		node.AddChild(p.identifier(p.expectIdentifier()))
		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
		}
		if p.check(TokenAssign) {
			p.advance()
			p.skipUntil(TokenComma, TokenSemicolon)
		}
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(TokenSemicolon) == nil {
		node.AddChild(p.errorNode("expected ';' after field declaration", memberStart, TokenSemicolon))
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	if p.expect(TokenLParen) == nil {
		return p.finishNode(node)
	}

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(TokenRParen) == nil {
		node.AddChild(p.errorNode("expected ')' after parameters", []TokenKind{TokenRParen, TokenLBrace, TokenSemicolon}, TokenRParen))
		p.expect(TokenRParen)
	}
	return p.finishNode(node)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())
	node.AddChild(p.parseType())

	if tok := p.expect(TokenEllipsis); tok != nil {
		node.AddChild(p.identifier(tok))
	}

	node.AddChild(p.identifier(p.expectIdentifier()))

	// int matrix[][]: dimensions after the name belong to the type.
	for p.check(TokenLBracket) {
		open := p.advance()
		if tok := p.expect(TokenRBracket); tok != nil {
			dims := Token{Kind: TokenLBracket, Literal: "[]", Span: Span{Start: open.Span.Start, End: tok.Span.End}}
			node.AddChild(p.identifier(&dims))
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	return p.finishNode(node)
}

// skipBody consumes a brace-delimited block without interpreting it.
func (p *Parser) skipBody() *Node {
	node := p.startNode(KindBody)
	if !p.check(TokenLBrace) {
		return p.missingNode("expected '{'")
	}
	if !p.skipBalanced(TokenLBrace, TokenRBrace) {
		node = p.finishNode(node)
		node.AddChild(p.missingNode("unterminated block"))
		return node
	}
	return p.finishNode(node)
}

// skipBalanced consumes an open token through its matching close token and
// reports whether the close token was found.
func (p *Parser) skipBalanced(open, close TokenKind) bool {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.advance()
		switch tok.Kind {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// skipUntil advances to the first of stops found outside any bracket pair.
func (p *Parser) skipUntil(stops ...TokenKind) {
	depth := 0
	for !p.check(TokenEOF) {
		kind := p.peek().Kind
		if depth == 0 && p.match(stops...) {
			return
		}
		switch kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBracket:
			depth--
		case TokenRBrace:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}
