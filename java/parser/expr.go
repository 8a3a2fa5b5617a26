package parser

// Annotation element values are a small corner of the expression grammar:
// constants, array initializers, nested annotations, and whatever constant
// expressions the author wrote. Operators are kept flat and left
// associative; nothing downstream evaluates them.

func (p *Parser) parseElementValue() *Node {
	switch p.peek().Kind {
	case TokenAt:
		return p.parseAnnotation()
	case TokenLBrace:
		return p.parseElementArray()
	}
	return p.parseExpression()
}

func (p *Parser) parseElementArray() *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseElementValue())
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(TokenRBrace) == nil {
		node.AddChild(p.errorNode("expected '}' to close array", []TokenKind{TokenRBrace, TokenRParen}, TokenRBrace))
		p.expect(TokenRBrace)
	}
	return p.finishNode(node)
}

func (p *Parser) parseExpression() *Node {
	cond := p.parseBinary()
	if !p.check(TokenQuestion) {
		return cond
	}

	node := &Node{Kind: KindTernaryExpr, Span: Span{Start: cond.Span.Start}}
	node.AddChild(cond)
	p.advance()
	node.AddChild(p.parseExpression())
	if p.check(TokenOperator) && p.peek().Literal == ":" {
		p.advance()
	} else {
		node.AddChild(p.missingNode("expected ':' in conditional expression"))
	}
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) isBinaryOperator() bool {
	tok := p.peek()
	switch tok.Kind {
	case TokenPlus, TokenLT, TokenGT, TokenBitAnd:
		return true
	case TokenOperator:
		switch tok.Literal {
		case ":", "!", "~", "++", "--", "->":
			return false
		}
		return true
	}
	return false
}

func (p *Parser) parseBinary() *Node {
	left := p.parseUnary()

	for p.isBinaryOperator() {
		node := &Node{Kind: KindBinaryExpr, Span: Span{Start: left.Span.Start}}
		node.AddChild(left)
		tok := p.advance()
		// '>' never combines in the lexer; glue ">=", ">>" and ">>>" back together.
		for tok.Kind == TokenGT && p.match(TokenGT, TokenAssign) && p.peek().Span.Start.Offset == tok.Span.End.Offset {
			next := p.advance()
			tok.Literal += next.Literal
			tok.Span.End = next.Span.End
			tok.Kind = TokenOperator
		}
		node.Token = &tok
		node.AddChild(p.parseUnary())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseUnary() *Node {
	tok := p.peek()
	isPrefix := tok.Kind == TokenPlus ||
		tok.Kind == TokenOperator && (tok.Literal == "-" || tok.Literal == "!" || tok.Literal == "~")
	if !isPrefix {
		return p.parsePostfix(p.parsePrimary())
	}

	node := p.startNode(KindUnaryExpr)
	op := p.advance()
	node.Token = &op
	node.AddChild(p.parseUnary())
	return p.finishNode(node)
}

func (p *Parser) parsePrimary() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenStringLiteral, TokenTextBlock, TokenCharLiteral,
		TokenIntLiteral, TokenFloatLiteral,
		TokenTrue, TokenFalse, TokenNull:
		p.advance()
		return &Node{Kind: KindLiteral, Token: &tok, Span: tok.Span}
	case TokenLParen:
		node := p.startNode(KindParenExpr)
		p.advance()
		node.AddChild(p.parseExpression())
		if p.expect(TokenRParen) == nil {
			node.AddChild(p.missingNode("expected ')'"))
		}
		return p.finishNode(node)
	}

	if p.isIdentifierLike() || isPrimitiveType(tok.Kind) {
		p.advance()
		return &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}
	}

	return p.missingNode("expected expression")
}

func (p *Parser) parsePostfix(target *Node) *Node {
	for {
		switch {
		case p.check(TokenDot) && p.peekN(1).Kind == TokenClass:
			node := &Node{Kind: KindClassLiteral, Span: Span{Start: target.Span.Start}}
			node.AddChild(target)
			p.advance()
			p.advance()
			target = p.finishNode(node)
		case p.check(TokenDot) && isIdentifierKind(p.peekN(1).Kind):
			node := &Node{Kind: KindFieldAccess, Span: Span{Start: target.Span.Start}}
			node.AddChild(target)
			p.advance()
			name := p.advance()
			node.AddChild(p.identifier(&name))
			target = p.finishNode(node)
		case p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket:
			// String[].class
			node := &Node{Kind: KindArrayType, Span: Span{Start: target.Span.Start}}
			node.AddChild(target)
			p.advance()
			p.advance()
			target = p.finishNode(node)
		case p.check(TokenLParen):
			target = p.parseCall(target)
		default:
			return target
		}
	}
}

func (p *Parser) parseCall(callee *Node) *Node {
	node := &Node{Kind: KindCallExpr, Span: Span{Start: callee.Span.Start}}
	node.AddChild(callee)
	p.expect(TokenLParen)

	for !p.check(TokenRParen) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if !p.check(TokenComma) || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(TokenRParen) == nil {
		node.AddChild(p.missingNode("expected ')' after arguments"))
	}
	return p.finishNode(node)
}
