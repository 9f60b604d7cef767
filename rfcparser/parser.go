package rfcparser

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxLiteralSize bounds the literals accepted in command arguments.
const MaxLiteralSize = 64 * 1024

// Parser consumes tokens from a Scanner. Advance must be called once before any check so that the first token is
// loaded.
type Parser struct {
	scanner               *Scanner
	literalContinuationCb func() error
	previousToken         Token
	currentToken          Token
}

type Error struct {
	Token   Token
	Message string
}

func (p *Error) Error() string {
	return fmt.Sprintf("[Error offset=%v]: %v", p.Token.Offset, p.Message)
}

func (p *Error) IsEOF() bool {
	return p.Token.TType == TokenTypeEOF
}

func IsError(err error) bool {
	var perr *Error

	return errors.As(err, &perr)
}

func NewParser(s *Scanner) *Parser {
	return &Parser{scanner: s}
}

func NewParserWithLiteralContinuationCb(s *Scanner, f func() error) *Parser {
	return &Parser{scanner: s, literalContinuationCb: f}
}

// ParseAString parses `astring = 1*ASTRING-CHAR / string`.
func (p *Parser) ParseAString() (string, error) {
	if p.Check(TokenTypeDQuote) || p.Check(TokenTypeLCurly) {
		return p.ParseString()
	}

	if err := p.ConsumeWith(IsAStringChar, "expected astring"); err != nil {
		return "", err
	}

	astring, err := p.CollectBytesWhileMatchesWithPrevWith(IsAStringChar)
	if err != nil {
		return "", err
	}

	return string(astring), nil
}

// ParseString parses `string = quoted / literal`.
func (p *Parser) ParseString() (string, error) {
	switch {
	case p.Check(TokenTypeDQuote):
		return p.ParseQuoted()

	case p.Check(TokenTypeLCurly):
		literal, err := p.ParseLiteral()
		if err != nil {
			return "", err
		}

		return string(literal), nil

	default:
		return "", p.MakeError("expected start of quote or literal")
	}
}

// ParseQuoted parses `quoted = DQUOTE *QUOTED-CHAR DQUOTE`.
func (p *Parser) ParseQuoted() (string, error) {
	if err := p.Consume(TokenTypeDQuote, `expected '"' for quoted start`); err != nil {
		return "", err
	}

	var quoted []byte

	for {
		if ok, err := p.MatchesWith(IsQuotedChar); err != nil {
			return "", err
		} else if ok {
			quoted = append(quoted, p.previousToken.Value)
			continue
		}

		if ok, err := p.Matches(TokenTypeBackslash); err != nil {
			return "", err
		} else if !ok {
			break
		}

		if err := p.ConsumeWith(IsQuotedSpecial, `expected '\' or '"' after '\' in quoted`); err != nil {
			return "", err
		}

		quoted = append(quoted, p.previousToken.Value)
	}

	if err := p.Consume(TokenTypeDQuote, `expected '"' for quoted end`); err != nil {
		return "", err
	}

	return string(quoted), nil
}

// ParseLiteral parses `literal = "{" number "}" CRLF *CHAR8`.
func (p *Parser) ParseLiteral() ([]byte, error) {
	if err := p.Consume(TokenTypeLCurly, "expected '{' for literal start"); err != nil {
		return nil, err
	}

	size, err := p.ParseNumber()
	if err != nil {
		return nil, err
	}

	if size <= 0 {
		return nil, p.MakeError("invalid literal size")
	}

	if size > MaxLiteralSize {
		return nil, p.MakeError("literal size exceeds maximum size")
	}

	if err := p.Consume(TokenTypeRCurly, "expected '}' for literal end"); err != nil {
		return nil, err
	}

	// The scanner is already positioned on the first literal byte once LF is consumed.
	if err := p.Consume(TokenTypeCR, "expected CR"); err != nil {
		return nil, err
	}

	if !p.Check(TokenTypeLF) {
		return nil, p.MakeError("expected LF after CR")
	}

	if p.literalContinuationCb != nil {
		if err := p.literalContinuationCb(); err != nil {
			return nil, fmt.Errorf("literal continuation callback: %w", err)
		}
	}

	if err := p.Advance(); err != nil {
		return nil, err
	}

	literal := make([]byte, size)

	if err := p.scanner.ConsumeBytes(literal); err != nil {
		return nil, err
	}

	if err := p.Advance(); err != nil {
		return nil, err
	}

	return literal, nil
}

// ParseMailbox parses `mailbox = "INBOX" / astring`; INBOX is case-insensitive.
func (p *Parser) ParseMailbox() (string, error) {
	astring, err := p.ParseAString()
	if err != nil {
		return "", err
	}

	if strings.EqualFold(astring, "INBOX") {
		return "INBOX", nil
	}

	return astring, nil
}

// ParseNumber parses an unsigned decimal number.
func (p *Parser) ParseNumber() (int, error) {
	if err := p.Consume(TokenTypeDigit, "expected valid digit for number"); err != nil {
		return 0, err
	}

	number := ByteToInt(p.previousToken.Value)

	for {
		if ok, err := p.Matches(TokenTypeDigit); err != nil {
			return 0, err
		} else if !ok {
			break
		}

		number = number*10 + ByteToInt(p.previousToken.Value)

		if number > math.MaxUint32 {
			return 0, p.MakeError("number exceeds 32 bits")
		}
	}

	return number, nil
}

func (p *Parser) ParseAtom() (string, error) {
	if err := p.ConsumeWith(IsAtomChar, "invalid character detected in atom"); err != nil {
		return "", err
	}

	atom, err := p.CollectBytesWhileMatchesWithPrevWith(IsAtomChar)
	if err != nil {
		return "", err
	}

	return string(atom), nil
}

// Check returns whether the current token is of the given type.
func (p *Parser) Check(tokenType TokenType) bool {
	return p.currentToken.TType == tokenType
}

func (p *Parser) CheckWith(f func(tokenType TokenType) bool) bool {
	return f(p.currentToken.TType)
}

// ConsumeNewLine consumes the `CRLF` token sequence.
func (p *Parser) ConsumeNewLine() error {
	if err := p.Consume(TokenTypeCR, "expected CR"); err != nil {
		return err
	}

	return p.Consume(TokenTypeLF, "expected LF after CR")
}

// Consume advances past the current token if it has the given type, otherwise it returns an error with message.
func (p *Parser) Consume(tokenType TokenType, message string) error {
	return p.ConsumeWith(func(tt TokenType) bool { return tt == tokenType }, message)
}

func (p *Parser) ConsumeWith(f func(token TokenType) bool, message string) error {
	if f(p.currentToken.TType) {
		return p.Advance()
	}

	return p.MakeErrorAtOffset(message, p.currentToken.Offset)
}

// ConsumeBytesFold consumes the given characters, ignoring case.
func (p *Parser) ConsumeBytesFold(chars ...byte) error {
	for _, c := range chars {
		if ByteToLower(p.currentToken.Value) != ByteToLower(c) {
			return p.MakeErrorAtOffset(fmt.Sprintf("expected %q", c), p.currentToken.Offset)
		}

		if err := p.Advance(); err != nil {
			return err
		}
	}

	return nil
}

// Matches advances and returns true if the current token has the given type.
func (p *Parser) Matches(tokenType TokenType) (bool, error) {
	return p.MatchesWith(func(tt TokenType) bool { return tt == tokenType })
}

func (p *Parser) MatchesWith(f func(tokenType TokenType) bool) (bool, error) {
	if !p.CheckWith(f) {
		return false, nil
	}

	return true, p.Advance()
}

func (p *Parser) Advance() error {
	p.previousToken = p.currentToken

	next, err := p.scanner.ScanToken()
	if err != nil {
		return err
	}

	p.currentToken = next

	return nil
}

// CollectBytesWhileMatchesWithPrevWith collects token bytes while they match f, starting with the token consumed
// before this call.
func (p *Parser) CollectBytesWhileMatchesWithPrevWith(f func(tokenType TokenType) bool) ([]byte, error) {
	value := []byte{p.previousToken.Value}

	rest, err := p.CollectBytesWhileMatchesWith(f)
	if err != nil {
		return nil, err
	}

	return append(value, rest...), nil
}

// CollectBytesWhileMatchesWith collects token bytes while they match f.
func (p *Parser) CollectBytesWhileMatchesWith(f func(tokenType TokenType) bool) ([]byte, error) {
	var value []byte

	for {
		if ok, err := p.MatchesWith(f); err != nil {
			return nil, err
		} else if !ok {
			return value, nil
		}

		value = append(value, p.previousToken.Value)
	}
}

func (p *Parser) ResetOffsetCounter() {
	p.scanner.ResetOffsetCounter()
}

func (p *Parser) PreviousToken() Token {
	return p.previousToken
}

func (p *Parser) CurrentToken() Token {
	return p.currentToken
}

func (p *Parser) MakeError(err string) error {
	return &Error{Token: p.previousToken, Message: err}
}

func (p *Parser) MakeErrorAtOffset(err string, offset int) error {
	return &Error{Token: Token{TType: p.currentToken.TType, Offset: offset}, Message: err}
}

// IsAStringChar reports `ASTRING-CHAR = ATOM-CHAR / resp-specials`.
func IsAStringChar(tokenType TokenType) bool {
	return IsAtomChar(tokenType) || IsRespSpecial(tokenType)
}

// IsAtomChar reports any CHAR except atom-specials.
func IsAtomChar(tokenType TokenType) bool {
	switch tokenType { //nolint:exhaustive
	case TokenTypeLParen, TokenTypeRParen, TokenTypeLCurly, TokenTypeSP, TokenTypeEOF,
		TokenTypePercent, TokenTypeAsterisk, TokenTypeExtendedChar:
		return false
	}

	return !IsQuotedSpecial(tokenType) && !IsRespSpecial(tokenType) && !IsCTL(tokenType)
}

func IsQuotedSpecial(tokenType TokenType) bool {
	return tokenType == TokenTypeDQuote || tokenType == TokenTypeBackslash
}

func IsRespSpecial(tokenType TokenType) bool {
	return tokenType == TokenTypeRBracket
}

func IsQuotedChar(tokenType TokenType) bool {
	return !IsQuotedSpecial(tokenType) && !IsCTL(tokenType) && tokenType != TokenTypeEOF
}

func IsCTL(tokenType TokenType) bool {
	return tokenType == TokenTypeCTL || tokenType == TokenTypeCR || tokenType == TokenTypeLF
}
