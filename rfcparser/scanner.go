package rfcparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

type TokenType int

const (
	TokenTypeEOF TokenType = iota
	TokenTypeSP
	TokenTypeDQuote
	TokenTypePercent
	TokenTypeLParen
	TokenTypeRParen
	TokenTypeAsterisk
	TokenTypePlus
	TokenTypeComma
	TokenTypeColon
	TokenTypeLBracket
	TokenTypeRBracket
	TokenTypeLCurly
	TokenTypeRCurly
	TokenTypeBackslash
	TokenTypeDigit
	TokenTypeChar
	TokenTypeOther
	TokenTypeExtendedChar
	TokenTypeCR
	TokenTypeLF
	TokenTypeCTL
)

// specials maps the punctuation the IMAP grammar cares about. Any other printable byte scans as TokenTypeOther.
var specials = map[byte]TokenType{
	' ':  TokenTypeSP,
	'"':  TokenTypeDQuote,
	'%':  TokenTypePercent,
	'(':  TokenTypeLParen,
	')':  TokenTypeRParen,
	'*':  TokenTypeAsterisk,
	'+':  TokenTypePlus,
	',':  TokenTypeComma,
	':':  TokenTypeColon,
	'[':  TokenTypeLBracket,
	']':  TokenTypeRBracket,
	'{':  TokenTypeLCurly,
	'}':  TokenTypeRCurly,
	'\\': TokenTypeBackslash,
	'\r': TokenTypeCR,
	'\n': TokenTypeLF,
}

type Token struct {
	TType  TokenType
	Value  byte
	Offset int
}

type Reader interface {
	io.Reader
	io.ByteReader
}

type Scanner struct {
	source      Reader
	currentByte byte
	offset      int
}

func NewScanner(source io.Reader) *Scanner {
	return &Scanner{source: bufio.NewReader(source)}
}

func NewScannerWithReader(source Reader) *Scanner {
	return &Scanner{source: source}
}

// ConsumeBytes fills dst with raw bytes, starting with the byte of the token last scanned.
func (s *Scanner) ConsumeBytes(dst []byte) error {
	if len(dst) == 0 {
		return nil
	}

	dst[0] = s.currentByte

	if _, err := io.ReadFull(s.source, dst[1:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return io.EOF
		}

		return err
	}

	s.offset += len(dst) - 1

	return nil
}

func (s *Scanner) ScanToken() (Token, error) {
	b, err := s.source.ReadByte()
	if errors.Is(err, io.EOF) {
		return Token{TType: TokenTypeEOF, Offset: s.offset}, nil
	} else if err != nil {
		return Token{}, err
	}

	s.currentByte = b
	s.offset++

	return Token{TType: classify(b), Value: b, Offset: s.offset}, nil
}

func (s *Scanner) ResetOffsetCounter() {
	s.offset = 0
}

func classify(b byte) TokenType {
	if tt, ok := specials[b]; ok {
		return tt
	}

	switch {
	case b >= '0' && b <= '9':
		return TokenTypeDigit

	case (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z'):
		return TokenTypeChar

	case b >= 128:
		return TokenTypeExtendedChar

	case b <= 31 || b == 127:
		return TokenTypeCTL

	default:
		return TokenTypeOther
	}
}

func ByteToLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}

	return b
}

func ByteToInt(b byte) int {
	return int(b - '0')
}

func (t Token) String() string {
	return fmt.Sprintf("%q@%v", t.Value, t.Offset)
}
