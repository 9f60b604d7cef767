// Package liner reads complete IMAP command lines, literals included, from a client connection.
package liner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// rxLiteral matches a line that ends in a literal length indicator.
var rxLiteral = regexp.MustCompile(`\{(\d+)\}\r\n$`)

var ErrLiteralTooLarge = errors.New("literal exceeds maximum size")

type Liner struct {
	br             *bufio.Reader
	maxLiteralSize int
}

func New(r io.Reader, maxLiteralSize int) *Liner {
	return &Liner{br: bufio.NewReader(r), maxLiteralSize: maxLiteralSize}
}

// Read reads a full command line. When the line announces a literal, doContinuation is called before the literal
// bytes are read and appended inline; reading then continues until a line without a literal is found.
func (l *Liner) Read(doContinuation func() error) ([]byte, error) {
	line, err := l.br.ReadBytes('\n')
	if err != nil {
		return nil, err
	}

	for {
		length, ok, err := literalLength(line)
		if err != nil {
			return nil, err
		} else if !ok {
			return line, nil
		}

		if length > l.maxLiteralSize {
			return nil, fmt.Errorf("%w: %v bytes", ErrLiteralTooLarge, length)
		}

		if err := doContinuation(); err != nil {
			return nil, err
		}

		literal := make([]byte, length)

		if _, err := io.ReadFull(l.br, literal); err != nil {
			return nil, err
		}

		rest, err := l.br.ReadBytes('\n')
		if err != nil {
			return nil, err
		}

		line = append(append(line, literal...), rest...)
	}
}

func literalLength(line []byte) (int, bool, error) {
	match := rxLiteral.FindSubmatch(line)
	if match == nil {
		return 0, false, nil
	}

	length, err := strconv.Atoi(string(match[1]))
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrLiteralTooLarge, err)
	}

	return length, true, nil
}
