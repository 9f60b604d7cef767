package command

import (
	"github.com/imapcore/imapcore/rfcparser"
)

type Noop struct{}

func (Noop) String() string {
	return "NOOP"
}

func (l Noop) SanitizedString() string {
	return l.String()
}

type NoopCommandParser struct{}

func (NoopCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Noop{}, nil
}

type Check struct{}

func (Check) String() string {
	return "CHECK"
}

func (l Check) SanitizedString() string {
	return l.String()
}

type CheckCommandParser struct{}

func (CheckCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Check{}, nil
}
