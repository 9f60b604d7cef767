package command

import (
	"github.com/imapcore/imapcore/rfcparser"
)

type Capability struct{}

func (Capability) String() string {
	return "CAPABILITY"
}

func (l Capability) SanitizedString() string {
	return l.String()
}

type CapabilityCommandParser struct{}

func (CapabilityCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Capability{}, nil
}
