package command

import (
	"fmt"

	"github.com/imapcore/imapcore/rfcparser"
)

type Select struct {
	Mailbox string
}

func (l Select) String() string {
	return fmt.Sprintf("SELECT '%v'", l.Mailbox)
}

func (l Select) SanitizedString() string {
	return fmt.Sprintf("SELECT '%v'", sanitizeString(l.Mailbox))
}

type SelectCommandParser struct{}

func (SelectCommandParser) FromParser(p *rfcparser.Parser) (Payload, error) {
	// select          = "SELECT" SP mailbox
	mailbox, err := parseMailboxArgument(p)
	if err != nil {
		return nil, err
	}

	return &Select{Mailbox: mailbox}, nil
}

type Examine struct {
	Mailbox string
}

func (l Examine) String() string {
	return fmt.Sprintf("EXAMINE '%v'", l.Mailbox)
}

func (l Examine) SanitizedString() string {
	return fmt.Sprintf("EXAMINE '%v'", sanitizeString(l.Mailbox))
}

type ExamineCommandParser struct{}

func (ExamineCommandParser) FromParser(p *rfcparser.Parser) (Payload, error) {
	// examine         = "EXAMINE" SP mailbox
	mailbox, err := parseMailboxArgument(p)
	if err != nil {
		return nil, err
	}

	return &Examine{Mailbox: mailbox}, nil
}

type Unselect struct{}

func (Unselect) String() string {
	return "UNSELECT"
}

func (l Unselect) SanitizedString() string {
	return l.String()
}

type UnselectCommandParser struct{}

func (UnselectCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Unselect{}, nil
}

type Close struct{}

func (Close) String() string {
	return "CLOSE"
}

func (l Close) SanitizedString() string {
	return l.String()
}

type CloseCommandParser struct{}

func (CloseCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Close{}, nil
}

func parseMailboxArgument(p *rfcparser.Parser) (string, error) {
	if err := p.Consume(rfcparser.TokenTypeSP, "expected space after command"); err != nil {
		return "", err
	}

	return p.ParseMailbox()
}
