package command

import (
	"fmt"

	"github.com/imapcore/imapcore/rfcparser"
)

type Builder interface {
	FromParser(p *rfcparser.Parser) (Payload, error)
}

// Parser parses IMAP commands.
type Parser struct {
	parser   *rfcparser.Parser
	commands map[string]Builder
	lastTag  string
	lastCmd  string
}

func NewParser(s *rfcparser.Scanner) *Parser {
	return NewParserWithLiteralContinuationCb(s, nil)
}

func NewParserWithLiteralContinuationCb(s *rfcparser.Scanner, cb func() error) *Parser {
	return &Parser{
		parser: rfcparser.NewParserWithLiteralContinuationCb(s, cb),
		commands: map[string]Builder{
			"capability": &CapabilityCommandParser{},
			"noop":       &NoopCommandParser{},
			"check":      &CheckCommandParser{},
			"logout":     &LogoutCommandParser{},
			"login":      &LoginCommandParser{},
			"select":     &SelectCommandParser{},
			"examine":    &ExamineCommandParser{},
			"unselect":   &UnselectCommandParser{},
			"close":      &CloseCommandParser{},
			"expunge":    &ExpungeCommandParser{},
			"uid":        &UIDCommandParser{},
		},
	}
}

func (p *Parser) LastParsedTag() string {
	return p.lastTag
}

func (p *Parser) LastParsedCommand() string {
	return p.lastCmd
}

// Parse parses exactly one tagged command line, CRLF included.
func (p *Parser) Parse() (Command, error) {
	p.lastTag = ""
	p.lastCmd = ""
	p.parser.ResetOffsetCounter()

	if err := p.parser.Advance(); err != nil {
		return Command{}, err
	}

	tag, err := p.parseTag()
	if err != nil {
		return Command{}, err
	}

	p.lastTag = tag

	if err := p.parser.Consume(rfcparser.TokenTypeSP, "expected space after tag"); err != nil {
		return Command{}, err
	}

	payload, err := p.parseCommand()
	if err != nil {
		return Command{}, err
	}

	if err := p.parser.ConsumeNewLine(); err != nil {
		return Command{}, err
	}

	return Command{Tag: tag, Payload: payload}, nil
}

func (p *Parser) parseCommand() (Payload, error) {
	name, err := parseCommandName(p.parser)
	if err != nil {
		return nil, err
	}

	p.lastCmd = name

	builder, ok := p.commands[name]
	if !ok {
		return nil, p.parser.MakeError(fmt.Sprintf("unknown command '%v'", name))
	}

	return builder.FromParser(p.parser)
}

func (p *Parser) parseTag() (string, error) {
	// tag             = 1*<any ASTRING-CHAR except "+">
	isTagChar := func(tt rfcparser.TokenType) bool {
		return rfcparser.IsAStringChar(tt) && tt != rfcparser.TokenTypePlus
	}

	if err := p.parser.ConsumeWith(isTagChar, "invalid tag char detected"); err != nil {
		return "", err
	}

	tag, err := p.parser.CollectBytesWhileMatchesWithPrevWith(isTagChar)
	if err != nil {
		return "", err
	}

	return string(tag), nil
}

func parseCommandName(p *rfcparser.Parser) (string, error) {
	var name []byte

	for {
		if ok, err := p.Matches(rfcparser.TokenTypeChar); err != nil {
			return "", err
		} else if !ok {
			return string(name), nil
		}

		name = append(name, rfcparser.ByteToLower(p.PreviousToken().Value))
	}
}
