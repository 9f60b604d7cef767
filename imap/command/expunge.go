package command

import (
	"fmt"
	"strings"

	"github.com/bradenaw/juniper/xslices"

	"github.com/imapcore/imapcore/rfcparser"
)

type Expunge struct{}

func (Expunge) String() string {
	return "EXPUNGE"
}

func (l Expunge) SanitizedString() string {
	return l.String()
}

type ExpungeCommandParser struct{}

func (ExpungeCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Expunge{}, nil
}

type UIDExpunge struct {
	SeqSet []SeqRange
}

func (l UIDExpunge) String() string {
	return fmt.Sprintf("UID EXPUNGE %v", seqSetString(l.SeqSet))
}

func (l UIDExpunge) SanitizedString() string {
	return l.String()
}

type UIDCommandParser struct{}

func (UIDCommandParser) FromParser(p *rfcparser.Parser) (Payload, error) {
	// uid-expunge     = "UID" SP "EXPUNGE" SP sequence-set
	if err := p.Consume(rfcparser.TokenTypeSP, "expected space after command"); err != nil {
		return nil, err
	}

	offset := p.CurrentToken().Offset

	name, err := parseCommandName(p)
	if err != nil {
		return nil, err
	}

	if name != "expunge" {
		return nil, p.MakeErrorAtOffset(fmt.Sprintf("unknown uid command '%v'", name), offset)
	}

	if err := p.Consume(rfcparser.TokenTypeSP, "expected space after expunge"); err != nil {
		return nil, err
	}

	seqSet, err := ParseSeqSet(p)
	if err != nil {
		return nil, err
	}

	return &UIDExpunge{SeqSet: seqSet}, nil
}

func seqSetString(seqSet []SeqRange) string {
	return strings.Join(xslices.Map(seqSet, SeqRange.String), ",")
}
