package command

import (
	"fmt"

	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/rfcparser"
)

// SeqNumValueAsterisk stands for `*`, the largest number in use.
const SeqNumValueAsterisk = SeqNum(0)

type SeqNum uint32

func (s SeqNum) IsAsterisk() bool {
	return s == SeqNumValueAsterisk
}

func (s SeqNum) String() string {
	if s.IsAsterisk() {
		return "*"
	}

	return fmt.Sprintf("%v", uint32(s))
}

func (s SeqNum) resolve(max imap.UID) imap.UID {
	if s.IsAsterisk() {
		return max
	}

	return imap.UID(s)
}

type SeqRange struct {
	Begin SeqNum
	End   SeqNum
}

func (s SeqRange) String() string {
	if s.Begin == s.End {
		return s.Begin.String()
	}

	return fmt.Sprintf("%v:%v", s.Begin.String(), s.End.String())
}

// ToUIDSet resolves `*` against the largest UID currently in the mailbox and normalizes the result.
func ToUIDSet(seqSet []SeqRange, max imap.UID) imap.UIDSet {
	ranges := make([]imap.UIDRange, 0, len(seqSet))

	for _, r := range seqSet {
		ranges = append(ranges, imap.UIDRange{Begin: r.Begin.resolve(max), End: r.End.resolve(max)})
	}

	return imap.NewUIDSet(ranges...)
}

func ParseNZNumber(p *rfcparser.Parser) (int, error) {
	num, err := p.ParseNumber()
	if err != nil {
		return 0, err
	}

	if num <= 0 {
		return 0, p.MakeError("expected non zero number")
	}

	return num, nil
}

func ParseSeqNumber(p *rfcparser.Parser) (SeqNum, error) {
	if ok, err := p.Matches(rfcparser.TokenTypeAsterisk); err != nil {
		return 0, err
	} else if ok {
		return SeqNumValueAsterisk, nil
	}

	num, err := ParseNZNumber(p)
	if err != nil {
		return 0, err
	}

	return SeqNum(num), nil
}

func ParseSeqRange(p *rfcparser.Parser) (SeqRange, error) {
	begin, err := ParseSeqNumber(p)
	if err != nil {
		return SeqRange{}, err
	}

	if ok, err := p.Matches(rfcparser.TokenTypeColon); err != nil {
		return SeqRange{}, err
	} else if !ok {
		return SeqRange{Begin: begin, End: begin}, nil
	}

	end, err := ParseSeqNumber(p)
	if err != nil {
		return SeqRange{}, err
	}

	return SeqRange{Begin: begin, End: end}, nil
}

// ParseSeqSet parses `sequence-set = (seq-number / seq-range) *("," sequence-set)`.
func ParseSeqSet(p *rfcparser.Parser) ([]SeqRange, error) {
	first, err := ParseSeqRange(p)
	if err != nil {
		return nil, err
	}

	result := []SeqRange{first}

	for {
		if ok, err := p.Matches(rfcparser.TokenTypeComma); err != nil {
			return nil, err
		} else if !ok {
			return result, nil
		}

		next, err := ParseSeqRange(p)
		if err != nil {
			return nil, err
		}

		result = append(result, next)
	}
}
