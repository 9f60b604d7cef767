package command

import (
	"github.com/imapcore/imapcore/rfcparser"
)

type Logout struct{}

func (Logout) String() string {
	return "LOGOUT"
}

func (l Logout) SanitizedString() string {
	return l.String()
}

type LogoutCommandParser struct{}

func (LogoutCommandParser) FromParser(*rfcparser.Parser) (Payload, error) {
	return &Logout{}, nil
}
