package response

import (
	"fmt"

	"github.com/imapcore/imapcore/imap"
)

type expunge struct {
	seq imap.SeqID
}

func Expunge(seq imap.SeqID) *expunge {
	return &expunge{seq: seq}
}

func (r *expunge) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *expunge) String() string {
	return fmt.Sprintf("* %v EXPUNGE", r.seq)
}
