package response

import (
	"fmt"

	"github.com/imapcore/imapcore/imap"
)

type flags struct {
	flags imap.FlagSet
}

func Flags() *flags {
	return &flags{flags: imap.NewFlagSet()}
}

func (r *flags) WithFlags(fs imap.FlagSet) *flags {
	r.flags = r.flags.Add(fs.ToSlice()...)
	return r
}

func (r *flags) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *flags) String() string {
	return fmt.Sprintf("* FLAGS (%v)", r.flags)
}
