package response

import (
	"fmt"

	"github.com/imapcore/imapcore/imap"
)

type capability struct {
	caps []imap.Capability
}

func Capability() *capability {
	return &capability{}
}

func (r *capability) WithCapabilities(caps ...imap.Capability) *capability {
	r.caps = append(r.caps, caps...)
	return r
}

func (r *capability) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *capability) String() string {
	return fmt.Sprintf("* CAPABILITY %v", join(imap.CapabilityStrings(r.caps)))
}
