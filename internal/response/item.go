package response

import (
	"fmt"

	"github.com/imapcore/imapcore/imap"
)

type itemUIDValidity struct {
	uidValidity imap.UID
}

func ItemUIDValidity(uidValidity imap.UID) *itemUIDValidity {
	return &itemUIDValidity{uidValidity: uidValidity}
}

func (c *itemUIDValidity) String() string {
	return fmt.Sprintf("UIDVALIDITY %v", c.uidValidity)
}

type itemUIDNext struct {
	uid imap.UID
}

func ItemUIDNext(n imap.UID) *itemUIDNext {
	return &itemUIDNext{uid: n}
}

func (c *itemUIDNext) String() string {
	return fmt.Sprintf("UIDNEXT %v", c.uid)
}

type itemReadWrite struct{}

func ItemReadWrite() *itemReadWrite {
	return &itemReadWrite{}
}

func (c *itemReadWrite) String() string {
	return "READ-WRITE"
}

type itemReadOnly struct{}

func ItemReadOnly() *itemReadOnly {
	return &itemReadOnly{}
}

func (c *itemReadOnly) String() string {
	return "READ-ONLY"
}

type itemPermanentFlags struct {
	flags imap.FlagSet
}

func ItemPermanentFlags(flags imap.FlagSet) *itemPermanentFlags {
	return &itemPermanentFlags{flags: flags}
}

func (c *itemPermanentFlags) String() string {
	return fmt.Sprintf("PERMANENTFLAGS (%v)", c.flags)
}

type itemCapability struct {
	caps []imap.Capability
}

func ItemCapability(caps ...imap.Capability) *itemCapability {
	return &itemCapability{caps: caps}
}

func (c *itemCapability) String() string {
	return fmt.Sprintf("CAPABILITY %v", join(imap.CapabilityStrings(c.caps)))
}

type itemFlags struct {
	flags imap.FlagSet
}

func ItemFlags(flags imap.FlagSet) *itemFlags {
	return &itemFlags{flags: flags}
}

func (c *itemFlags) String() string {
	return fmt.Sprintf("FLAGS (%v)", c.flags)
}

type itemUID struct {
	uid imap.UID
}

func ItemUID(uid imap.UID) *itemUID {
	return &itemUID{uid: uid}
}

func (c *itemUID) String() string {
	return fmt.Sprintf("UID %v", c.uid)
}
