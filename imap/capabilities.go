package imap

import (
	"github.com/bradenaw/juniper/xslices"
	"golang.org/x/exp/slices"
)

type Capability string

const (
	IMAP4rev1 Capability = `IMAP4rev1`
	UNSELECT  Capability = `UNSELECT`
	UIDPLUS   Capability = `UIDPLUS`
)

// ServerCapabilities are advertised in the greeting and in reply to CAPABILITY.
func ServerCapabilities() []Capability {
	return []Capability{IMAP4rev1, UIDPLUS, UNSELECT}
}

// CapabilityStrings puts IMAP4rev1 first, as clients expect, followed by the others in lexical order.
func CapabilityStrings(caps []Capability) []string {
	rest := xslices.Map(
		xslices.Filter(caps, func(c Capability) bool { return c != IMAP4rev1 }),
		func(c Capability) string { return string(c) },
	)

	slices.Sort(rest)

	if slices.Contains(caps, IMAP4rev1) {
		return append([]string{string(IMAP4rev1)}, rest...)
	}

	return rest
}
