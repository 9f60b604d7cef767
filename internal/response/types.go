// Package response implements the responses sent back to IMAP clients.
package response

import "strings"

type Response interface {
	Send(Session) error
	String() string
}

type Session interface {
	WriteResponse(Response) error
}

type Item interface {
	String() string
}

func join(items []string, withDel ...string) string {
	del := " "

	if len(withDel) > 0 {
		del = withDel[0]
	}

	return strings.Join(items, del)
}

func tagOrUntagged(withTag []string) string {
	if len(withTag) > 0 {
		return withTag[0]
	}

	return "*"
}

func itemStrings(items []Item) []string {
	res := make([]string, 0, len(items))

	for _, item := range items {
		res = append(res, item.String())
	}

	return res
}
