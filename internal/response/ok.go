package response

import (
	"fmt"
)

type ok struct {
	tag   string
	msg   string
	items []Item
}

func Ok(withTag ...string) *ok {
	return &ok{tag: tagOrUntagged(withTag)}
}

func (r *ok) WithMessage(msg string) *ok {
	r.msg = msg
	return r
}

func (r *ok) WithItems(items ...Item) *ok {
	r.items = append(r.items, items...)
	return r
}

func (r *ok) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *ok) String() string {
	parts := []string{r.tag, "OK"}

	if len(r.items) > 0 {
		parts = append(parts, fmt.Sprintf("[%v]", join(itemStrings(r.items))))
	}

	if r.msg != "" {
		parts = append(parts, r.msg)
	}

	return join(parts)
}
