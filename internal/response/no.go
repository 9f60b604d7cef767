package response

import "fmt"

type no struct {
	tag   string
	err   error
	items []Item
}

func No(withTag ...string) *no {
	return &no{tag: tagOrUntagged(withTag)}
}

func (r *no) WithItems(items ...Item) *no {
	r.items = append(r.items, items...)
	return r
}

func (r *no) WithError(err error) *no {
	r.err = err
	return r
}

func (r *no) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *no) String() string {
	parts := []string{r.tag, "NO"}

	if len(r.items) > 0 {
		parts = append(parts, fmt.Sprintf("[%v]", join(itemStrings(r.items))))
	}

	if r.err != nil {
		parts = append(parts, r.err.Error())
	}

	return join(parts)
}

func (r *no) Error() string {
	if r.err == nil {
		return "NO"
	}

	return r.err.Error()
}

func (r *no) Unwrap() error {
	return r.err
}
