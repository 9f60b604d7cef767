package response

type bad struct {
	tag string
	err error
}

func Bad(withTag ...string) *bad {
	return &bad{tag: tagOrUntagged(withTag)}
}

func (r *bad) WithError(err error) *bad {
	r.err = err
	return r
}

func (r *bad) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *bad) String() string {
	parts := []string{r.tag, "BAD"}

	if r.err != nil {
		parts = append(parts, r.err.Error())
	}

	return join(parts)
}

func (r *bad) Error() string {
	if r.err == nil {
		return "BAD"
	}

	return r.err.Error()
}

func (r *bad) Unwrap() error {
	return r.err
}
