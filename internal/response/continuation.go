package response

type continuation struct{}

func Continuation() *continuation {
	return &continuation{}
}

func (r *continuation) Send(s Session) error {
	return s.WriteResponse(r)
}

func (r *continuation) String() string {
	return "+ Ready"
}
