package prompt

// Draft is the generator's working state: the current selection and the
// prompt text assembled from it.
type Draft struct {
	Selection Selection `json:"selection"`
	Prompt    string    `json:"prompt"`
}

// NewDraft returns a draft holding DefaultSelection.
func NewDraft() Draft {
	sel := DefaultSelection()
	return Draft{Selection: sel, Prompt: MustAssemble(sel)}
}

// ReadyToSend reports whether the draft passes the send guard.
func (d Draft) ReadyToSend() bool {
	return CheckSendable(d.Selection, d.Prompt) == nil
}

// Update is a single field change.
type Update struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Reduce applies u to d and reassembles the prompt from scratch. On error
// d is returned unchanged.
func Reduce(d Draft, u Update) (Draft, error) {
	sel, err := d.Selection.With(u.Field, u.Value)
	if err != nil {
		return d, err
	}
	out, err := Assemble(sel)
	if err != nil {
		return d, err
	}
	return Draft{Selection: sel, Prompt: out}, nil
}

// ReduceAll applies updates in order as one change. If any update fails,
// d is returned unchanged with that error.
func ReduceAll(d Draft, updates ...Update) (Draft, error) {
	cur := d
	for _, u := range updates {
		next, err := Reduce(cur, u)
		if err != nil {
			return d, err
		}
		cur = next
	}
	return cur, nil
}
