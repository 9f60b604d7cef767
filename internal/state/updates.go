package state

import (
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/response"
)

// applyEvents brings the view up to date with the given events in publication order.
func (state *State) applyEvents(events []bus.Event) []response.Response {
	sel := state.sel

	var res []response.Response

	for _, event := range events {
		state.log.WithField("event", event).Trace("Applying event")

		switch event := event.(type) {
		case bus.Removal:
			if seq, ok := sel.view.remove(event.UID); ok {
				res = append(res, response.Expunge(seq))
			} else if event.Source == sel.sub.ID() {
				res = append(res, response.Expunge(event.Seq))
			}

		case bus.Flags:
			if seq, ok := sel.view.setFlags(event.UID, event.Flags); ok {
				res = append(res, response.Fetch(seq).WithItems(response.ItemFlags(event.Flags)))
			}

		case bus.Exists:
			if sel.view.append(event.UID, event.Flags) {
				res = append(res, response.Exists().WithCount(sel.view.Len()))
			}
		}
	}

	return response.Merge(res)
}
