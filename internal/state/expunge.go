package state

import (
	"context"
	"fmt"

	"github.com/bradenaw/juniper/xslices"
	"github.com/imapcore/imapcore/imap"
	"github.com/imapcore/imapcore/imap/command"
	"github.com/imapcore/imapcore/internal/bus"
	"github.com/imapcore/imapcore/internal/metrics"
	"github.com/imapcore/imapcore/internal/response"
	"github.com/imapcore/imapcore/internal/store"
	"github.com/imapcore/imapcore/reporter"
)

type expungeRequest struct {
	command string

	// seqSet limits the removal to the given UIDs; nil removes every \Deleted message.
	seqSet []command.SeqRange

	// silent suppresses the EXPUNGE lines to the issuing session.
	silent bool
}

// Expunge permanently removes every message flagged \Deleted. The returned responses are the issuer's pending
// notifications followed by one EXPUNGE line per removed message. They are returned even if the removal failed
// part-way: lines already produced describe removals that did happen.
func (state *State) Expunge(ctx context.Context) ([]response.Response, []imap.UID, error) {
	return state.expunge(ctx, expungeRequest{command: "EXPUNGE"})
}

// UIDExpunge is Expunge restricted to the given UIDs. `*` is resolved against the largest UID in the mailbox at the
// time of removal.
func (state *State) UIDExpunge(ctx context.Context, seqSet []command.SeqRange) ([]response.Response, []imap.UID, error) {
	return state.expunge(ctx, expungeRequest{command: "UID EXPUNGE", seqSet: seqSet})
}

func (state *State) expunge(ctx context.Context, req expungeRequest) ([]response.Response, []imap.UID, error) {
	if state.sel == nil {
		return nil, nil, ErrSessionNotSelected
	}

	if state.sel.ro {
		return nil, nil, ErrReadOnly
	}

	sel := state.sel

	var (
		res     []response.Response
		removed []store.Entry
	)

	err := sel.mbox.Write(ctx, func(tx *store.WriteTx) error {
		res = append(res, state.applyEvents(sel.sub.Drain())...)

		var uids imap.UIDSet

		if req.seqSet != nil {
			uids = command.ToUIDSet(req.seqSet, tx.MaxUID())
		}

		eligible := xslices.Filter(tx.Snapshot(), func(entry store.Entry) bool {
			if !entry.Flags.ContainsUnchecked(imap.FlagDeletedLowerCase) {
				return false
			}

			return req.seqSet == nil || uids.Contains(entry.UID)
		})

		for _, entry := range eligible {
			seq, ok := sel.view.CurrentSequenceOf(entry.UID)
			if !ok {
				return fmt.Errorf("message %v missing from session view", entry.UID)
			}

			if _, err := tx.Remove(entry.UID); err != nil {
				return err
			}

			if !req.silent {
				res = append(res, response.Expunge(seq))
			}

			sel.view.remove(entry.UID)

			sel.mbox.Bus().Publish(sel.sub.ID(), bus.Removal{UID: entry.UID, Seq: seq, Source: sel.sub.ID()})

			removed = append(removed, entry)
		}

		return nil
	})

	if len(removed) > 0 {
		metrics.MessagesExpunged.WithLabelValues(req.command).Add(float64(len(removed)))

		state.deleteContent(removed)
	}

	removedUIDs := xslices.Map(removed, func(entry store.Entry) imap.UID {
		return entry.UID
	})

	if err != nil {
		state.log.WithError(err).WithField("removed", len(removed)).Error("Failed to expunge messages")

		reporter.MessageWithContext(ctx, "Failed to expunge messages", reporter.Context{
			"error":   err,
			"command": req.command,
			"removed": len(removed),
		})

		return res, removedUIDs, err
	}

	state.log.WithField("command", req.command).WithField("removed", len(removed)).Debug("Expunged messages")

	return res, removedUIDs, nil
}

func (state *State) deleteContent(removed []store.Entry) {
	if state.content == nil {
		return
	}

	ids := xslices.Map(removed, func(entry store.Entry) imap.InternalMessageID {
		return entry.ContentID
	})

	if err := state.content.Delete(ids...); err != nil {
		state.log.WithError(err).Error("Failed to delete content of expunged messages")
	}
}
