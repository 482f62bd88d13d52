// Package mutation sequences bulk board mutations and pairs each one
// with a single reversing action, exposed through a notification.
package mutation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tierlab/tierboard/internal/board"
	"github.com/tierlab/tierboard/internal/models"
	"github.com/tierlab/tierboard/internal/notify"
)

// Kind identifies a bulk mutation
type Kind string

const (
	KindCreate    Kind = "create"
	KindReset     Kind = "reset"
	KindDeleteAll Kind = "delete_all"
)

// Owner is the board state the protocol drives. Implemented by
// board.Store.
type Owner interface {
	AddItems([]models.Item)
	RemoveByIDs([]string)
	ResetPlacements() board.PlacementSnapshot
	RestorePlacements(board.PlacementSnapshot)
	DeleteAll() board.Snapshot
	RestoreAll(board.Snapshot)
}

// command is the value-carrying record of one completed mutation.
// Its undo payload is everything needed to reverse the mutation
// through the Owner interface; no state is captured by closure.
type command struct {
	kind       Kind
	note       notify.Notification
	createdIDs []string
	placements board.PlacementSnapshot
	snapshot   board.Snapshot
}

// Protocol applies mutations to the owner and keeps each one's undo
// payload on a pending list until it is invoked or dismissed. Undo is
// single shot and has no timeout; pending undos from different
// triggers stay independently invocable.
type Protocol struct {
	mu      sync.Mutex
	owner   Owner
	bus     *notify.Bus
	pending map[string]*command
	order   []string
}

func New(owner Owner, bus *notify.Bus) *Protocol {
	return &Protocol{
		owner:   owner,
		bus:     bus,
		pending: make(map[string]*command),
	}
}

// Create appends items to the board. An empty input is a no-op on
// the board but still yields a zero-count notification. The undo
// removes exactly the ids of this batch, by id set, regardless of
// later edits to the items.
func (p *Protocol) Create(items []models.Item) notify.Notification {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	p.owner.AddItems(items)

	note := p.remember(&command{
		kind:       KindCreate,
		createdIDs: ids,
	}, "Items added", fmt.Sprintf("%d item(s) added to the board", len(items)))

	slog.Info("Items added to board", "count", len(items), "notification", note.ID)
	return note
}

// Reset clears every ranking, keeping the items. The undo restores
// the captured placement snapshot.
func (p *Protocol) Reset() notify.Notification {
	snap := p.owner.ResetPlacements()

	note := p.remember(&command{
		kind:       KindReset,
		placements: snap,
	}, "Rankings reset", fmt.Sprintf("%d placement(s) cleared", len(snap)))

	slog.Info("Board rankings reset", "placements", len(snap), "notification", note.ID)
	return note
}

// DeleteAll removes every item and ranking. The confirmed flag is
// the affirmative answer to the destructive-intent prompt; without
// it the call is a silent no-op and ok is false.
func (p *Protocol) DeleteAll(confirmed bool) (notify.Notification, bool) {
	if !confirmed {
		slog.Info("Delete all declined, nothing changed")
		return notify.Notification{}, false
	}

	snap := p.owner.DeleteAll()

	note := p.remember(&command{
		kind:     KindDeleteAll,
		snapshot: snap,
	}, "Board cleared", fmt.Sprintf("%d item(s) removed", len(snap.Items)))

	slog.Info("Board cleared", "items", len(snap.Items), "notification", note.ID)
	return note, true
}

// Undo reverses the pending mutation behind the given notification
// id. Each pending mutation can be undone at most once; an unknown
// or spent id is a no-op and returns false. Undoing does not spawn a
// redo.
func (p *Protocol) Undo(id string) bool {
	p.mu.Lock()
	cmd, ok := p.pending[id]
	if ok {
		p.forget(id)
	}
	p.mu.Unlock()
	if !ok {
		return false
	}

	switch cmd.kind {
	case KindCreate:
		p.owner.RemoveByIDs(cmd.createdIDs)
	case KindReset:
		p.owner.RestorePlacements(cmd.placements)
	case KindDeleteAll:
		p.owner.RestoreAll(cmd.snapshot)
	}

	slog.Info("Mutation undone", "kind", cmd.kind, "notification", id)
	return true
}

// Dismiss drops a pending undo without invoking it
func (p *Protocol) Dismiss(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[id]; !ok {
		return false
	}
	p.forget(id)
	return true
}

// Pending lists the notifications whose undo is still invocable, in
// trigger order.
func (p *Protocol) Pending() []notify.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()

	notes := make([]notify.Notification, 0, len(p.order))
	for _, id := range p.order {
		notes = append(notes, p.pending[id].note)
	}
	return notes
}

func (p *Protocol) remember(cmd *command, title, description string) notify.Notification {
	cmd.note = notify.Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
	}

	p.mu.Lock()
	p.pending[cmd.note.ID] = cmd
	p.order = append(p.order, cmd.note.ID)
	p.mu.Unlock()

	if p.bus != nil {
		p.bus.Publish(cmd.note)
	}
	return cmd.note
}

// forget must be called with the mutex held
func (p *Protocol) forget(id string) {
	delete(p.pending, id)
	for i, pid := range p.order {
		if pid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}
