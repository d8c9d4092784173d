// Package death is the single entry point for unit deaths.
package death

import (
	"fmt"
	"time"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/eidolon"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// Cascade resolves a death and its consequences.
//
// Sink and Visibility are optional; without both, state still changes and
// notifications are skipped.
type Cascade struct {
	MatchID    string
	Arena      *unit.Arena
	Eidolons   eidolon.Rules
	Sink       event.Sink
	Visibility event.Visibility
	Now        func() time.Time
}

// Outcome reports what a death changed.
type Outcome struct {
	VictimID string
	// AlreadyDead is set when the victim had been processed before.
	AlreadyDead bool
	// Eliminated lists summons removed because their summoner died.
	Eliminated []string
	// KillerGrowth is the killer's new growth when it is a bonded creature.
	KillerGrowth int
	Grew         bool
	Reset        bool
}

// Kill marks victim defeated. It is idempotent: a unit that is already dead
// is left untouched. Summons of the victim are eliminated one level deep.
func (c Cascade) Kill(victim, killer *unit.Unit) Outcome {
	out := Outcome{VictimID: victim.ID}
	if !victim.Alive {
		out.AlreadyDead = true
		return out
	}

	out.Reset = c.fall(victim, killer)

	if killer != nil && killer.Alive && killer.Eidolon && killer.ID != victim.ID {
		out.KillerGrowth = c.Eidolons.CreditKill(c.Arena, killer)
		out.Grew = true
		c.notify(event.Notification{
			Category: event.CategoryGrowth,
			Severity: event.SeverityInfo,
			ActorID:  killer.ID,
			TargetID: victim.ID,
			Message:  fmt.Sprintf("%s grows stronger (growth %d)", name(killer), out.KillerGrowth),
		}, killer)
	}

	for _, summon := range c.Arena.SummonsOf(victim.ID) {
		c.fall(summon, nil)
		out.Eliminated = append(out.Eliminated, summon.ID)
	}
	return out
}

// fall applies the not-alive and reset steps to a single unit and reports
// whether a bonded creature was reset.
func (c Cascade) fall(u, killer *unit.Unit) bool {
	u.Alive = false
	u.HP = 0
	u.ActionsLeft = 0
	u.MovesLeft = 0
	u.BonusAttacksLeft = 0

	n := event.Notification{
		Category: event.CategoryDeath,
		Severity: event.SeverityCritical,
		TargetID: u.ID,
		Message:  fmt.Sprintf("%s was defeated", name(u)),
	}
	if killer != nil {
		n.ActorID = killer.ID
		n.Message = fmt.Sprintf("%s was defeated by %s", name(u), name(killer))
	}
	c.notify(n, u)

	if !u.Eidolon {
		return false
	}
	c.Eidolons.Reset(u)
	return true
}

// notify scopes n to the subject's side, everyone who can see the subject,
// and the subject's owner.
func (c Cascade) notify(n event.Notification, subject *unit.Unit) {
	if c.Sink == nil || c.Visibility == nil {
		return
	}
	var side []string
	for _, u := range c.Arena.Units() {
		if u.Faction == subject.Faction {
			side = append(side, u.OwnerID)
		}
	}
	n.MatchID = c.MatchID
	n.Recipients = event.Recipients(side, c.Visibility.Observers(subject.Position), []string{subject.OwnerID})
	if c.Now != nil {
		n.OccurredAt = c.Now()
	}
	c.Sink.Emit(n)
}

func name(u *unit.Unit) string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}
