package match

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/skirmish/internal/services/combat/domain/ability"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/event"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
)

// actionNotification describes a successful dispatch to the caster's side,
// the units it touched, and everyone who could see it happen.
func (m *Match) actionNotification(res ability.Result, at time.Time) (event.Notification, bool) {
	if !res.Success {
		return event.Notification{}, false
	}
	caster, ok := m.arena.Unit(res.CasterID)
	if !ok {
		return event.Notification{}, false
	}

	n := event.Notification{
		MatchID:    m.id,
		Category:   event.CategoryAbility,
		Severity:   event.SeverityInfo,
		ActorID:    caster.ID,
		OccurredAt: at,
	}
	if len(res.TargetIDs) > 0 {
		n.TargetID = res.TargetIDs[0]
	} else if len(res.ObstacleIDs) > 0 {
		n.TargetID = res.ObstacleIDs[0]
	}
	if len(res.Defeated) > 0 {
		n.Severity = event.SeverityWarning
	}

	if res.Ability == catalog.Attack {
		n.Category = event.CategoryAttack
		n.Message = m.attackMessage(caster, res)
	} else {
		n.Message = m.abilityMessage(caster, res)
	}

	var side, owners, seen []string
	for _, u := range m.arena.Units() {
		if u.Faction == caster.Faction {
			side = append(side, u.OwnerID)
		}
	}
	seen = append(seen, m.sight.Observers(caster.Position)...)
	for _, targetID := range res.TargetIDs {
		if u, ok := m.arena.Unit(targetID); ok {
			owners = append(owners, u.OwnerID)
			seen = append(seen, m.sight.Observers(u.Position)...)
		}
	}
	if res.Impact != nil {
		seen = append(seen, m.sight.Observers(*res.Impact)...)
	}
	n.Recipients = event.Recipients(side, owners, seen, []string{caster.OwnerID})
	return n, true
}

func (m *Match) attackMessage(caster *unit.Unit, res ability.Result) string {
	target := m.label(firstOf(res.TargetIDs, res.ObstacleIDs))
	var b strings.Builder
	switch {
	case len(res.Dodged) > 0:
		fmt.Fprintf(&b, "%s attacks %s, who dodges", m.label(caster.ID), target)
	default:
		fmt.Fprintf(&b, "%s attacks %s for %d damage", m.label(caster.ID), target, res.FinalDamage)
	}
	if res.InterceptedBy != "" {
		fmt.Fprintf(&b, " (intercepted by %s)", m.label(res.InterceptedBy))
	}
	if res.TargetDefeated {
		b.WriteString("; target defeated")
	}
	if res.CorpseRemoved {
		b.WriteString("; corpse cleared")
	}
	return b.String()
}

func (m *Match) abilityMessage(caster *unit.Unit, res ability.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s uses %s", m.label(caster.ID), res.Ability)
	if res.Impact != nil {
		fmt.Fprintf(&b, " at %s", *res.Impact)
	}
	var parts []string
	if res.Damage > 0 {
		parts = append(parts, fmt.Sprintf("%d damage", res.Damage))
	}
	if res.Healing > 0 {
		parts = append(parts, fmt.Sprintf("%d healing", res.Healing))
	}
	if res.Transferred > 0 {
		parts = append(parts, fmt.Sprintf("%d transferred", res.Transferred))
	}
	if res.SummonedID != "" {
		parts = append(parts, "summoned "+m.label(res.SummonedID))
	}
	if len(parts) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, ", "))
	}
	return b.String()
}

func (m *Match) label(id string) string {
	if u, ok := m.arena.Unit(id); ok && u.Name != "" {
		return u.Name
	}
	return id
}

func firstOf(lists ...[]string) string {
	for _, list := range lists {
		if len(list) > 0 {
			return list[0]
		}
	}
	return ""
}
