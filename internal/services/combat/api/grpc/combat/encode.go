package combat

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/ability"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/condition"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/stats"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/unit"
	"github.com/louisbranch/skirmish/internal/services/combat/match"
	"github.com/louisbranch/skirmish/internal/services/combat/storage"
)

func invalidMatch(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return apperrors.WithMetadata(apperrors.CodeMatchInvalid, msg, map[string]string{"Reason": msg})
}

func decodeMatchConfig(f fields) (match.Config, error) {
	var cfg match.Config
	var err error
	if cfg.ID, err = f.str("match_id"); err != nil {
		return cfg, invalidMatch("%v", err)
	}
	if cfg.Ranked, err = f.boolean("ranked"); err != nil {
		return cfg, invalidMatch("%v", err)
	}
	if cfg.Width, err = f.smallInt("width"); err != nil {
		return cfg, invalidMatch("%v", err)
	}
	if cfg.Height, err = f.smallInt("height"); err != nil {
		return cfg, invalidMatch("%v", err)
	}
	if f.has("seed") {
		seed, err := f.int64Value("seed")
		if err != nil {
			return cfg, apperrors.WithMetadata(apperrors.CodeSeedOutOfRange, err.Error(),
				map[string]string{"Reason": err.Error()})
		}
		cfg.Seed = &seed
	}

	units, err := f.objects("units")
	if err != nil {
		return cfg, invalidMatch("%v", err)
	}
	for i, uf := range units {
		spec, err := decodeUnit(uf)
		if err != nil {
			return cfg, invalidMatch("units[%d]: %v", i, err)
		}
		cfg.Units = append(cfg.Units, spec)
	}

	obstacles, err := f.objects("obstacles")
	if err != nil {
		return cfg, invalidMatch("%v", err)
	}
	for i, of := range obstacles {
		obstacle, err := decodeObstacle(of)
		if err != nil {
			return cfg, invalidMatch("obstacles[%d]: %v", i, err)
		}
		cfg.Obstacles = append(cfg.Obstacles, obstacle)
	}
	return cfg, nil
}

func decodePoint(f fields) (grid.Point, error) {
	x, err := f.smallInt("x")
	if err != nil {
		return grid.Point{}, err
	}
	y, err := f.smallInt("y")
	if err != nil {
		return grid.Point{}, err
	}
	return grid.Point{X: x, Y: y}, nil
}

func decodeAttributes(f fields) (stats.Attributes, error) {
	var a stats.Attributes
	targets := []struct {
		key string
		dst *int
	}{
		{"combat", &a.Combat}, {"speed", &a.Speed}, {"focus", &a.Focus},
		{"resistance", &a.Resistance}, {"will", &a.Will}, {"vitality", &a.Vitality},
	}
	for _, t := range targets {
		v, err := f.smallInt(t.key)
		if err != nil {
			return a, err
		}
		*t.dst = v
	}
	return a, nil
}

func decodeUnit(f fields) (unit.Spec, error) {
	var spec unit.Spec
	var err error
	if spec.ID, err = f.required("id"); err != nil {
		return spec, err
	}
	if spec.OwnerID, err = f.str("owner_id"); err != nil {
		return spec, err
	}
	if spec.Faction, err = f.required("faction"); err != nil {
		return spec, err
	}
	if spec.Name, err = f.str("name"); err != nil {
		return spec, err
	}
	if spec.SummonerID, err = f.str("summoner_id"); err != nil {
		return spec, err
	}
	if spec.Eidolon, err = f.boolean("eidolon"); err != nil {
		return spec, err
	}
	if spec.Position, err = decodePoint(f); err != nil {
		return spec, err
	}
	attrs, err := f.object("attributes")
	if err != nil {
		return spec, err
	}
	if spec.Attributes, err = decodeAttributes(attrs); err != nil {
		return spec, err
	}
	if f.has("size") {
		raw, err := f.str("size")
		if err != nil {
			return spec, err
		}
		size, err := stats.ParseSize(raw)
		if err != nil {
			return spec, err
		}
		spec.Size = &size
	}

	abilities, err := f.stringSlice("abilities")
	if err != nil {
		return spec, err
	}
	for _, name := range abilities {
		code, err := catalog.ParseCode(name)
		if err != nil {
			return spec, err
		}
		spec.Abilities = append(spec.Abilities, code)
	}
	conditions, err := f.stringSlice("conditions")
	if err != nil {
		return spec, err
	}
	for _, name := range conditions {
		id, err := condition.ParseID(name)
		if err != nil {
			return spec, err
		}
		spec.Conditions = append(spec.Conditions, id)
	}
	return spec, nil
}

func decodeObstacle(f fields) (unit.Obstacle, error) {
	var o unit.Obstacle
	var err error
	if o.ID, err = f.required("id"); err != nil {
		return o, err
	}
	if o.Position, err = decodePoint(f); err != nil {
		return o, err
	}
	if o.HP, err = f.smallInt("hp"); err != nil {
		return o, err
	}
	if o.HP <= 0 {
		return o, fmt.Errorf("hp must be positive")
	}
	raw, err := f.str("size")
	if err != nil {
		return o, err
	}
	if o.Size, err = stats.ParseSize(raw); err != nil {
		return o, err
	}
	return o, nil
}

func encodePoint(p grid.Point) map[string]any {
	return map[string]any{"x": p.X, "y": p.Y}
}

func encodeResult(res ability.Result) map[string]any {
	out := map[string]any{
		"success":               res.Success,
		"ability":               res.Ability.String(),
		"caster_id":             res.CasterID,
		"damage":                res.Damage,
		"healing":               res.Healing,
		"damage_by_unit":        intMap(res.DamageByUnit),
		"target_ids":            stringList(res.TargetIDs),
		"obstacle_ids":          stringList(res.ObstacleIDs),
		"destroyed_obstacles":   stringList(res.DestroyedObstacles),
		"defeated":              stringList(res.Defeated),
		"eliminated":            stringList(res.Eliminated),
		"dodged":                stringList(res.Dodged),
		"final_damage":          res.FinalDamage,
		"target_hp_after":       res.TargetHPAfter,
		"target_defeated":       res.TargetDefeated,
		"corpse_removed":        res.CorpseRemoved,
		"actions_consumed":      res.ActionsConsumed,
		"mana_spent":            res.ManaSpent,
		"bonus_attacks_granted": res.BonusAttacksGranted,
		"cooldown_applied":      res.CooldownApplied,
		"cooldown_remaining":    res.CooldownRemaining,
		"actions_left":          res.ActionsLeft,
		"transferred":           res.Transferred,
		"intercepted":           res.Intercepted,
	}
	if !res.Success {
		out["error"] = res.Error
		out["error_code"] = string(res.ErrorCode)
		out["error_kind"] = string(res.ErrorKind)
	}
	if res.InterceptedBy != "" {
		out["intercepted_by"] = res.InterceptedBy
	}
	if res.SummonedID != "" {
		out["summoned_id"] = res.SummonedID
	}
	if res.Impact != nil {
		out["impact"] = encodePoint(*res.Impact)
	}
	if len(res.Moved) > 0 {
		moved := make(map[string]any, len(res.Moved))
		for id, p := range res.Moved {
			moved[id] = encodePoint(p)
		}
		out["moved"] = moved
	}
	if len(res.Cells) > 0 {
		cells := make([]any, 0, len(res.Cells))
		for _, c := range res.Cells {
			cells = append(cells, encodePoint(c))
		}
		out["cells"] = cells
	}
	return out
}

func encodeCooldowns(cd match.Cooldowns) map[string]any {
	ready := append([]string(nil), cd.Ready...)
	sort.Strings(ready)
	return map[string]any{
		"unit_id":   cd.UnitID,
		"cooldowns": intMap(cd.Remaining),
		"ready":     stringList(ready),
	}
}

func encodeUnit(u match.UnitState) map[string]any {
	out := map[string]any{
		"id":                 u.ID,
		"owner_id":           u.OwnerID,
		"faction":            u.Faction,
		"name":               u.Name,
		"hp":                 u.HP,
		"max_hp":             u.MaxHP,
		"mana":               u.Mana,
		"max_mana":           u.MaxMana,
		"physical":           u.Physical,
		"magical":            u.Magical,
		"x":                  u.Position.X,
		"y":                  u.Position.Y,
		"size":               u.Size,
		"alive":              u.Alive,
		"removed":            u.Removed,
		"actions_left":       u.ActionsLeft,
		"moves_left":         u.MovesLeft,
		"bonus_attacks_left": u.BonusAttacksLeft,
		"conditions":         stringList(u.Conditions),
		"eidolon":            u.Eidolon,
	}
	if u.SummonerID != "" {
		out["summoner_id"] = u.SummonerID
	}
	if u.Eidolon {
		out["growth"] = u.Growth
	}
	return out
}

func encodeEvent(evt storage.EventRecord) map[string]any {
	return map[string]any{
		"seq":         fmt.Sprint(evt.Seq),
		"category":    evt.Category,
		"severity":    evt.Severity,
		"actor_id":    evt.ActorID,
		"target_id":   evt.TargetID,
		"message":     evt.Message,
		"recipients":  stringList(evt.Recipients),
		"occurred_at": evt.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}
