package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const eventPageSize = 200

type scenarioState struct {
	matchID   string
	match     map[string]any
	units     []any
	obstacles []any
}

// unitKeys are the unit fields forwarded to OpenMatch.
var unitKeys = []string{
	"id", "owner_id", "faction", "name", "summoner_id", "eidolon",
	"x", "y", "attributes", "size", "abilities", "conditions",
}

var obstacleKeys = []string{"id", "x", "y", "hp", "size"}

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "match":
		return r.runMatch(state, step.Args)
	case "unit":
		state.units = append(state.units, pick(step.Args, unitKeys))
		return nil
	case "obstacle":
		state.obstacles = append(state.obstacles, pick(step.Args, obstacleKeys))
		return nil
	case "open":
		return r.runOpen(ctx, state)
	case "begin_turn":
		return r.runBeginTurn(ctx, state, step.Args)
	case "dispatch":
		return r.runDispatch(ctx, state, step.Args)
	case "expect_unit":
		return r.runExpectUnit(ctx, state, step.Args)
	case "expect_cooldown":
		return r.runExpectCooldown(ctx, state, step.Args)
	case "expect_events":
		return r.runExpectEvents(ctx, state, step.Args)
	case "close":
		_, err := r.client.CloseMatch(ctx, mustStruct(map[string]any{"match_id": state.matchID}))
		return err
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runMatch(state *scenarioState, args map[string]any) error {
	state.match = map[string]any{}
	for key, value := range args {
		switch key {
		case "id":
			state.match["match_id"] = value
		case "width", "height", "seed", "ranked":
			state.match[key] = value
		default:
			return fmt.Errorf("unknown match field %q", key)
		}
	}
	return nil
}

func (r *Runner) runOpen(ctx context.Context, state *scenarioState) error {
	req := map[string]any{}
	for key, value := range state.match {
		req[key] = value
	}
	req["units"] = state.units
	req["obstacles"] = state.obstacles
	in, err := structpb.NewStruct(req)
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}
	out, err := r.client.OpenMatch(ctx, in)
	if err != nil {
		return err
	}
	state.matchID = out.GetFields()["match_id"].GetStringValue()
	r.logf("match %s open (seed %s)", state.matchID, out.GetFields()["seed"].GetStringValue())
	return nil
}

func (r *Runner) runBeginTurn(ctx context.Context, state *scenarioState, args map[string]any) error {
	_, err := r.client.BeginTurn(ctx, mustStruct(map[string]any{
		"match_id": state.matchID,
		"unit_id":  args["unit"],
		"round":    args["round"],
	}))
	return err
}

func (r *Runner) runDispatch(ctx context.Context, state *scenarioState, args map[string]any) error {
	req := map[string]any{
		"match_id":  state.matchID,
		"caster_id": args["caster"],
		"ability":   args["ability"],
	}
	if target, ok := args["target"]; ok {
		req["target_id"] = target
	}
	for _, key := range []string{"x", "y"} {
		if value, ok := args[key]; ok {
			req[key] = value
		}
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return fmt.Errorf("encode dispatch: %w", err)
	}
	out, err := r.client.Dispatch(ctx, in)
	if err != nil {
		return err
	}
	fields := out.GetFields()
	if fields["success"].GetBoolValue() {
		r.logf("%s used %s", args["caster"], args["ability"])
	} else {
		r.logf("%s failed %s: %s", args["caster"], args["ability"], fields["error_code"].GetStringValue())
	}
	expect, _ := args["expect"].(map[string]any)
	return r.checkFields(fmt.Sprintf("dispatch %v", args["ability"]), expect, out)
}

func (r *Runner) runExpectUnit(ctx context.Context, state *scenarioState, args map[string]any) error {
	out, err := r.client.GetUnit(ctx, mustStruct(map[string]any{
		"match_id": state.matchID,
		"unit_id":  args["unit"],
	}))
	if err != nil {
		return err
	}
	expect, _ := args["expect"].(map[string]any)
	return r.checkFields(fmt.Sprintf("unit %v", args["unit"]), expect, out)
}

func (r *Runner) runExpectCooldown(ctx context.Context, state *scenarioState, args map[string]any) error {
	out, err := r.client.GetCooldowns(ctx, mustStruct(map[string]any{
		"match_id": state.matchID,
		"unit_id":  args["unit"],
	}))
	if err != nil {
		return err
	}
	ability, _ := args["ability"].(string)
	want, _ := args["remaining"].(int)
	got := int(out.GetFields()["cooldowns"].GetStructValue().GetFields()[ability].GetNumberValue())
	if got != want {
		return r.assertions.Failf("unit %v cooldown %s = %d, want %d", args["unit"], ability, got, want)
	}
	return nil
}

func (r *Runner) runExpectEvents(ctx context.Context, state *scenarioState, args map[string]any) error {
	want, ok := args["count"].(int)
	if !ok {
		return fmt.Errorf("expect_events count must be an integer")
	}
	req := map[string]any{"match_id": state.matchID, "page_size": eventPageSize}
	if player, ok := args["player"]; ok {
		req["player_id"] = player
	}
	if filter, ok := args["filter"]; ok {
		req["filter"] = filter
	}

	got := 0
	for {
		out, err := r.client.ListEvents(ctx, mustStruct(req))
		if err != nil {
			return err
		}
		got += len(out.GetFields()["events"].GetListValue().GetValues())
		token := out.GetFields()["next_page_token"].GetStringValue()
		if token == "" {
			break
		}
		req["page_token"] = token
	}
	if got != want {
		return r.assertions.Failf("events %v = %d, want %d", describeQuery(args), got, want)
	}
	return nil
}

// checkFields compares each expected key against the response field of the
// same name.
func (r *Runner) checkFields(subject string, expect map[string]any, got *structpb.Struct) error {
	keys := make([]string, 0, len(expect))
	for key := range expect {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := got.GetFields()
	for _, key := range keys {
		want, err := structpb.NewValue(expect[key])
		if err != nil {
			return fmt.Errorf("%s: encode expectation %s: %w", subject, key, err)
		}
		actual := fields[key]
		if actual == nil {
			actual = structpb.NewNullValue()
		}
		if !proto.Equal(want, actual) {
			if err := r.assertions.Failf("%s %s = %v, want %v", subject, key, actual.AsInterface(), want.AsInterface()); err != nil {
				return err
			}
		}
	}
	return nil
}

// pick copies the allowed keys. An empty Lua table reads as an empty list, so
// an empty attributes table is dropped rather than sent as a list.
func pick(args map[string]any, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		value, ok := args[key]
		if !ok {
			continue
		}
		if list, isList := value.([]any); isList && len(list) == 0 && key == "attributes" {
			continue
		}
		out[key] = value
	}
	return out
}

func describeQuery(args map[string]any) string {
	var parts []string
	if player, ok := args["player"]; ok {
		parts = append(parts, fmt.Sprintf("player=%v", player))
	}
	if filter, ok := args["filter"]; ok {
		parts = append(parts, fmt.Sprintf("filter=%q", filter))
	}
	if len(parts) == 0 {
		return "(all)"
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func mustStruct(values map[string]any) *structpb.Struct {
	s, err := structpb.NewStruct(values)
	if err != nil {
		panic(fmt.Sprintf("encode request: %v", err))
	}
	return s
}
