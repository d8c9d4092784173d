package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named list of steps loaded from a Lua script.
type Scenario struct {
	Name  string
	Steps []Step

	// load-time bookkeeping for ordering checks
	hasMatch bool
	opened   bool
	closed   bool
}

// Step is one scenario instruction.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs a Lua script that must return a Scenario.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenario runs Lua source that must return a Scenario.
func LoadScenario(name, source string) (*Scenario, error) {
	state := newState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func runChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if !scenario.hasMatch {
		return nil, fmt.Errorf("scenario %q declares no match", scenario.Name)
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "match", Function: scenarioMatch},
	{Name: "unit", Function: scenarioUnit},
	{Name: "obstacle", Function: scenarioObstacle},
	{Name: "open", Function: scenarioOpen},
	{Name: "begin_turn", Function: scenarioBeginTurn},
	{Name: "dispatch", Function: scenarioDispatch},
	{Name: "expect_unit", Function: scenarioExpectUnit},
	{Name: "expect_cooldown", Function: scenarioExpectCooldown},
	{Name: "expect_events", Function: scenarioExpectEvents},
	{Name: "close", Function: scenarioClose},
}

func scenarioMatch(state *lua.State) int {
	scenario := checkScenario(state)
	if scenario.hasMatch {
		lua.Errorf(state, "match is already declared")
		return 0
	}
	data := optionalTable(state, 2)
	scenario.hasMatch = true
	appendStep(scenario, "match", data)
	return 0
}

func scenarioUnit(state *lua.State) int {
	scenario := checkSetup(state, "unit")
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	requireString(state, data, "id", "unit id is required")
	requireString(state, data, "faction", "unit faction is required")
	appendStep(scenario, "unit", data)
	return 0
}

func scenarioObstacle(state *lua.State) int {
	scenario := checkSetup(state, "obstacle")
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	requireString(state, data, "id", "obstacle id is required")
	appendStep(scenario, "obstacle", data)
	return 0
}

func scenarioOpen(state *lua.State) int {
	scenario := checkSetup(state, "open")
	scenario.opened = true
	appendStep(scenario, "open", nil)
	return 0
}

func scenarioBeginTurn(state *lua.State) int {
	scenario := checkOpen(state, "begin_turn")
	unitID := lua.CheckString(state, 2)
	round := lua.CheckInteger(state, 3)
	appendStep(scenario, "begin_turn", map[string]any{"unit": unitID, "round": round})
	return 0
}

func scenarioDispatch(state *lua.State) int {
	scenario := checkOpen(state, "dispatch")
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	requireString(state, data, "caster", "dispatch caster is required")
	requireString(state, data, "ability", "dispatch ability is required")
	appendStep(scenario, "dispatch", data)
	return 0
}

func scenarioExpectUnit(state *lua.State) int {
	scenario := checkOpen(state, "expect_unit")
	unitID := lua.CheckString(state, 2)
	lua.CheckType(state, 3, lua.TypeTable)
	appendStep(scenario, "expect_unit", map[string]any{"unit": unitID, "expect": tableToMap(state, 3)})
	return 0
}

func scenarioExpectCooldown(state *lua.State) int {
	scenario := checkOpen(state, "expect_cooldown")
	unitID := lua.CheckString(state, 2)
	ability := lua.CheckString(state, 3)
	remaining := lua.CheckInteger(state, 4)
	appendStep(scenario, "expect_cooldown", map[string]any{"unit": unitID, "ability": ability, "remaining": remaining})
	return 0
}

func scenarioExpectEvents(state *lua.State) int {
	scenario := checkOpen(state, "expect_events")
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if _, ok := data["count"]; !ok {
		lua.Errorf(state, "expect_events count is required")
		return 0
	}
	appendStep(scenario, "expect_events", data)
	return 0
}

func scenarioClose(state *lua.State) int {
	scenario := checkOpen(state, "close")
	scenario.closed = true
	appendStep(scenario, "close", nil)
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

// checkSetup allows steps that shape the match before it opens.
func checkSetup(state *lua.State, kind string) *Scenario {
	scenario := checkScenario(state)
	if !scenario.hasMatch {
		lua.Errorf(state, "%s requires a match", kind)
	}
	if scenario.opened {
		lua.Errorf(state, "%s must come before open", kind)
	}
	return scenario
}

func checkOpen(state *lua.State, kind string) *Scenario {
	scenario := checkScenario(state)
	if !scenario.opened {
		lua.Errorf(state, "%s requires an open match", kind)
	}
	if scenario.closed {
		lua.Errorf(state, "%s after close", kind)
	}
	return scenario
}

func requireString(state *lua.State, data map[string]any, key, message string) {
	if value, ok := data[key].(string); !ok || strings.TrimSpace(value) == "" {
		lua.Errorf(state, "%s", message)
	}
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a slice for sequence tables (including the empty table)
// and a map otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if idx, ok := state.ToInteger(-2); ok && state.TypeOf(-2) == lua.TypeNumber && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 && math.Abs(value) < 1<<53 {
		return int(value)
	}
	return value
}
