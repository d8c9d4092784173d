package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScenarioFixture(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.lua")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadScenarioFromFile(t *testing.T) {
	scenario, err := LoadScenarioFromFile(filepath.Join("testdata", "duel.lua"))
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "duel" {
		t.Fatalf("name = %q, want duel", scenario.Name)
	}
	if len(scenario.Steps) != 15 {
		t.Fatalf("steps = %d, want 15", len(scenario.Steps))
	}

	unit := scenario.Steps[1]
	if unit.Kind != "unit" {
		t.Fatalf("step kind = %q, want unit", unit.Kind)
	}
	attrs, ok := unit.Args["attributes"].(map[string]any)
	if !ok || attrs["combat"] != 4 {
		t.Fatalf("attributes = %v, want combat 4", unit.Args["attributes"])
	}
	abilities, ok := unit.Args["abilities"].([]any)
	if !ok || len(abilities) != 2 || abilities[1] != "dash" {
		t.Fatalf("abilities = %v, want [attack dash]", unit.Args["abilities"])
	}

	dispatch := scenario.Steps[5]
	expect, ok := dispatch.Args["expect"].(map[string]any)
	if !ok {
		t.Fatalf("expect = %T, want map", dispatch.Args["expect"])
	}
	if defeated, ok := expect["defeated"].([]any); !ok || len(defeated) != 0 {
		t.Fatalf("defeated = %v, want empty list", expect["defeated"])
	}
}

func TestLoadScenarioDefaultsNameToFile(t *testing.T) {
	path := writeScenarioFixture(t, `
local scene = Scenario.new()
scene:match({width = 4, height = 4})
return scene
`)
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "fixture" {
		t.Fatalf("name = %q, want fixture", scenario.Name)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "no return",
			source: `local scene = Scenario.new("x")`,
			want:   "must return Scenario",
		},
		{
			name:   "no match",
			source: `return Scenario.new("x")`,
			want:   "declares no match",
		},
		{
			name: "unit before match",
			source: `local scene = Scenario.new("x")
scene:unit({id = "a", faction = "red"})
return scene`,
			want: "unit requires a match",
		},
		{
			name: "unit after open",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:open()
scene:unit({id = "a", faction = "red"})
return scene`,
			want: "unit must come before open",
		},
		{
			name: "dispatch before open",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:dispatch({caster = "a", ability = "attack"})
return scene`,
			want: "dispatch requires an open match",
		},
		{
			name: "unit without faction",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:unit({id = "a"})
return scene`,
			want: "unit faction is required",
		},
		{
			name: "dispatch without ability",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:open()
scene:dispatch({caster = "a"})
return scene`,
			want: "dispatch ability is required",
		},
		{
			name: "events without count",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:open()
scene:expect_events({})
return scene`,
			want: "count is required",
		},
		{
			name: "step after close",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:open()
scene:close()
scene:begin_turn("a", 1)
return scene`,
			want: "begin_turn after close",
		},
		{
			name: "second match",
			source: `local scene = Scenario.new("x")
scene:match({width = 4, height = 4})
scene:match({width = 4, height = 4})
return scene`,
			want: "already declared",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario("inline", tt.source)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}
