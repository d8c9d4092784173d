package catalog

import "github.com/louisbranch/skirmish/internal/services/combat/domain/stats"

// Summon describes a creature an ability can bring into play.
type Summon struct {
	Name      string
	Base      stats.Attributes
	Abilities []Code
}

// Eidolon is the bonded creature created by SummonEidolon.
var Eidolon = Summon{
	Name:      "eidolon",
	Base:      stats.Attributes{Combat: 5, Speed: 5, Focus: 5, Resistance: 5, Will: 5, Vitality: 5},
	Abilities: []Code{Attack},
}
