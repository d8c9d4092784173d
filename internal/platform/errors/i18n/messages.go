package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeAbilityNotFound        = "ABILITY_NOT_FOUND"
	CodeAbilityExecutorMissing = "ABILITY_EXECUTOR_MISSING"
	CodeAbilityNotKnown        = "ABILITY_NOT_KNOWN"
	CodeAbilityOnCooldown      = "ABILITY_ON_COOLDOWN"
	CodeNoActionsLeft          = "NO_ACTIONS_LEFT"
	CodeInsufficientMana       = "INSUFFICIENT_MANA"
	CodeActionBlocked          = "ACTION_BLOCKED"
	CodeCasterDefeated         = "CASTER_DEFEATED"
	CodeTargetRequired         = "TARGET_REQUIRED"
	CodeTargetNotFound         = "TARGET_NOT_FOUND"
	CodeTargetOutOfRange       = "TARGET_OUT_OF_RANGE"
	CodeTargetInvalid          = "TARGET_INVALID"
	CodePositionInvalid        = "POSITION_INVALID"
	CodeNothingToTransfer      = "NOTHING_TO_TRANSFER"
	CodeEidolonAlreadyActive   = "EIDOLON_ALREADY_ACTIVE"
	CodeMatchNotFound          = "MATCH_NOT_FOUND"
	CodeMatchExists            = "MATCH_EXISTS"
	CodeMatchInvalid           = "MATCH_INVALID"
	CodeUnitNotFound           = "UNIT_NOT_FOUND"
	CodeTurnAlreadyTicked      = "TURN_ALREADY_TICKED"
	CodeEventFilterInvalid     = "EVENT_FILTER_INVALID"
)

var enUSMessages = map[Code]string{
	CodeAbilityNotFound:        "This ability does not exist.",
	CodeAbilityExecutorMissing: "This ability is not available right now.",
	CodeAbilityNotKnown:        "{{.Caster}} does not know {{.Ability}}.",
	CodeAbilityOnCooldown:      "{{.Ability}} is on cooldown for {{.Remaining}} more round(s).",
	CodeNoActionsLeft:          "No actions left this turn.",
	CodeInsufficientMana:       "Not enough mana: {{.Required}} required, {{.Available}} available.",
	CodeActionBlocked:          "Cannot act while {{.Condition}}.",
	CodeCasterDefeated:         "A defeated unit cannot act.",
	CodeTargetRequired:         "Choose a target first.",
	CodeTargetNotFound:         "The target could not be found.",
	CodeTargetOutOfRange:       "The target is out of range.",
	CodeTargetInvalid:          "That target cannot be chosen for this ability.",
	CodePositionInvalid:        "That position cannot be used.",
	CodeNothingToTransfer:      "There is nothing to transfer.",
	CodeEidolonAlreadyActive:   "Your eidolon is already on the field.",
	CodeMatchNotFound:          "The match could not be found.",
	CodeMatchExists:            "A match with this id already exists.",
	CodeMatchInvalid:           "The match setup is invalid.",
	CodeUnitNotFound:           "The unit could not be found.",
	CodeTurnAlreadyTicked:      "This unit already started its turn this round.",
	CodeEventFilterInvalid:     "The event filter is invalid.",
}

var ptBRMessages = map[Code]string{
	CodeAbilityNotFound:        "Esta habilidade não existe.",
	CodeAbilityExecutorMissing: "Esta habilidade não está disponível agora.",
	CodeAbilityNotKnown:        "{{.Caster}} não conhece {{.Ability}}.",
	CodeAbilityOnCooldown:      "{{.Ability}} está em recarga por mais {{.Remaining}} rodada(s).",
	CodeNoActionsLeft:          "Nenhuma ação restante neste turno.",
	CodeInsufficientMana:       "Mana insuficiente: {{.Required}} necessária, {{.Available}} disponível.",
	CodeActionBlocked:          "Não é possível agir enquanto {{.Condition}}.",
	CodeCasterDefeated:         "Uma unidade derrotada não pode agir.",
	CodeTargetRequired:         "Escolha um alvo primeiro.",
	CodeTargetNotFound:         "O alvo não foi encontrado.",
	CodeTargetOutOfRange:       "O alvo está fora de alcance.",
	CodeTargetInvalid:          "Esse alvo não pode ser escolhido para esta habilidade.",
	CodePositionInvalid:        "Essa posição não pode ser usada.",
	CodeNothingToTransfer:      "Não há nada para transferir.",
	CodeEidolonAlreadyActive:   "Seu eidolon já está em campo.",
	CodeMatchNotFound:          "A partida não foi encontrada.",
	CodeUnitNotFound:           "A unidade não foi encontrada.",
	CodeTurnAlreadyTicked:      "Esta unidade já iniciou o turno nesta rodada.",
}
