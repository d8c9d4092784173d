// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ability lookup errors
	CodeAbilityNotFound        Code = "ABILITY_NOT_FOUND"
	CodeAbilityExecutorMissing Code = "ABILITY_EXECUTOR_MISSING"
	CodeAbilityNotKnown        Code = "ABILITY_NOT_KNOWN"

	// Cooldown errors
	CodeAbilityOnCooldown Code = "ABILITY_ON_COOLDOWN"

	// Resource errors
	CodeNoActionsLeft    Code = "NO_ACTIONS_LEFT"
	CodeInsufficientMana Code = "INSUFFICIENT_MANA"

	// Validation errors
	CodeActionBlocked        Code = "ACTION_BLOCKED"
	CodeCasterDefeated       Code = "CASTER_DEFEATED"
	CodeTargetRequired       Code = "TARGET_REQUIRED"
	CodeTargetNotFound       Code = "TARGET_NOT_FOUND"
	CodeTargetOutOfRange     Code = "TARGET_OUT_OF_RANGE"
	CodeTargetInvalid        Code = "TARGET_INVALID"
	CodePositionInvalid      Code = "POSITION_INVALID"
	CodeNothingToTransfer    Code = "NOTHING_TO_TRANSFER"
	CodeEidolonAlreadyActive Code = "EIDOLON_ALREADY_ACTIVE"

	// Match errors
	CodeMatchNotFound      Code = "MATCH_NOT_FOUND"
	CodeMatchExists        Code = "MATCH_EXISTS"
	CodeMatchInvalid       Code = "MATCH_INVALID"
	CodeUnitNotFound       Code = "UNIT_NOT_FOUND"
	CodeTurnAlreadyTicked  Code = "TURN_ALREADY_TICKED"
	CodeEventFilterInvalid Code = "EVENT_FILTER_INVALID"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)

// Kind groups codes by how callers should treat the failure.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindResource      Kind = "resource"
	KindCooldown      Kind = "cooldown"
	KindConfiguration Kind = "configuration"
	KindInternal      Kind = "internal"
)

// Kind classifies the code into the failure taxonomy used by ability results.
func (c Code) Kind() Kind {
	switch c {
	case CodeAbilityNotFound, CodeAbilityExecutorMissing:
		return KindConfiguration
	case CodeAbilityOnCooldown:
		return KindCooldown
	case CodeNoActionsLeft, CodeInsufficientMana:
		return KindResource
	case CodeAbilityNotKnown,
		CodeActionBlocked,
		CodeCasterDefeated,
		CodeTargetRequired,
		CodeTargetNotFound,
		CodeTargetOutOfRange,
		CodeTargetInvalid,
		CodePositionInvalid,
		CodeNothingToTransfer,
		CodeEidolonAlreadyActive,
		CodeMatchInvalid,
		CodeEventFilterInvalid,
		CodeSeedOutOfRange:
		return KindValidation
	default:
		return KindInternal
	}
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeAbilityNotKnown,
		CodeTargetRequired,
		CodeTargetNotFound,
		CodeTargetOutOfRange,
		CodeTargetInvalid,
		CodePositionInvalid,
		CodeMatchInvalid,
		CodeEventFilterInvalid,
		CodeSeedOutOfRange:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeAbilityOnCooldown,
		CodeNoActionsLeft,
		CodeInsufficientMana,
		CodeActionBlocked,
		CodeCasterDefeated,
		CodeNothingToTransfer,
		CodeEidolonAlreadyActive,
		CodeTurnAlreadyTicked:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeMatchNotFound,
		CodeUnitNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeMatchExists:
		return codes.AlreadyExists

	// Configuration defects surface as internal errors.
	default:
		return codes.Internal
	}
}
