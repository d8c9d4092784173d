// Package combat exposes the combat engine as a gRPC service with
// structpb messages.
package combat

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/skirmish/internal/platform/errors"
	"github.com/louisbranch/skirmish/internal/platform/grpc/pagination"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/ability"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/grid"
	"github.com/louisbranch/skirmish/internal/services/combat/match"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var eventPageConfig = pagination.PageSizeConfig{Default: match.DefaultEventPageSize, Max: 200}

// Service implements CombatServiceServer over a match manager.
type Service struct {
	matches *match.Manager
}

var _ CombatServiceServer = (*Service)(nil)

// NewService wires the service to a manager.
func NewService(matches *match.Manager) *Service {
	return &Service{matches: matches}
}

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func handleDomainError(ctx context.Context, err error) error {
	return apperrors.HandleError(err, apperrors.LocaleFromContext(ctx))
}

func respond(values map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(values)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// OpenMatch creates a match from units, obstacles, and arena dimensions.
func (s *Service) OpenMatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := decodeMatchConfig(fieldsOf(in))
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	matchID, err := s.matches.Open(ctx, cfg)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	m, err := s.matches.Get(matchID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(map[string]any{
		"match_id": matchID,
		"seed":     fmt.Sprint(m.Seed()),
		"ranked":   m.Ranked(),
	})
}

// Dispatch resolves one ability. Ability failures are successful RPCs whose
// result has success=false.
func (s *Service) Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(in)
	matchID, err := f.required("match_id")
	if err != nil {
		return nil, invalidArgument(err)
	}
	casterID, err := f.required("caster_id")
	if err != nil {
		return nil, invalidArgument(err)
	}
	name, err := f.required("ability")
	if err != nil {
		return nil, invalidArgument(err)
	}
	targetID, err := f.str("target_id")
	if err != nil {
		return nil, invalidArgument(err)
	}

	req := ability.Request{CasterID: casterID, TargetID: targetID}
	code, err := catalog.ParseCode(name)
	if err != nil {
		// Unknown names fall through to the dispatcher's lookup failure.
		code = catalog.Count
	}
	req.Ability = code

	if f.has("x") || f.has("y") {
		x, err := f.smallInt("x")
		if err != nil {
			return nil, invalidArgument(err)
		}
		y, err := f.smallInt("y")
		if err != nil {
			return nil, invalidArgument(err)
		}
		req.Position = &grid.Point{X: x, Y: y}
	}

	res, err := s.matches.Dispatch(ctx, matchID, req)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	out := encodeResult(res)
	if !code.Valid() {
		out["ability"] = name
	}
	if !res.Success && res.ErrorCode != "" {
		appErr := apperrors.WithMetadata(res.ErrorCode, res.Error, res.ErrorMetadata)
		out["message"] = appErr.Localize(apperrors.LocaleFromContext(ctx))
	}
	return respond(out)
}

// BeginTurn resets a unit's turn counters and ticks its cooldowns.
func (s *Service) BeginTurn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(in)
	matchID, unitID, err := matchAndUnit(f)
	if err != nil {
		return nil, invalidArgument(err)
	}
	round, err := f.smallInt("round")
	if err != nil {
		return nil, invalidArgument(err)
	}
	cd, err := s.matches.BeginTurn(ctx, matchID, unitID, round)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(encodeCooldowns(cd))
}

// GetCooldowns reports a unit's cooldowns.
func (s *Service) GetCooldowns(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	matchID, unitID, err := matchAndUnit(fieldsOf(in))
	if err != nil {
		return nil, invalidArgument(err)
	}
	cd, err := s.matches.GetCooldowns(ctx, matchID, unitID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(encodeCooldowns(cd))
}

// GetUnit returns a unit's current state.
func (s *Service) GetUnit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	matchID, unitID, err := matchAndUnit(fieldsOf(in))
	if err != nil {
		return nil, invalidArgument(err)
	}
	state, err := s.matches.GetUnit(ctx, matchID, unitID)
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(encodeUnit(state))
}

// ListEvents pages through the notification journal of a match.
func (s *Service) ListEvents(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	f := fieldsOf(in)
	matchID, err := f.required("match_id")
	if err != nil {
		return nil, invalidArgument(err)
	}
	playerID, err := f.str("player_id")
	if err != nil {
		return nil, invalidArgument(err)
	}
	filter, err := f.str("filter")
	if err != nil {
		return nil, invalidArgument(err)
	}
	size, err := f.smallInt("page_size")
	if err != nil {
		return nil, invalidArgument(err)
	}
	token, err := f.str("page_token")
	if err != nil {
		return nil, invalidArgument(err)
	}
	afterSeq, err := pagination.DecodeSeqToken(token)
	if err != nil {
		return nil, invalidArgument(err)
	}

	page, err := s.matches.ListEvents(ctx, match.ListEventsRequest{
		MatchID:  matchID,
		PlayerID: playerID,
		Filter:   filter,
		PageSize: pagination.ClampPageSize(int32(size), eventPageConfig),
		AfterSeq: afterSeq,
	})
	if err != nil {
		return nil, handleDomainError(ctx, err)
	}

	events := make([]any, 0, len(page.Events))
	for _, evt := range page.Events {
		events = append(events, encodeEvent(evt))
	}
	return respond(map[string]any{
		"events":          events,
		"next_page_token": pagination.EncodeSeqToken(page.NextAfterSeq),
	})
}

// CloseMatch ends a match and clears its growth state.
func (s *Service) CloseMatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	matchID, err := fieldsOf(in).required("match_id")
	if err != nil {
		return nil, invalidArgument(err)
	}
	if err := s.matches.Close(ctx, matchID); err != nil {
		return nil, handleDomainError(ctx, err)
	}
	return respond(map[string]any{})
}

func matchAndUnit(f fields) (string, string, error) {
	matchID, err := f.required("match_id")
	if err != nil {
		return "", "", err
	}
	unitID, err := f.required("unit_id")
	if err != nil {
		return "", "", err
	}
	return matchID, unitID, nil
}
