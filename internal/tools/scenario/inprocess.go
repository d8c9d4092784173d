package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	combatv1 "github.com/louisbranch/skirmish/internal/services/combat/api/grpc/combat"
	"github.com/louisbranch/skirmish/internal/services/combat/domain/catalog"
	"github.com/louisbranch/skirmish/internal/services/combat/match"
	combatsqlite "github.com/louisbranch/skirmish/internal/services/combat/storage/sqlite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// inProcessConn routes client calls straight to a combat service, so the
// runner speaks the same API with or without a server.
type inProcessConn struct {
	srv combatv1.CombatServiceServer
}

var _ grpc.ClientConnInterface = inProcessConn{}

func (c inProcessConn) Invoke(ctx context.Context, method string, args, reply any, _ ...grpc.CallOption) error {
	in, ok := args.(*structpb.Struct)
	if !ok {
		return status.Errorf(codes.Internal, "unexpected request type %T", args)
	}
	var call func(context.Context, *structpb.Struct) (*structpb.Struct, error)
	switch method {
	case combatv1.OpenMatchFullMethodName:
		call = c.srv.OpenMatch
	case combatv1.DispatchFullMethodName:
		call = c.srv.Dispatch
	case combatv1.BeginTurnFullMethodName:
		call = c.srv.BeginTurn
	case combatv1.GetCooldownsFullMethodName:
		call = c.srv.GetCooldowns
	case combatv1.GetUnitFullMethodName:
		call = c.srv.GetUnit
	case combatv1.ListEventsFullMethodName:
		call = c.srv.ListEvents
	case combatv1.CloseMatchFullMethodName:
		call = c.srv.CloseMatch
	default:
		return status.Errorf(codes.Unimplemented, "unknown method %s", method)
	}
	out, err := call(ctx, in)
	if err != nil {
		return err
	}
	dst, ok := reply.(*structpb.Struct)
	if !ok {
		return status.Errorf(codes.Internal, "unexpected reply type %T", reply)
	}
	proto.Reset(dst)
	proto.Merge(dst, out)
	return nil
}

func (inProcessConn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Error(codes.Unimplemented, "streams are not supported in process")
}

// newInProcessEngine builds a combat service over a SQLite journal at
// dbPath, or a temporary one when dbPath is empty. The returned func
// releases the store and any temporary files.
func newInProcessEngine(dbPath string) (grpc.ClientConnInterface, func(), error) {
	var tempDir string
	if dbPath == "" {
		dir, err := os.MkdirTemp("", "skirmish-scenario-")
		if err != nil {
			return nil, nil, fmt.Errorf("create scenario dir: %w", err)
		}
		tempDir = dir
		dbPath = filepath.Join(dir, "combat.db")
	}
	cleanupDir := func() {
		if tempDir != "" {
			_ = os.RemoveAll(tempDir)
		}
	}

	store, err := combatsqlite.Open(dbPath)
	if err != nil {
		cleanupDir()
		return nil, nil, fmt.Errorf("open scenario store: %w", err)
	}
	matches, err := match.NewManager(catalog.Default(), match.WithStore(store))
	if err != nil {
		_ = store.Close()
		cleanupDir()
		return nil, nil, err
	}
	cleanup := func() {
		_ = store.Close()
		cleanupDir()
	}
	return inProcessConn{srv: combatv1.NewService(matches)}, cleanup, nil
}
