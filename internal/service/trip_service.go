package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/storage"
	"github.com/tripshare/ledger/pkg/api"
)

// TripService manages trip rosters. The roster is the engine's external
// collaborator: bills are always validated against it.
type TripService struct {
	store storage.Store
}

// NewTripService creates a TripService with the given storage backend.
func NewTripService(store storage.Store) *TripService {
	return &TripService{store: store}
}

// NewTripServiceHandler builds the HTTP handler for the TripService
// procedures. It returns the path prefix to mount the handler on.
func NewTripServiceHandler(svc *TripService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(api.TripServiceCreateTripProcedure,
		connect.NewUnaryHandler(api.TripServiceCreateTripProcedure, svc.CreateTrip, opts...))
	mux.Handle(api.TripServiceGetTripProcedure,
		connect.NewUnaryHandler(api.TripServiceGetTripProcedure, svc.GetTrip, opts...))
	mux.Handle(api.TripServiceAddMembersProcedure,
		connect.NewUnaryHandler(api.TripServiceAddMembersProcedure, svc.AddMembers, opts...))

	return "/tripshare.v1.TripService/", mux
}

// CreateTrip creates a new trip with its initial roster.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	slog.Info("CreateTrip request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	members, err := membersFromAPI(req.Msg.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	trip := &models.Trip{
		Name:    req.Msg.Name,
		Members: members,
	}
	if err := s.store.CreateTrip(ctx, trip); err != nil {
		slog.Error("CreateTrip failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Trip created", "trip_id", trip.ID)

	return connect.NewResponse(&api.CreateTripResponse{
		Trip: tripToAPI(trip),
	}), nil
}

// GetTrip retrieves a trip by ID.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		slog.Error("GetTrip failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetTripResponse{
		Trip: tripToAPI(trip),
	}), nil
}

// AddMembers appends members to a trip's roster and returns the updated
// trip.
func (s *TripService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	members, err := membersFromAPI(req.Msg.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.AddMembers(ctx, req.Msg.TripID, members); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		slog.Error("AddMembers failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Members added", "trip_id", trip.ID, "roster_size", len(trip.Members))

	return connect.NewResponse(&api.AddMembersResponse{
		Trip: tripToAPI(trip),
	}), nil
}

// membersFromAPI converts wire members into model members, rejecting
// blank IDs.
func membersFromAPI(in []api.Member) ([]models.Member, error) {
	members := make([]models.Member, len(in))
	for i, m := range in {
		if m.ID == "" {
			return nil, fmt.Errorf("member %d: missing id", i)
		}
		members[i] = models.Member{ID: m.ID, Name: m.Name}
	}
	return members, nil
}

// tripToAPI converts a trip to its wire representation.
func tripToAPI(trip *models.Trip) *api.Trip {
	members := make([]api.Member, len(trip.Members))
	for i, m := range trip.Members {
		members[i] = api.Member{ID: m.ID, Name: m.Name}
	}
	return &api.Trip{
		ID:        trip.ID,
		Name:      trip.Name,
		Members:   members,
		CreatedAt: trip.CreatedAt,
	}
}
