// Package service implements the Connect RPC services: the ledger
// engine surface (bills, balances, settlement plans) and trip roster
// management. Services resolve the trip roster from storage and hand it
// to the pure calculator; no computation happens here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"connectrpc.com/connect"

	"github.com/tripshare/ledger/internal/calculator"
	"github.com/tripshare/ledger/internal/events"
	"github.com/tripshare/ledger/internal/metrics"
	"github.com/tripshare/ledger/internal/models"
	"github.com/tripshare/ledger/internal/money"
	"github.com/tripshare/ledger/internal/storage"
	"github.com/tripshare/ledger/pkg/api"
)

// LedgerService exposes bill posting, entry listing, balance
// aggregation, and settlement planning.
type LedgerService struct {
	store     storage.Store
	publisher events.Publisher
}

// NewLedgerService creates a LedgerService with the given storage
// backend and event publisher.
func NewLedgerService(store storage.Store, publisher events.Publisher) *LedgerService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LedgerService{store: store, publisher: publisher}
}

// NewLedgerServiceHandler builds the HTTP handler for the LedgerService
// procedures. It returns the path prefix to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.Codec())}, opts...)

	mux := http.NewServeMux()
	mux.Handle(api.LedgerServicePostBillProcedure,
		connect.NewUnaryHandler(api.LedgerServicePostBillProcedure, svc.PostBill, opts...))
	mux.Handle(api.LedgerServiceListEntriesProcedure,
		connect.NewUnaryHandler(api.LedgerServiceListEntriesProcedure, svc.ListEntries, opts...))
	mux.Handle(api.LedgerServiceGetBalancesProcedure,
		connect.NewUnaryHandler(api.LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...))
	mux.Handle(api.LedgerServiceGetSettlementPlanProcedure,
		connect.NewUnaryHandler(api.LedgerServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...))

	return "/tripshare.v1.LedgerService/", mux
}

// PostBill computes shares for a bill draft, validates it against the
// trip roster, and appends it to the ledger.
func (s *LedgerService) PostBill(ctx context.Context, req *connect.Request[api.PostBillRequest]) (*connect.Response[api.PostBillResponse], error) {
	trip, err := s.store.GetTrip(ctx, req.Msg.TripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	draft, err := draftFromRequest(req.Msg)
	if err != nil {
		slog.Error("PostBill rejected malformed amount", "trip_id", req.Msg.TripID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	bill, err := calculator.Validate(draft, trip)
	if err != nil {
		metrics.ValidationFailed(ruleFor(err))
		slog.Warn("PostBill validation failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	entry := &models.LedgerEntry{Bill: *bill}
	if err := s.store.PostEntry(ctx, entry); err != nil {
		slog.Error("PostBill failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	metrics.BillPosted(entry.Bill.Total.Currency())

	// The entry is committed at this point; a publish failure is logged
	// and swallowed, never surfaced to the caller.
	if err := s.publisher.Publish(ctx, events.EntryPosted{
		EntryID:  entry.ID,
		TripID:   entry.Bill.TripID,
		BillID:   entry.Bill.ID,
		PayerID:  entry.Bill.PayerID,
		Total:    entry.Bill.Total.String(),
		Currency: entry.Bill.Total.Currency(),
		PostedAt: entry.PostedAt,
	}); err != nil {
		slog.Warn("PostBill event publish failed", "entry_id", entry.ID, "error", err)
	}

	slog.Info("Bill posted",
		"entry_id", entry.ID,
		"trip_id", entry.Bill.TripID,
		"total", entry.Bill.Total,
		"currency", entry.Bill.Total.Currency(),
		"participants", len(entry.Bill.Shares),
	)

	return connect.NewResponse(&api.PostBillResponse{
		Entry: entryToAPI(entry),
	}), nil
}

// ListEntries returns one trip's ledger entries in a single currency,
// ordered by posting time.
func (s *LedgerService) ListEntries(ctx context.Context, req *connect.Request[api.ListEntriesRequest]) (*connect.Response[api.ListEntriesResponse], error) {
	entries, err := s.entriesFor(ctx, req.Msg.TripID, req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	out := make([]api.Entry, len(entries))
	for i := range entries {
		out[i] = *entryToAPI(&entries[i])
	}

	return connect.NewResponse(&api.ListEntriesResponse{Entries: out}), nil
}

// GetBalances aggregates a trip's entries into one net balance per
// member, sorted by member ID.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	balances, err := s.balancesFor(ctx, req.Msg.TripID, req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	out := make([]api.Balance, 0, len(balances))
	for _, b := range balances {
		out = append(out, api.Balance{MemberID: b.MemberID, Amount: b.Amount.String()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })

	return connect.NewResponse(&api.GetBalancesResponse{Balances: out}), nil
}

// GetSettlementPlan aggregates a trip's entries and plans the minimal
// transfer sequence that settles them.
func (s *LedgerService) GetSettlementPlan(ctx context.Context, req *connect.Request[api.GetSettlementPlanRequest]) (*connect.Response[api.GetSettlementPlanResponse], error) {
	balances, err := s.balancesFor(ctx, req.Msg.TripID, req.Msg.Currency)
	if err != nil {
		return nil, err
	}

	transfers, err := calculator.Plan(balances)
	if err != nil {
		slog.Error("GetSettlementPlan failed", "trip_id", req.Msg.TripID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	metrics.SettlementPlanned(len(transfers))

	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{
			FromID:   t.FromID,
			ToID:     t.ToID,
			Amount:   t.Amount.String(),
			Currency: t.Amount.Currency(),
		}
	}

	return connect.NewResponse(&api.GetSettlementPlanResponse{Transfers: out}), nil
}

// entriesFor loads one trip's entries after checking the trip exists.
func (s *LedgerService) entriesFor(ctx context.Context, tripID, currency string) ([]models.LedgerEntry, error) {
	if _, err := s.store.GetTrip(ctx, tripID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	entries, err := s.store.EntriesFor(ctx, tripID, currency)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return entries, nil
}

// balancesFor folds one trip's entries into net balances. An aggregation
// invariant violation is an internal ledger bug, so it maps to
// CodeInternal, not CodeInvalidArgument.
func (s *LedgerService) balancesFor(ctx context.Context, tripID, currency string) (map[string]models.NetBalance, error) {
	entries, err := s.entriesFor(ctx, tripID, currency)
	if err != nil {
		return nil, err
	}
	balances, err := calculator.Aggregate(entries)
	if err != nil {
		slog.Error("Balance aggregation failed", "trip_id", tripID, "currency", currency, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return balances, nil
}

// draftFromRequest parses the wire-level decimal strings into exact
// amounts and assembles a bill draft.
func draftFromRequest(msg *api.PostBillRequest) (models.BillDraft, error) {
	total, err := money.Parse(msg.Total, msg.Currency)
	if err != nil {
		return models.BillDraft{}, fmt.Errorf("total: %w", err)
	}

	var custom map[string]money.Amount
	if len(msg.CustomValues) > 0 {
		custom = make(map[string]money.Amount, len(msg.CustomValues))
		for memberID, v := range msg.CustomValues {
			amount, err := money.Parse(v, msg.Currency)
			if err != nil {
				return models.BillDraft{}, fmt.Errorf("custom value for %q: %w", memberID, err)
			}
			custom[memberID] = amount
		}
	}

	return models.BillDraft{
		TripID:       msg.TripID,
		PayerID:      msg.PayerID,
		Total:        total,
		Strategy:     models.SplitStrategy(msg.Strategy),
		CustomValues: custom,
		Comment:      msg.Comment,
	}, nil
}

// entryToAPI converts a ledger entry to its wire representation.
func entryToAPI(entry *models.LedgerEntry) *api.Entry {
	shares := make([]api.Share, len(entry.Bill.Shares))
	for i, s := range entry.Bill.Shares {
		shares[i] = api.Share{MemberID: s.MemberID, Amount: s.Amount.String()}
	}
	return &api.Entry{
		ID:       entry.ID,
		BillID:   entry.Bill.ID,
		TripID:   entry.Bill.TripID,
		PayerID:  entry.Bill.PayerID,
		Total:    entry.Bill.Total.String(),
		Currency: entry.Bill.Total.Currency(),
		Strategy: string(entry.Bill.Strategy),
		Comment:  entry.Bill.Comment,
		Shares:   shares,
		PostedAt: entry.PostedAt,
		Reverses: entry.Reverses,
	}
}

// ruleFor maps a validation error to its metrics label.
func ruleFor(err error) string {
	var mismatch *calculator.ShareSumMismatchError
	switch {
	case errors.As(err, &mismatch):
		return "share_sum_mismatch"
	case errors.Is(err, calculator.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, calculator.ErrPayerNotMember):
		return "payer_not_member"
	case errors.Is(err, calculator.ErrMissingParticipantValue):
		return "missing_participant_value"
	case errors.Is(err, calculator.ErrInvalidStrategy):
		return "invalid_strategy"
	case errors.Is(err, calculator.ErrEmptyParticipants):
		return "empty_participants"
	default:
		return "other"
	}
}
