// Package api defines the wire messages and procedure names for the
// ledger's Connect RPC surface. Messages are plain structs exchanged
// over the JSON codec; amounts cross the wire as exact decimal strings,
// never as floats.
package api

// Procedure names, one per RPC. Connect routes on these paths.
const (
	LedgerServicePostBillProcedure          = "/tripshare.v1.LedgerService/PostBill"
	LedgerServiceListEntriesProcedure       = "/tripshare.v1.LedgerService/ListEntries"
	LedgerServiceGetBalancesProcedure       = "/tripshare.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementPlanProcedure = "/tripshare.v1.LedgerService/GetSettlementPlan"

	TripServiceCreateTripProcedure = "/tripshare.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure    = "/tripshare.v1.TripService/GetTrip"
	TripServiceAddMembersProcedure = "/tripshare.v1.TripService/AddMembers"
)

// Member is one trip participant.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Trip is a group of members sharing expenses.
type Trip struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []Member `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// Share is one member's exact portion of a bill.
type Share struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

// Entry is a posted ledger entry: an immutable bill snapshot.
type Entry struct {
	ID       string  `json:"id"`
	BillID   string  `json:"bill_id"`
	TripID   string  `json:"trip_id"`
	PayerID  string  `json:"payer_id"`
	Total    string  `json:"total"`
	Currency string  `json:"currency"`
	Strategy string  `json:"strategy"`
	Comment  string  `json:"comment,omitempty"`
	Shares   []Share `json:"shares"`
	PostedAt int64   `json:"posted_at"`
	Reverses string  `json:"reverses,omitempty"`
}

// Balance is one member's signed net position.
type Balance struct {
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
}

// Transfer is one suggested settlement payment.
type Transfer struct {
	FromID   string `json:"from_id"`
	ToID     string `json:"to_id"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type CreateTripRequest struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type CreateTripResponse struct {
	Trip *Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip *Trip `json:"trip"`
}

type AddMembersRequest struct {
	TripID  string   `json:"trip_id"`
	Members []Member `json:"members"`
}

type AddMembersResponse struct {
	Trip *Trip `json:"trip"`
}

type PostBillRequest struct {
	TripID   string `json:"trip_id"`
	PayerID  string `json:"payer_id"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
	Strategy string `json:"strategy"`
	// CustomValues maps member ID to that member's share as an exact
	// decimal string. Required for the custom_values strategy.
	CustomValues map[string]string `json:"custom_values,omitempty"`
	Comment      string            `json:"comment,omitempty"`
}

type PostBillResponse struct {
	Entry *Entry `json:"entry"`
}

type ListEntriesRequest struct {
	TripID   string `json:"trip_id"`
	Currency string `json:"currency"`
}

type ListEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

type GetBalancesRequest struct {
	TripID   string `json:"trip_id"`
	Currency string `json:"currency"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type GetSettlementPlanRequest struct {
	TripID   string `json:"trip_id"`
	Currency string `json:"currency"`
}

type GetSettlementPlanResponse struct {
	Transfers []Transfer `json:"transfers"`
}
