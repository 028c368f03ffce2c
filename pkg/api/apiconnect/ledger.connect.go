// Package apiconnect wires the tabsplit.v1.LedgerService messages in package
// api to connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tabsplit/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "tabsplit.v1.LedgerService"

// Procedure paths, used for routing and for metrics/log labels.
const (
	LedgerServiceAddParticipantProcedure    = "/tabsplit.v1.LedgerService/AddParticipant"
	LedgerServiceRemoveParticipantProcedure = "/tabsplit.v1.LedgerService/RemoveParticipant"
	LedgerServiceAddExpenseProcedure        = "/tabsplit.v1.LedgerService/AddExpense"
	LedgerServiceRemoveExpenseProcedure     = "/tabsplit.v1.LedgerService/RemoveExpense"
	LedgerServiceListParticipantsProcedure  = "/tabsplit.v1.LedgerService/ListParticipants"
	LedgerServiceListExpensesProcedure      = "/tabsplit.v1.LedgerService/ListExpenses"
	LedgerServiceGetBalancesProcedure       = "/tabsplit.v1.LedgerService/GetBalances"
	LedgerServiceGetSettlementsProcedure    = "/tabsplit.v1.LedgerService/GetSettlements"
	LedgerServiceGetDashboardProcedure      = "/tabsplit.v1.LedgerService/GetDashboard"
)

// LedgerServiceClient is a client for the tabsplit.v1.LedgerService service.
type LedgerServiceClient interface {
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewLedgerServiceClient constructs a client for the tabsplit.v1.LedgerService
// service. baseURL is the server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		addParticipant: connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](
			httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](
			httpClient, baseURL+LedgerServiceRemoveParticipantProcedure, opts...),
		addExpense: connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](
			httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		removeExpense: connect.NewClient[api.RemoveExpenseRequest, api.RemoveExpenseResponse](
			httpClient, baseURL+LedgerServiceRemoveExpenseProcedure, opts...),
		listParticipants: connect.NewClient[api.ListParticipantsRequest, api.ListParticipantsResponse](
			httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		listExpenses: connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](
			httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		getBalances: connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](
			httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getSettlements: connect.NewClient[api.GetSettlementsRequest, api.GetSettlementsResponse](
			httpClient, baseURL+LedgerServiceGetSettlementsProcedure, opts...),
		getDashboard: connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](
			httpClient, baseURL+LedgerServiceGetDashboardProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	addParticipant    *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	addExpense        *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	removeExpense     *connect.Client[api.RemoveExpenseRequest, api.RemoveExpenseResponse]
	listParticipants  *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	listExpenses      *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getBalances       *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getSettlements    *connect.Client[api.GetSettlementsRequest, api.GetSettlementsResponse]
	getDashboard      *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RemoveExpense(ctx context.Context, req *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error) {
	return c.removeExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlements(ctx context.Context, req *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error) {
	return c.getSettlements.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

// LedgerServiceHandler is implemented by servers of the
// tabsplit.v1.LedgerService service.
type LedgerServiceHandler interface {
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	RemoveExpense(context.Context, *connect.Request[api.RemoveExpenseRequest]) (*connect.Response[api.RemoveExpenseResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetSettlements(context.Context, *connect.Request[api.GetSettlementsRequest]) (*connect.Response[api.GetSettlementsResponse], error)
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	routes := map[string]http.Handler{
		LedgerServiceAddParticipantProcedure:    connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		LedgerServiceRemoveParticipantProcedure: connect.NewUnaryHandler(LedgerServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		LedgerServiceAddExpenseProcedure:        connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceRemoveExpenseProcedure:     connect.NewUnaryHandler(LedgerServiceRemoveExpenseProcedure, svc.RemoveExpense, opts...),
		LedgerServiceListParticipantsProcedure:  connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		LedgerServiceListExpensesProcedure:      connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceGetBalancesProcedure:       connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetSettlementsProcedure:    connect.NewUnaryHandler(LedgerServiceGetSettlementsProcedure, svc.GetSettlements, opts...),
		LedgerServiceGetDashboardProcedure:      connect.NewUnaryHandler(LedgerServiceGetDashboardProcedure, svc.GetDashboard, opts...),
	}
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
