package httpinterface_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chro-network/chro-marketplace/internal/core/application"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/ledger"
	"github.com/chro-network/chro-marketplace/internal/infrastructure/pubsub"
	httpinterface "github.com/chro-network/chro-marketplace/internal/interfaces/http"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	secret     = "secret"
	seller     = "alice"
	buyer      = "bob"
	bidder     = "carol"
	collection = "punks"
)

type testServer struct {
	t       *testing.T
	handler http.Handler
	ledgers *ledger.Ledgers
	now     int64
}

func newTestServer(t *testing.T) *testServer {
	ledgers, err := ledger.NewLedgers(domain.DefaultFeeScale, "market", "")
	require.NoError(t, err)
	for i, holder := range []string{seller, seller, buyer} {
		require.NoError(t, ledgers.AssetRegistry.Mint(collection, uint64(i+1), holder))
	}
	for _, account := range []string{buyer, bidder} {
		require.NoError(t, ledgers.TokenLedger.Mint(account, 1000))
	}

	webhooks, err := pubsub.NewService("", 0, 0, log.New())
	require.NoError(t, err)
	hub := pubsub.NewHub()

	ts := &testServer{t: t, ledgers: ledgers, now: 1000}
	cfg := &application.Config{
		DBType:       application.DBInMemory,
		AssetLedger:  ledgers.AssetRegistry,
		TokenLedger:  ledgers.TokenLedger,
		SecurePubSub: pubsub.WithHub(webhooks, hub),
		FeeScale:     domain.DefaultFeeScale,
		Clock:        func() int64 { return ts.now },
	}
	require.NoError(t, cfg.Validate())
	t.Cleanup(cfg.RepoManager().Close)
	t.Cleanup(cfg.PubSubService().Close)

	ts.handler, err = httpinterface.NewHandler(httpinterface.ServiceOpts{
		AuthSecret:     secret,
		EnableMetrics:  true,
		MarketplaceSvc: cfg.MarketplaceService(),
		OperatorSvc:    cfg.OperatorService(),
		Ledger:         ledgers,
		EventStream:    hub,
	})
	require.NoError(t, err)
	return ts
}

func (ts *testServer) do(
	method, path, identity, role string, body interface{},
) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(ts.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if len(identity) > 0 {
		token, err := httpinterface.NewToken(secret, identity, role, time.Minute)
		require.NoError(ts.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	require.NoError(t, json.NewDecoder(rec.Body).Decode(dst))
}

func (ts *testServer) setup() {
	rec := ts.do(http.MethodPost, "/v1/collections", "op", httpinterface.RoleOperator,
		map[string]interface{}{"address": collection, "name": "Punks", "active": true},
	)
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, identity := range []string{seller, buyer} {
		rec = ts.do(http.MethodPost, "/v1/ledger/approvals", identity, "",
			map[string]interface{}{"collection": collection, "approved": true},
		)
		require.Equal(ts.t, http.StatusNoContent, rec.Code)
	}
	for _, identity := range []string{buyer, bidder} {
		rec = ts.do(http.MethodPost, "/v1/ledger/allowance", identity, "",
			map[string]uint64{"amount": 1000},
		)
		require.Equal(ts.t, http.StatusNoContent, rec.Code)
	}
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name     string
		method   string
		path     string
		identity string
		role     string
		status   int
	}{
		{"public read", http.MethodGet, "/v1/items", "", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"missing token", http.MethodPost, "/v1/items/1/buy", "", "", http.StatusUnauthorized},
		{"missing role", http.MethodPost, "/v1/job", buyer, "", http.StatusForbidden},
		{"operator", http.MethodPost, "/v1/job", "op", httpinterface.RoleOperator, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.identity, tt.role, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	t.Run("invalid signature", func(t *testing.T) {
		token, err := httpinterface.NewToken("other", buyer, "", 0)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/items/1/buy", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		ts.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDirectSale(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	rec := ts.do(http.MethodPost, "/v1/items/sale", seller, "",
		map[string]interface{}{"collection": collection, "assetId": 1, "price": 300},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item map[string]interface{}
	decode(t, rec, &item)
	require.Equal(t, float64(1), item["id"])
	require.Equal(t, "active", item["status"])

	rec = ts.do(http.MethodGet, "/v1/assets/punks/1/seller", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed map[string]string
	decode(t, rec, &listed)
	require.Equal(t, seller, listed["seller"])

	rec = ts.do(http.MethodPost, "/v1/items/1/buy", buyer, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &item)
	require.Equal(t, "sold", item["status"])
	require.Equal(t, buyer, item["buyer"])

	rec = ts.do(http.MethodGet, "/v1/ledger/assets/punks/1", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var owner map[string]string
	decode(t, rec, &owner)
	require.Equal(t, buyer, owner["owner"])

	rec = ts.do(http.MethodGet, "/v1/ledger/balances/alice", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance map[string]interface{}
	decode(t, rec, &balance)
	require.Equal(t, float64(300), balance["balance"])
}

func TestErrorStatus(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	rec := ts.do(http.MethodPost, "/v1/items/sale", seller, "",
		map[string]interface{}{"collection": collection, "assetId": 1, "price": 300},
	)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []struct {
		name     string
		method   string
		path     string
		identity string
		body     interface{}
		status   int
	}{
		{
			"unknown item", http.MethodGet, "/v1/items/99", "", nil,
			http.StatusNotFound,
		},
		{
			"self purchase", http.MethodPost, "/v1/items/1/buy", seller, nil,
			http.StatusBadRequest,
		},
		{
			"not the seller", http.MethodPost, "/v1/items/1/cancel", buyer, nil,
			http.StatusForbidden,
		},
		{
			"already listed", http.MethodPost, "/v1/items/sale", seller,
			map[string]interface{}{"collection": collection, "assetId": 1, "price": 10},
			http.StatusConflict,
		},
		{
			"unknown field", http.MethodPost, "/v1/items/sale", seller,
			map[string]interface{}{"collection": collection, "asset": 2},
			http.StatusBadRequest,
		},
		{
			"bid on direct sale", http.MethodPost, "/v1/items/1/bids", bidder,
			map[string]uint64{"amount": 400},
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.identity, "", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	t.Run("insufficient allowance", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/v1/ledger/allowance", buyer, "",
			map[string]uint64{"amount": 0},
		)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = ts.do(http.MethodPost, "/v1/items/1/buy", buyer, "", nil)
		require.Equal(t, http.StatusPaymentRequired, rec.Code, rec.Body.String())
	})
}

func TestAuction(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	rec := ts.do(http.MethodPost, "/v1/items/auction", seller, "",
		map[string]interface{}{
			"collection": collection, "assetId": 2,
			"startingPrice": 100, "expiry": ts.now + 60,
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, bid := range []struct {
		identity string
		amount   uint64
	}{{buyer, 200}, {bidder, 250}} {
		rec = ts.do(http.MethodPost, "/v1/items/1/bids", bid.identity, "",
			map[string]uint64{"amount": bid.amount},
		)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodGet, "/v1/items/1/bids", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bids []map[string]interface{}
	decode(t, rec, &bids)
	require.Len(t, bids, 2)

	rec = ts.do(http.MethodGet, "/v1/items/1/bids/1", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bid map[string]interface{}
	decode(t, rec, &bid)
	require.Equal(t, bidder, bid["bidder"])

	rec = ts.do(http.MethodPost, "/v1/items/1/settle", buyer, "", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	ts.now += 60
	rec = ts.do(http.MethodPost, "/v1/items/1/settle", buyer, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var item map[string]interface{}
	decode(t, rec, &item)
	require.Equal(t, "sold", item["status"])
	require.Equal(t, bidder, item["buyer"])
	require.Equal(t, float64(250), item["salePrice"])

	rec = ts.do(http.MethodGet, "/v1/items/1/payouts", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var payouts []map[string]interface{}
	decode(t, rec, &payouts)
	require.Empty(t, payouts)

	rec = ts.do(http.MethodGet, "/v1/items/9/payouts", "", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/v1/payouts", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &payouts)
	require.Empty(t, payouts)
}

func TestSwap(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	rec := ts.do(http.MethodPost, "/v1/swaps", seller, "",
		map[string]interface{}{
			"offeredCollection": collection, "offeredAssetId": 1,
			"requestedCollection": collection, "requestedAssetId": 3,
		},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/v1/swaps/1/approve", seller, "", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodPost, "/v1/swaps/1/approve", buyer, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodGet, "/v1/swaps/1", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var swap map[string]interface{}
	decode(t, rec, &swap)
	require.Equal(t, "approved", swap["status"])

	rec = ts.do(http.MethodGet, "/v1/swaps?limit=5", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var swaps []map[string]interface{}
	decode(t, rec, &swaps)
	require.Len(t, swaps, 1)
}

func TestOperator(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()
	op := httpinterface.RoleOperator

	rec := ts.do(http.MethodPost, "/v1/fees/collectors", "op", op,
		map[string]interface{}{"wallet": "treasury", "percentage": 25},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPut, "/v1/fees/publication/auction", "op", op,
		map[string]uint64{"amount": 5},
	)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodPut, "/v1/fees/publication/wallet", "op", op,
		map[string]string{"wallet": "publisher"},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPut, "/v1/fees/publication/auction", "op", op,
		map[string]uint64{"amount": 5},
	)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodGet, "/v1/fees", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var policy struct {
		Scale           uint32                   `json:"scale"`
		Collectors      []map[string]interface{} `json:"collectors"`
		PublicationFees map[string]uint64        `json:"publicationFees"`
	}
	decode(t, rec, &policy)
	require.Equal(t, domain.DefaultFeeScale, policy.Scale)
	require.Len(t, policy.Collectors, 1)
	require.Equal(t, uint64(5), policy.PublicationFees["auction"])

	rec = ts.do(http.MethodDelete, "/v1/fees/collectors/treasury", "op", op, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodDelete, "/v1/fees/collectors/treasury", "op", op, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPut, "/v1/collections/punks", "op", op,
		map[string]bool{"active": false},
	)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(http.MethodPost, "/v1/items/sale", seller, "",
		map[string]interface{}{"collection": collection, "assetId": 1, "price": 300},
	)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(http.MethodGet, "/v1/collections", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var collections []map[string]interface{}
	decode(t, rec, &collections)
	require.Len(t, collections, 1)
	require.Equal(t, false, collections[0]["active"])
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	ts.setup()

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/events?topic=ITEM_CREATED"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"X", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	rec := ts.do(http.MethodPost, "/v1/items/sale", seller, "",
		map[string]interface{}{"collection": collection, "assetId": 1, "price": 300},
	)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Topic string                 `json:"topic"`
		Event map[string]interface{} `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "ITEM_CREATED", msg.Topic)
	require.Contains(t, msg.Event, "item")
}
