package httpinterface

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(opts ServiceOpts) http.Handler {
	auth := authenticator{[]byte(opts.AuthSecret)}
	h := handler{
		marketplaceSvc: opts.MarketplaceSvc,
		operatorSvc:    opts.OperatorSvc,
		ledger:         opts.Ledger,
		stream:         opts.EventStream,
	}

	r := mux.NewRouter()
	r.Use(instrument)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	if opts.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	v1 := r.PathPrefix("/v1").Subrouter()

	// Items
	v1.HandleFunc("/items", h.getItems).Methods(http.MethodGet)
	v1.HandleFunc("/items/sale", auth.authenticated(h.listForSale)).Methods(http.MethodPost)
	v1.HandleFunc("/items/auction", auth.authenticated(h.listForAuction)).Methods(http.MethodPost)
	v1.HandleFunc("/items/{id:[0-9]+}", h.getItem).Methods(http.MethodGet)
	v1.HandleFunc("/items/{id:[0-9]+}/cancel", auth.authenticated(h.cancelItem)).Methods(http.MethodPost)
	v1.HandleFunc("/items/{id:[0-9]+}/buy", auth.authenticated(h.buy)).Methods(http.MethodPost)
	v1.HandleFunc("/items/{id:[0-9]+}/settle", auth.authenticated(h.settleAuction)).Methods(http.MethodPost)
	v1.HandleFunc("/items/{id:[0-9]+}/bids", h.getBids).Methods(http.MethodGet)
	v1.HandleFunc("/items/{id:[0-9]+}/bids", auth.authenticated(h.placeBid)).Methods(http.MethodPost)
	v1.HandleFunc("/items/{id:[0-9]+}/bids/{index:[0-9]+}", h.getBid).Methods(http.MethodGet)
	v1.HandleFunc("/items/{id:[0-9]+}/payouts", h.getItemPayouts).Methods(http.MethodGet)
	v1.HandleFunc("/payouts", h.getPendingPayouts).Methods(http.MethodGet)
	v1.HandleFunc("/assets/{collection}/{assetId:[0-9]+}/seller", h.sellerOf).Methods(http.MethodGet)

	// Swaps
	v1.HandleFunc("/swaps", h.getSwaps).Methods(http.MethodGet)
	v1.HandleFunc("/swaps", auth.authenticated(h.requestSwap)).Methods(http.MethodPost)
	v1.HandleFunc("/swaps/{id:[0-9]+}", h.getSwap).Methods(http.MethodGet)
	v1.HandleFunc("/swaps/{id:[0-9]+}/approve", auth.authenticated(h.approveSwap)).Methods(http.MethodPost)
	v1.HandleFunc("/swaps/{id:[0-9]+}/cancel", auth.authenticated(h.cancelSwap)).Methods(http.MethodPost)

	// Collections and fees
	v1.HandleFunc("/collections", h.getCollections).Methods(http.MethodGet)
	v1.HandleFunc("/collections", auth.operator(h.createCollection)).Methods(http.MethodPost)
	v1.HandleFunc("/collections/{address}", auth.operator(h.setCollectionActive)).Methods(http.MethodPut)
	v1.HandleFunc("/fees", h.getFeePolicy).Methods(http.MethodGet)
	v1.HandleFunc("/fees/collectors", h.getFeeCollectors).Methods(http.MethodGet)
	v1.HandleFunc("/fees/collectors", auth.operator(h.addFeeCollector)).Methods(http.MethodPost)
	v1.HandleFunc("/fees/collectors/{wallet}", auth.operator(h.removeFeeCollector)).Methods(http.MethodDelete)
	v1.HandleFunc("/fees/publication/wallet", auth.operator(h.setPublicationFeeWallet)).Methods(http.MethodPut)
	v1.HandleFunc("/fees/publication/{kind}", auth.operator(h.setPublicationFee)).Methods(http.MethodPut)

	// Operator
	v1.HandleFunc("/job", auth.operator(h.executeJob)).Methods(http.MethodPost)
	v1.HandleFunc("/webhooks", auth.operator(h.listWebhooks)).Methods(http.MethodGet)
	v1.HandleFunc("/webhooks", auth.operator(h.addWebhook)).Methods(http.MethodPost)
	v1.HandleFunc("/webhooks/{id}", auth.operator(h.removeWebhook)).Methods(http.MethodDelete)

	if opts.EventStream != nil {
		v1.HandleFunc("/events", h.streamEvents).Methods(http.MethodGet)
	}

	if opts.Ledger != nil {
		v1.HandleFunc("/ledger/balances/{account}", h.balanceOf).Methods(http.MethodGet)
		v1.HandleFunc("/ledger/allowance", auth.authenticated(h.approveAllowance)).Methods(http.MethodPost)
		v1.HandleFunc("/ledger/approvals", auth.authenticated(h.setApprovalForAll)).Methods(http.MethodPost)
		v1.HandleFunc("/ledger/assets/{collection}/{assetId:[0-9]+}", h.ownerOf).Methods(http.MethodGet)
	}

	return r
}
