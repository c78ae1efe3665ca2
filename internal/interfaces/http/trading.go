package httpinterface

import (
	"net/http"
	"strconv"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/gorilla/mux"
)

func (h handler) buy(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.marketplaceSvc.Buy(r.Context(), id, callerFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemView(*item))
}

func (h handler) placeBid(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req placeBidRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	bid, err := h.marketplaceSvc.PlaceBid(
		r.Context(), id, callerFromContext(r.Context()), req.Amount,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBidView(*bid))
}

func (h handler) getBids(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	bids, err := h.marketplaceSvc.GetBids(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBidViews(bids))
}

func (h handler) getItemPayouts(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	payouts, err := h.marketplaceSvc.GetItemPayouts(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutViews(payouts))
}

func (h handler) getPendingPayouts(w http.ResponseWriter, r *http.Request) {
	payouts, err := h.marketplaceSvc.GetPendingPayouts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayoutViews(payouts))
}

func (h handler) getBid(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeDomainError(w, domain.ErrInvalidInput)
		return
	}
	bid, err := h.marketplaceSvc.GetBid(r.Context(), id, index)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBidView(*bid))
}

// settleAuction can be invoked by anybody once the auction expired.
func (h handler) settleAuction(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.marketplaceSvc.SettleAuction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemView(*item))
}
