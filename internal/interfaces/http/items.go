package httpinterface

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h handler) getItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.marketplaceSvc.GetItems(r.Context(), pageFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemViews(items))
}

func (h handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.marketplaceSvc.GetItem(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemView(*item))
}

func (h handler) sellerOf(w http.ResponseWriter, r *http.Request) {
	assetID, err := uintVar(r, "assetId")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	seller, err := h.marketplaceSvc.SellerOf(
		r.Context(), mux.Vars(r)["collection"], assetID,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"seller": seller})
}

func (h handler) listForSale(w http.ResponseWriter, r *http.Request) {
	var req listForSaleRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.marketplaceSvc.ListForSale(
		r.Context(), callerFromContext(r.Context()),
		req.Collection, req.AssetID, req.Price,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemView(*item))
}

func (h handler) listForAuction(w http.ResponseWriter, r *http.Request) {
	var req listForAuctionRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.marketplaceSvc.ListForAuction(
		r.Context(), callerFromContext(r.Context()),
		req.Collection, req.AssetID, req.StartingPrice, req.Expiry,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemView(*item))
}

func (h handler) cancelItem(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	item, err := h.marketplaceSvc.CancelItem(
		r.Context(), id, callerFromContext(r.Context()),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemView(*item))
}
