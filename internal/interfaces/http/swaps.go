package httpinterface

import "net/http"

func (h handler) getSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.marketplaceSvc.GetSwaps(r.Context(), pageFromQuery(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapViews(swaps))
}

func (h handler) getSwap(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	swap, err := h.marketplaceSvc.GetSwap(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapView(*swap))
}

func (h handler) requestSwap(w http.ResponseWriter, r *http.Request) {
	var req requestSwapRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	swap, err := h.marketplaceSvc.RequestSwap(
		r.Context(), callerFromContext(r.Context()),
		req.OfferedCollection, req.OfferedAssetID,
		req.RequestedCollection, req.RequestedAssetID,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSwapView(*swap))
}

func (h handler) approveSwap(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	swap, err := h.marketplaceSvc.ApproveSwap(
		r.Context(), id, callerFromContext(r.Context()),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapView(*swap))
}

func (h handler) cancelSwap(w http.ResponseWriter, r *http.Request) {
	id, err := uintVar(r, "id")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	swap, err := h.marketplaceSvc.CancelSwap(
		r.Context(), id, callerFromContext(r.Context()),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapView(*swap))
}
