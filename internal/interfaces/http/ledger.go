package httpinterface

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h handler) balanceOf(w http.ResponseWriter, r *http.Request) {
	account := mux.Vars(r)["account"]
	balance, err := h.ledger.BalanceOf(r.Context(), account)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	allowance, err := h.ledger.Allowance(r.Context(), account)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account":   account,
		"balance":   balance,
		"allowance": allowance,
	})
}

func (h handler) approveAllowance(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.ledger.Approve(callerFromContext(r.Context()), req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handler) setApprovalForAll(w http.ResponseWriter, r *http.Request) {
	var req approvalRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.ledger.SetApprovalForAll(
		req.Collection, callerFromContext(r.Context()), req.Approved,
	); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handler) ownerOf(w http.ResponseWriter, r *http.Request) {
	assetID, err := uintVar(r, "assetId")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	owner, err := h.ledger.OwnerOf(r.Context(), mux.Vars(r)["collection"], assetID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"owner": owner})
}
