package httpinterface

import (
	"net/http"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/gorilla/mux"
)

func (h handler) getCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.operatorSvc.GetCollections(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	list := make([]collectionView, 0, len(collections))
	for _, c := range collections {
		list = append(list, toCollectionView(c))
	}
	writeJSON(w, http.StatusOK, list)
}

func (h handler) createCollection(w http.ResponseWriter, r *http.Request) {
	var req createCollectionRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	collection, err := h.operatorSvc.CreateCollection(
		r.Context(), req.Address, req.Name, req.Active,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCollectionView(*collection))
}

func (h handler) setCollectionActive(w http.ResponseWriter, r *http.Request) {
	var req setCollectionActiveRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	collection, err := h.operatorSvc.SetCollectionActive(
		r.Context(), mux.Vars(r)["address"], req.Active,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCollectionView(*collection))
}

func (h handler) getFeePolicy(w http.ResponseWriter, r *http.Request) {
	policy, err := h.operatorSvc.GetFeePolicy(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeePolicyView(*policy))
}

func (h handler) getFeeCollectors(w http.ResponseWriter, r *http.Request) {
	collectors, err := h.operatorSvc.GetFeeCollectors(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeeCollectorViews(collectors))
}

func (h handler) addFeeCollector(w http.ResponseWriter, r *http.Request) {
	var req addFeeCollectorRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	h.replyFeePolicy(w)(
		h.operatorSvc.AddFeeCollector(r.Context(), req.Wallet, req.Percentage),
	)
}

func (h handler) removeFeeCollector(w http.ResponseWriter, r *http.Request) {
	h.replyFeePolicy(w)(
		h.operatorSvc.RemoveFeeCollector(r.Context(), mux.Vars(r)["wallet"]),
	)
}

func (h handler) setPublicationFeeWallet(w http.ResponseWriter, r *http.Request) {
	var req walletRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	h.replyFeePolicy(w)(
		h.operatorSvc.SetPublicationFeeWallet(r.Context(), req.Wallet),
	)
}

func (h handler) setPublicationFee(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ListingKindFromString(mux.Vars(r)["kind"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req amountRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	h.replyFeePolicy(w)(
		h.operatorSvc.SetPublicationFee(r.Context(), kind, req.Amount),
	)
}

func (h handler) replyFeePolicy(
	w http.ResponseWriter,
) func(*domain.FeePolicy, error) {
	return func(policy *domain.FeePolicy, err error) {
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toFeePolicyView(*policy))
	}
}

func (h handler) executeJob(w http.ResponseWriter, r *http.Request) {
	report, err := h.operatorSvc.ExecuteJob(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobReportView(*report))
}

func (h handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.operatorSvc.ListWebhooks(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWebhookViews(hooks))
}

func (h handler) addWebhook(w http.ResponseWriter, r *http.Request) {
	var req addWebhookRequest
	if err := readJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}
	id, err := h.operatorSvc.AddWebhook(r.Context(), req.Topic, req.Endpoint, req.Secret)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h handler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.operatorSvc.RemoveWebhook(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
