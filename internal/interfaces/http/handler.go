package httpinterface

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/chro-network/chro-marketplace/internal/core/application"
	"github.com/chro-network/chro-marketplace/internal/core/domain"
	"github.com/gorilla/mux"
)

type handler struct {
	marketplaceSvc application.MarketplaceService
	operatorSvc    application.OperatorService
	ledger         LedgerService
	stream         EventStream
}

func (h handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func uintVar(r *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed %s", domain.ErrInvalidInput, name)
	}
	return v, nil
}

func pageFromQuery(r *http.Request) domain.Page {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.NewPage(offset, limit)
}
