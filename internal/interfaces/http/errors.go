package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chro-network/chro-marketplace/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

var errorStatusByKind = map[error]int{
	domain.ErrNotFound:             http.StatusNotFound,
	domain.ErrNotAuthorized:        http.StatusForbidden,
	domain.ErrInvalidState:         http.StatusConflict,
	domain.ErrInvalidInput:         http.StatusBadRequest,
	domain.ErrInsufficientResource: http.StatusPaymentRequired,
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeDomainError replies with the status code of the error kind. Errors of
// unknown kind are internal ones and their detail is only logged.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status, ok := errorStatusByKind[kind]
	if !ok {
		log.WithError(err).Error("internal error")
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal error",
		})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind.Error()})
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

func readJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %s", domain.ErrInvalidInput, err)
	}
	return nil
}
