package apiserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/siteledger/siteledger/pkg/model"
	"github.com/siteledger/siteledger/pkg/store"
)

func writeError(w http.ResponseWriter, httpStatus int, err error) {
	logrus.Debugf("request failed: %v", err)
	o := model.ErrorResponse{
		Status:  httpStatus,
		Message: err.Error(),
	}
	res, _ := json.Marshal(o)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_, _ = w.Write(res)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(res)
}

// handleStoreError maps store sentinel errors onto HTTP statuses.
// Persistence failures fall through as 500s.
func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrQuotaExceeded):
		writeError(w, http.StatusConflict, err)
	default:
		logrus.Errorf("store operation failed: %v", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decode(r *http.Request, into interface{}) error {
	return json.NewDecoder(r.Body).Decode(into)
}
