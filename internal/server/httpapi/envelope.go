package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/anniv/internal/common"
)

// envelope is the body of every non-empty response. HTTP status is always
// 200; clients branch on Status, 0 meaning success.
type envelope struct {
	Status  uint32 `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, envelope{Data: data})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeError reports err by its kind code. Only invalid parameters carry a
// message; everything else is opaque to the client.
func writeError(w http.ResponseWriter, err error) {
	kind := common.KindOf(err)
	body := envelope{Status: kind.Code()}
	if kind == common.ErrInvalidParameters && err != kind {
		body.Message = err.Error()
	}
	writeJSON(w, body)
}
