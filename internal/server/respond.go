package server

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

//nolint:gochecknoglobals // Codec configuration meant to be immutable.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RespondWithError sends {"error": message} with the given status.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithJSON sends payload as JSON. A nil payload sends no body.
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondWithHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
