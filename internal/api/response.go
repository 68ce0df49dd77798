package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the wire error payload. The field names are part of the
// public contract.
type ErrorResponse struct {
	Tipo     string `json:"Tipo"`
	Mensagem string `json:"Mensagem"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, kind, message string) {
	writeJSON(w, code, ErrorResponse{Tipo: kind, Mensagem: message})
}
