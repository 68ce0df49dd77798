package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sheikh-saqib/account-ledger-service/internal/ledger"
)

// KindInvalidRequest tags requests rejected before they reach the ledger:
// malformed JSON or a missing request key.
const KindInvalidRequest = "INVALID_REQUEST"

// Handler is the HTTP boundary. It translates transport requests into ledger
// calls and ledger errors into the {Tipo, Mensagem} payload.
type Handler struct {
	ledger *ledger.Service
	log    *slog.Logger
}

func NewHandler(svc *ledger.Service, log *slog.Logger) *Handler {
	return &Handler{ledger: svc, log: log}
}

// Routes mounts the API on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /movements", h.postMovement)
	mux.HandleFunc("GET /movements", h.listMovements)
	mux.HandleFunc("GET /accounts/{accountID}/balance", h.getBalance)
	return mux
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) postMovement(w http.ResponseWriter, r *http.Request) {
	var req ledger.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "malformed request body")
		return
	}
	if req.RequestKey == "" {
		writeError(w, http.StatusBadRequest, KindInvalidRequest, "requestKey is required")
		return
	}

	movementID, err := h.ledger.ProcessMovement(r.Context(), req)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(movementID))
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.ledger.Balance(r.Context(), r.PathValue("accountID"))
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.ledger.Movements(r.Context())
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

// writeLedgerError maps business-rule rejections to 400 and persistence
// failures to 500, keeping the same payload shape for both.
func (h *Handler) writeLedgerError(w http.ResponseWriter, err error) {
	var lerr *ledger.Error
	if !errors.As(err, &lerr) {
		h.log.Error("unexpected error reached the gateway", "error", err)
		writeError(w, http.StatusInternalServerError, ledger.KindPersistenceFailure, "internal error")
		return
	}
	status := http.StatusBadRequest
	if lerr.Fatal() {
		status = http.StatusInternalServerError
	}
	writeError(w, status, lerr.Kind, lerr.Message)
}
