package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/leadisle/faceid/internal/pairing/domain"
	"github.com/leadisle/faceid/internal/pairing/service"
	"github.com/leadisle/faceid/pkg/httpx"
	"github.com/leadisle/faceid/pkg/pairsdk"
	"github.com/leadisle/faceid/pkg/slogx"
)

// SessionsHandler serves the PC-side session endpoints.
type SessionsHandler struct {
	PairingService *service.PairingService
}

// HandleCreate handles POST /v1/sessions
//
//	@Summary		Create a pairing session
//	@Description	Opens a short-lived pairing session of the given kind. The returned session id is the QR payload the PC renders for the phone.
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pairsdk.CreateSessionRequest	true	"Session kind: register or authenticate"
//	@Success		201		{object}	pairsdk.SessionResponse			"The new pending session"
//	@Failure		400		{object}	pairsdk.ErrorResponse			"Unknown kind or malformed body"
//	@Failure		500		{object}	pairsdk.ErrorResponse			"Internal server error"
//	@Router			/v1/sessions [post].
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pairsdk.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	session, err := h.PairingService.CreateSession(ctx, domain.SessionKind(req.Kind))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			pairsdk.ErrInvalidRequest.WriteError(w)
			return
		}
		log.Error("failed to create session", "err", err)
		pairsdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("pairing session created", "session_id", session.ID, "kind", session.Kind)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(session, time.Now().UTC()))
}

// HandleGet handles GET /v1/sessions/{id}
//
//	@Summary		Get a pairing session
//	@Description	Returns the session's current state. Non-terminal sessions past their expiry are reported as failed.
//	@Tags			Sessions
//	@Produce		json
//	@Param			id	path		string					true	"Session id"
//	@Success		200	{object}	pairsdk.SessionResponse	"Current session state"
//	@Failure		404	{object}	pairsdk.ErrorResponse	"Unknown session"
//	@Failure		500	{object}	pairsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/sessions/{id} [get].
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	session, err := h.PairingService.GetSession(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			pairsdk.ErrInvalidSession.WriteError(w)
			return
		}
		log.Error("failed to load session", "err", err)
		pairsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionResponse(session, time.Now().UTC()))
}

func sessionResponse(s domain.Session, now time.Time) pairsdk.SessionResponse {
	return pairsdk.SessionResponse{
		SessionID: s.ID,
		Kind:      string(s.Kind),
		Status:    string(s.EffectiveStatus(now)),
		Username:  s.Username,
		ExpiresAt: s.ExpiresAt,
	}
}
