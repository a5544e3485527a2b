package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/leadisle/faceid/internal/pairing/service"
	"github.com/leadisle/faceid/pkg/httpx"
	"github.com/leadisle/faceid/pkg/pairsdk"
	"github.com/leadisle/faceid/pkg/slogx"
)

// AuthenticationHandler serves the phone-side authentication ceremony.
type AuthenticationHandler struct {
	PairingService *service.PairingService
}

// HandleStart handles POST /v1/authentication/start
//
//	@Summary		Start an authentication ceremony
//	@Description	Called by the phone after scanning a login QR code. Claims the pending session and returns discoverable WebAuthn request options; the user is identified by the credential the phone answers with.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pairsdk.AuthenticationStartRequest	true	"Session id"
//	@Success		200		{object}	pairsdk.CeremonyOptions				"WebAuthn request options"
//	@Failure		400		{object}	pairsdk.ErrorResponse				"Malformed body"
//	@Failure		404		{object}	pairsdk.ErrorResponse				"Unknown session, wrong kind, or already claimed"
//	@Failure		410		{object}	pairsdk.ErrorResponse				"Session expired"
//	@Failure		500		{object}	pairsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/authentication/start [post].
func (h *AuthenticationHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pairsdk.AuthenticationStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.SessionID == "" {
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	options, err := h.PairingService.StartAuthentication(ctx, req.SessionID)
	if err != nil {
		writeCeremonyError(w, log, err)
		return
	}

	log.Info("authentication ceremony started", "session_id", req.SessionID)
	httpx.WriteJSON(w, http.StatusOK, options)
}

// HandleFinish handles POST /v1/authentication/finish
//
//	@Summary		Finish an authentication ceremony
//	@Description	Verifies the authenticator's assertion response. On success the session succeeds, the stored signature counter advances, and an access token for the user is returned. An unknown credential or rejected assertion fails the session.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pairsdk.AuthenticationFinishRequest	true	"Session id and assertion response"
//	@Success		200		{object}	pairsdk.FinishResponse				"Ceremony outcome"
//	@Failure		400		{object}	pairsdk.ErrorResponse				"Malformed body or assertion response"
//	@Failure		404		{object}	pairsdk.ErrorResponse				"Unknown session or session not scanned"
//	@Failure		410		{object}	pairsdk.ErrorResponse				"Session expired"
//	@Failure		500		{object}	pairsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/authentication/finish [post].
func (h *AuthenticationHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pairsdk.AuthenticationFinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.SessionID == "" || len(req.Response) == 0 {
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.PairingService.FinishAuthentication(ctx, req.SessionID, req.Response)
	if errors.Is(err, service.ErrUserNotFound) {
		// The assertion named a credential nobody registered. The session
		// is already failed; report the outcome rather than an HTTP error.
		log.Warn("assertion from unknown credential", "session_id", req.SessionID)
		httpx.WriteJSON(w, http.StatusOK, pairsdk.FinishResponse{
			Verified: false,
			Error:    "User not found",
		})
		return
	}
	if err != nil {
		writeCeremonyError(w, log, err)
		return
	}

	if !result.Verified {
		log.Warn("authentication assertion rejected", "session_id", req.SessionID)
		httpx.WriteJSON(w, http.StatusOK, pairsdk.FinishResponse{Verified: false})
		return
	}

	log.Info("authentication completed", "session_id", req.SessionID, "username", result.Username)
	httpx.WriteJSON(w, http.StatusOK, pairsdk.FinishResponse{
		Verified:    true,
		Username:    result.Username,
		AccessToken: result.AccessToken,
	})
}
