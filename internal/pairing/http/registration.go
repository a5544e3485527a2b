package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leadisle/faceid/internal/pairing/service"
	"github.com/leadisle/faceid/pkg/httpx"
	"github.com/leadisle/faceid/pkg/pairsdk"
	"github.com/leadisle/faceid/pkg/slogx"
)

// RegistrationHandler serves the phone-side registration ceremony.
type RegistrationHandler struct {
	PairingService *service.PairingService
}

// HandleStart handles POST /v1/registration/start
//
//	@Summary		Start a registration ceremony
//	@Description	Called by the phone after scanning a registration QR code. Claims the pending session for the username and returns WebAuthn creation options for the platform authenticator.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pairsdk.RegistrationStartRequest	true	"Session id and desired username"
//	@Success		200		{object}	pairsdk.CeremonyOptions				"WebAuthn creation options"
//	@Failure		400		{object}	pairsdk.ErrorResponse				"Malformed body or missing username"
//	@Failure		404		{object}	pairsdk.ErrorResponse				"Unknown session, wrong kind, or already claimed"
//	@Failure		409		{object}	pairsdk.ErrorResponse				"Username already registered"
//	@Failure		410		{object}	pairsdk.ErrorResponse				"Session expired"
//	@Failure		500		{object}	pairsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/registration/start [post].
func (h *RegistrationHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pairsdk.RegistrationStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.SessionID == "" || req.Username == "" {
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	options, err := h.PairingService.StartRegistration(ctx, req.SessionID, req.Username)
	if err != nil {
		writeCeremonyError(w, log, err)
		return
	}

	log.Info("registration ceremony started", "session_id", req.SessionID, "username", req.Username)
	httpx.WriteJSON(w, http.StatusOK, options)
}

// HandleFinish handles POST /v1/registration/finish
//
//	@Summary		Finish a registration ceremony
//	@Description	Verifies the authenticator's attestation response. On success the user's credential is stored and the session succeeds; a rejected attestation fails the session.
//	@Tags			Registration
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pairsdk.RegistrationFinishRequest	true	"Session id and attestation response"
//	@Success		200		{object}	pairsdk.FinishResponse				"Ceremony outcome"
//	@Failure		400		{object}	pairsdk.ErrorResponse				"Malformed body or attestation response"
//	@Failure		404		{object}	pairsdk.ErrorResponse				"Unknown session or session not scanned"
//	@Failure		410		{object}	pairsdk.ErrorResponse				"Session expired"
//	@Failure		500		{object}	pairsdk.ErrorResponse				"Internal server error"
//	@Router			/v1/registration/finish [post].
func (h *RegistrationHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req pairsdk.RegistrationFinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse request", "err", err)
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.SessionID == "" || len(req.Response) == 0 {
		pairsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	result, err := h.PairingService.FinishRegistration(ctx, req.SessionID, req.Response)
	if err != nil {
		writeCeremonyError(w, log, err)
		return
	}

	if !result.Verified {
		log.Warn("registration attestation rejected", "session_id", req.SessionID)
		httpx.WriteJSON(w, http.StatusOK, pairsdk.FinishResponse{Verified: false})
		return
	}

	log.Info("registration completed", "session_id", req.SessionID, "username", result.Username)
	httpx.WriteJSON(w, http.StatusOK, pairsdk.FinishResponse{
		Verified: true,
		Username: result.Username,
	})
}

// writeCeremonyError maps pairing service errors onto the wire error shapes
// shared by the ceremony endpoints.
func writeCeremonyError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSession):
		pairsdk.ErrInvalidSession.WriteError(w)
	case errors.Is(err, service.ErrSessionExpired):
		pairsdk.ErrSessionExpired.WriteError(w)
	case errors.Is(err, service.ErrAlreadyRegistered):
		pairsdk.ErrAlreadyRegistered.WriteError(w)
	case errors.Is(err, service.ErrMalformedResponse):
		log.Warn("malformed authenticator response", "err", err)
		pairsdk.ErrInvalidRequest.WriteError(w)
	default:
		log.Error("ceremony failed", "err", err)
		pairsdk.ErrServerError.WriteError(w)
	}
}
