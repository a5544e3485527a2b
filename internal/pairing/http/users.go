package http

import (
	"net/http"

	"github.com/leadisle/faceid/internal/pairing/service"
	"github.com/leadisle/faceid/pkg/httpx"
	"github.com/leadisle/faceid/pkg/pairsdk"
	"github.com/leadisle/faceid/pkg/slogx"
)

// UsersHandler serves the user listing endpoint.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleList handles GET /v1/users
//
//	@Summary		List users
//	@Description	Returns all user records, including ones whose registration never finished (registered=false). Public keys and counters are never exposed.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{array}		pairsdk.User			"All user records"
//	@Failure		500	{object}	pairsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	creds, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		pairsdk.ErrServerError.WriteError(w)
		return
	}

	users := make([]pairsdk.User, 0, len(creds))
	for _, c := range creds {
		users = append(users, pairsdk.User{
			ID:         c.UserID,
			Username:   c.Username,
			Registered: c.Completed(),
			CreatedAt:  c.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, users)
}
