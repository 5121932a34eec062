package httptransport

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/AitaayiM/Employee-Records-Management-System/internal/adapters/wire"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/account"
	"github.com/AitaayiM/Employee-Records-Management-System/internal/core/authz"
	"github.com/go-chi/chi/v5"
)

type authHandler struct {
	accounts account.UseCase
	gate     Authorizer
	logger   *slog.Logger
}

// Register は認証関連のルートを登録します。
func (h *authHandler) Register(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/signin", h.handleSignIn)
	r.Patch("/auth/{userId}/activate", h.handleActivate)
}

func (h *authHandler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Authorize(r.Context(), PrincipalFromContext(r.Context()), authz.OpSignup, 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req wire.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	created, err := h.accounts.Signup(r.Context(), account.SignupInput{Email: req.Email, Password: req.Password, Role: req.Role})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromAccount(created))
}

func (h *authHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Authorize(r.Context(), PrincipalFromContext(r.Context()), authz.OpSignIn, 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req wire.SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.accounts.SignIn(r.Context(), account.SignInInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromSignIn(result))
}

func (h *authHandler) handleActivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		writeError(w, r, h.logger, account.ErrInvalidID)
		return
	}

	principal := PrincipalFromContext(r.Context())
	if err := h.gate.Authorize(r.Context(), principal, authz.OpActivateAccount, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	activated, err := h.accounts.Activate(r.Context(), account.ActivateInput{Actor: *principal, AccountID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromAccount(activated))
}
