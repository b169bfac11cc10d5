package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/credvault/credvault/internal/handler/dto"
	"github.com/credvault/credvault/internal/middleware"
	"github.com/credvault/credvault/internal/service"
)

// AccountHandler handles HTTP requests for account operations.
type AccountHandler struct {
	svc    *service.AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Register(r.Context(), creds)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_registered",
		"request_id", middleware.GetRequestID(r.Context()),
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "User registered"})
}

// Login handles POST /api/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Login(r.Context(), creds)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("user_logged_in",
		"request_id", middleware.GetRequestID(r.Context()),
		"user_id", user.ID,
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Login successful"})
}

// List handles GET /api/users.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// decodeCredentials reads the request body. An empty body decodes to empty
// credentials so that it is reported as a validation error, not a JSON error.
func (h *AccountHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (service.Credentials, bool) {
	var req dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return service.Credentials{}, false
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return service.Credentials{}, false
	}

	return service.Credentials{Email: req.Email, Password: req.Password}, true
}

// handleServiceError maps service errors to HTTP responses.
// Anything not in the service error set is logged and reported as an opaque 500.
func (h *AccountHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
	case errors.Is(err, service.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "PASSWORD_TOO_LONG", "Password must be at most 72 bytes")
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusBadRequest, "USER_EXISTS", "User already exists")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrAuthentication):
		writeError(w, http.StatusUnauthorized, "INVALID_PASSWORD", "Invalid password")
	default:
		h.logger.Error("internal_error",
			"request_id", middleware.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
