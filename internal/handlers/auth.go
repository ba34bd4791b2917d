// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkwell/internal/middleware"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

// totpIssuer labels enrollment QR codes in authenticator apps.
const totpIssuer = "Inkwell"

// Auth groups the authentication handlers: session login and logout plus
// optional TOTP two-factor enrollment and verification. These routes sit
// outside the policy table; each checks the session state it needs.
type Auth struct {
	sessions *session.Store
	users    *store.UserStore
}

// NewAuth creates the auth handler group.
func NewAuth(sessions *session.Store, users *store.UserStore) *Auth {
	return &Auth{sessions: sessions, users: users}
}

// Login checks email and password and establishes a session. Accounts with
// TOTP enabled get a provisional session and must verify a code before the
// actor resolves; accounts without it are signed in immediately.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
		return
	}

	user, err := a.users.FindByEmail(in.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeInternal(w)
		return
	}
	if user == nil || !a.users.CheckPassword(user, in.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		TwoFADone: !user.TOTPEnabled,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":        user.Username,
		"role":            user.Role,
		"two_fa_required": user.TOTPEnabled,
	})
}

// Logout destroys the current session. Succeeds even without one.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
		writeInternal(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TwoFASetup generates a fresh TOTP secret for the signed-in user and
// returns it with an enrollment QR code. The secret only takes effect once
// a code is verified.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFor(w, r)
	if !ok {
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeInternal(w)
		return
	}

	if err := a.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeInternal(w)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"qr_png":      base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// TwoFAVerify validates a TOTP code. A valid code on first verification
// enables TOTP for the account; either way it marks the session complete.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.sessionFor(w, r)
	if !ok {
		return
	}

	var in struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Could not parse the request body.")
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeInternal(w)
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "totp_not_set_up", "Two-factor authentication has not been set up.")
		return
	}

	if !totp.Validate(in.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid_code", "Invalid verification code.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeInternal(w)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verified": true})
}

// sessionFor fetches the raw session for the 2FA endpoints, which must
// work before the actor middleware considers the session complete.
func (a *Auth) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Data, bool) {
	if actor := middleware.ActorFromCtx(r.Context()); actor != nil {
		return actor, true
	}
	sess, err := a.sessions.Get(r.Context(), r)
	if err != nil {
		slog.Error("session fetch failed", "error", err)
		writeInternal(w)
		return nil, false
	}
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Authentication required.")
		return nil, false
	}
	return sess, true
}
