package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

var errBadCredentials = errors.New("bad credentials")

func (app *Application) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.RegisterRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := domain.NewUser(input.Name, input.Email, input.Phone, input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Create(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			logger.Warn("registration attempt for existing email")
			app.conflictResponse(w, r, ErrEmailTaken)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("user registered", "user_id", user.ID)

	err = app.writeJSON(w, http.StatusCreated, toApiUser(user), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		logger.Warn("login failed", "reason", "malformed credentials")
		app.invalidCredentialsResponse(w, r)
		return
	}

	user, err := app.authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, errBadCredentials):
			logger.Warn("login failed", "reason", err.Error())
			app.invalidCredentialsResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.startSession(r.Context(), user)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("user logged in", "user_id", user.ID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) Logout(w http.ResponseWriter, r *http.Request) {
	err := app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("user logged out")

	w.WriteHeader(http.StatusNoContent)
}

// authenticate returns an error wrapping errBadCredentials when the email is
// unknown or the password does not match.
func (app *Application) authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := app.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown email", errBadCredentials)
		}

		return nil, err
	}

	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, err
	}

	if !match {
		return nil, fmt.Errorf("%w: password mismatch", errBadCredentials)
	}

	return user, nil
}

// startSession renews the session token before storing the identity, so a
// token issued before login can not be reused afterwards.
func (app *Application) startSession(ctx context.Context, user *domain.User) error {
	err := app.sessionManager.RenewToken(ctx)
	if err != nil {
		return err
	}

	app.sessionManager.Put(ctx, SessionKeyUserId.String(), user.ID)
	app.sessionManager.Put(ctx, SessionKeyIsAdmin.String(), user.IsAdmin)

	return nil
}
