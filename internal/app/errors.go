package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	appvalidator "github.com/metinatakli/cinema-seat-booking/internal/validator"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The method is not supported for this resource"
	ErrUnauthorized       = "You must be authenticated to access this resource"
	ErrForbidden          = "You do not have permission to access this resource"
	ErrInvalidCredentials = "Invalid authentication credentials"
	ErrFailedValidation   = "One or more fields failed validation"
	ErrEmailTaken         = "A user with this email address already exists"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

func (app *Application) writeError(w http.ResponseWriter, r *http.Request, status int, resp api.ErrorResponse) {
	resp.RequestId = middleware.GetReqID(r.Context())
	resp.Timestamp = time.Now()

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeError(w, r, status, api.ErrorResponse{Message: message})
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	resp := api.ErrorResponse{Message: ErrInternalServer}
	if errors.Is(err, domain.ErrStorageFailure) {
		resp.Kind = ptr(api.StorageFailure)
	}

	app.writeError(w, r, http.StatusInternalServerError, resp)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) invalidParameterResponse(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *api.InvalidParamFormatError
	if errors.As(err, &paramErr) {
		app.errorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("invalid value for parameter %s", paramErr.ParamName))
		return
	}

	app.badRequestResponse(w, r, err)
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthorized)
}

func (app *Application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, ErrForbidden)
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusConflict, message)
}

// catalogConflictResponse refuses to delete a catalog entry that sessions still reference.
func (app *Application) catalogConflictResponse(w http.ResponseWriter, r *http.Request, kind api.ErrorKind, message string) {
	app.writeError(w, r, http.StatusConflict, api.ErrorResponse{Message: message, Kind: ptr(kind)})
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, len(validationErrors)),
	}

	for i, fieldErr := range validationErrors {
		resp.ValidationErrors[i] = api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	err = app.writeJSON(w, http.StatusBadRequest, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// bookingErrorResponse maps the errors of the reservation engine and the scheduler
// to their HTTP representation. Anything it does not recognize is a server error.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var (
		invalidSeats *domain.InvalidSeatSelectionError
		unavailable  *domain.SeatsUnavailableError
		conflict     *domain.SchedulingConflictError

		status int
		resp   = api.ErrorResponse{Message: err.Error()}
	)

	switch {
	case errors.As(err, &invalidSeats):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.InvalidSeatSelection)
		if len(invalidSeats.SeatIDs) > 0 {
			resp.InvalidSeatIds = ptr(invalidSeats.SeatIDs)
		}
	case errors.Is(err, domain.ErrInvalidSeatSelection):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.InvalidSeatSelection)
	case errors.As(err, &unavailable):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.SeatsUnavailable)
		resp.ConflictingSeats = ptr(toApiSeats(unavailable.Seats))
	case errors.Is(err, domain.ErrSeatsUnavailable):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.SeatsUnavailable)
	case errors.Is(err, domain.ErrSessionStarted):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.SessionStarted)
	case errors.Is(err, domain.ErrAlreadyCancelled):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.AlreadyCancelled)
	case errors.Is(err, domain.ErrCancellationWindowClosed):
		status = http.StatusBadRequest
		resp.Kind = ptr(api.CancellationWindowClosed)
	case errors.As(err, &conflict):
		status = http.StatusConflict
		resp.Kind = ptr(api.SchedulingConflict)
		resp.ConflictingSessionId = ptr(conflict.SessionID)
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
		resp.Kind = ptr(api.SessionNotFound)
	case errors.Is(err, domain.ErrBookingNotFound):
		status = http.StatusNotFound
		resp.Kind = ptr(api.NotFoundOrUnauthorized)
	case errors.Is(err, domain.ErrMovieNotFound):
		status = http.StatusNotFound
		resp.Kind = ptr(api.MovieNotFound)
	case errors.Is(err, domain.ErrHallNotFound):
		status = http.StatusNotFound
		resp.Kind = ptr(api.HallNotFound)
	case errors.Is(err, domain.ErrSessionHasBookings):
		status = http.StatusConflict
		resp.Kind = ptr(api.SessionHasBookings)
	case errors.Is(err, domain.ErrHallHasSessions):
		status = http.StatusConflict
		resp.Kind = ptr(api.HallHasSessions)
	case errors.Is(err, domain.ErrMovieHasSessions):
		status = http.StatusConflict
		resp.Kind = ptr(api.MovieHasSessions)
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	app.metrics.recordRejection(r.Context(), operation, *resp.Kind)

	app.contextGetLogger(r).Warn("request refused", "operation", operation, "status", status, "reason", err.Error())

	app.writeError(w, r, status, resp)
}
