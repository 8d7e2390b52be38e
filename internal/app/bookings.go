package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

const (
	bookingConfirmationTemplate = "booking_confirmation.tmpl"
	bookingCancelledTemplate    = "booking_cancelled.tmpl"
)

func (app *Application) GetBookings(w http.ResponseWriter, r *http.Request, params api.GetBookingsParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}

	views, metadata, err := app.engine.ListBookings(r.Context(), app.contextGetUserId(r), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		Bookings: make([]api.Booking, len(views)),
		Metadata: toApiMetadata(metadata),
	}

	for i := range views {
		resp.Bookings[i] = toApiBooking(&views[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.CreateBookingRequest

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

	userId := app.contextGetUserId(r)

	view, err := app.engine.Reserve(r.Context(), input.SessionId, userId, input.SeatIds)
	if err != nil {
		app.bookingErrorResponse(w, r, "reserve", err)
		return
	}

	app.metrics.recordBooking(r.Context(), len(view.Seats))

	logger.Info("booking confirmed",
		"booking_id", view.ID,
		"session_id", view.SessionID,
		"seats", len(view.Seats),
		"total_price", formatAmount(view.TotalPrice))

	app.sendBookingMail(r, userId, bookingConfirmationTemplate, view)

	err = app.writeJSON(w, http.StatusCreated, toApiBooking(view), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingById(w http.ResponseWriter, r *http.Request, bookingId api.BookingId) {
	view, err := app.engine.GetBooking(r.Context(), bookingId, app.contextGetUserId(r))
	if err != nil {
		app.bookingErrorResponse(w, r, "get_booking", err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toApiBooking(view), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBooking(w http.ResponseWriter, r *http.Request, bookingId api.BookingId) {
	userId := app.contextGetUserId(r)

	_, err := app.engine.Cancel(r.Context(), bookingId, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, "cancel", err)
		return
	}

	app.metrics.recordCancellation(r.Context())

	app.contextGetLogger(r).Info("booking cancelled", "booking_id", bookingId)

	view, err := app.engine.GetBooking(r.Context(), bookingId, userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.sendBookingMail(r, userId, bookingCancelledTemplate, view)

	err = app.writeJSON(w, http.StatusOK, toApiBooking(view), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// sendBookingMail notifies the user in the background. A failed mail never fails
// the request that triggered it.
func (app *Application) sendBookingMail(r *http.Request, userId int, templateFile string, view *domain.BookingView) {
	ctx := context.WithoutCancel(r.Context())
	logger := app.contextGetLogger(r).With("booking_id", view.ID, "template", templateFile)

	app.background(logger, func() {
		user, err := app.userRepo.GetById(ctx, userId)
		if err != nil {
			logger.Error("failed to load user for booking mail", "error", err)
			return
		}

		err = app.mailer.Send(user.Email, templateFile, bookingMailData(user, view))
		if err != nil {
			logger.Error("failed to send booking mail", "error", err)
			return
		}

		logger.Info("booking mail sent")
	})
}

func bookingMailData(user *domain.User, view *domain.BookingView) map[string]any {
	labels := make([]string, len(view.Seats))
	for i, seat := range view.Seats {
		labels[i] = seat.Label()
	}

	return map[string]any{
		"name":       user.Name,
		"reference":  view.Reference.String(),
		"movieTitle": view.Session.MovieTitle,
		"hallName":   view.Session.HallName,
		"startTime":  view.Session.StartTime.Format(time.RFC1123),
		"seats":      strings.Join(labels, ", "),
		"totalPrice": formatAmount(view.TotalPrice),
	}
}

func toApiBooking(view *domain.BookingView) api.Booking {
	return api.Booking{
		Id:         view.ID,
		Reference:  view.Reference,
		Status:     api.BookingStatus(view.Status),
		TotalPrice: formatAmount(view.TotalPrice),
		Session:    toApiSession(view.Session),
		Seats:      toApiSeats(view.Seats),
		CreatedAt:  view.CreatedAt,
		UpdatedAt:  view.UpdatedAt,
	}
}

