package app

import (
	"net/http"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/metinatakli/cinema-seat-booking/internal/reservation"
	"github.com/shopspring/decimal"
)

func (app *Application) GetSessions(w http.ResponseWriter, r *http.Request, params api.GetSessionsParams) {
	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	var filters domain.SessionFilters
	if params.MovieId != nil {
		filters.MovieID = *params.MovieId
	}
	if params.Date != nil {
		filters.Day = params.Date.Time
	}

	sessions, err := app.sessionRepo.GetAll(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.SessionListResponse{
		Sessions: make([]api.Session, len(sessions)),
	}

	for i, session := range sessions {
		resp.Sessions[i] = toApiSession(session)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetSessionById(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	session, seats, err := app.engine.SeatMap(r.Context(), sessionId)
	if err != nil {
		app.bookingErrorResponse(w, r, "seat_map", err)
		return
	}

	resp := api.SessionDetailResponse{
		Session: toApiSession(*session),
		Seats:   make([]api.SeatAvailability, len(seats)),
	}

	for i, seat := range seats {
		resp.Seats[i] = api.SeatAvailability{
			Id:        seat.ID,
			Row:       seat.Row,
			Number:    seat.SeatNumber,
			Label:     seat.Label(),
			Available: seat.Available,
		}

		if seat.Available {
			resp.AvailableSeats++
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateSession(w http.ResponseWriter, r *http.Request) {
	input, ok := app.readSessionInput(w, r)
	if !ok {
		return
	}

	session, err := app.scheduler.CreateSession(r.Context(), input)
	if err != nil {
		app.bookingErrorResponse(w, r, "create_session", err)
		return
	}

	app.contextGetLogger(r).Info("session scheduled",
		"session_id", session.ID,
		"hall_id", session.HallID,
		"start_time", session.StartTime)

	app.writeSession(w, r, http.StatusCreated, session.ID)
}

func (app *Application) UpdateSession(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	input, ok := app.readSessionInput(w, r)
	if !ok {
		return
	}

	session, err := app.scheduler.UpdateSession(r.Context(), sessionId, input)
	if err != nil {
		app.bookingErrorResponse(w, r, "update_session", err)
		return
	}

	app.contextGetLogger(r).Info("session rescheduled",
		"session_id", session.ID,
		"hall_id", session.HallID,
		"start_time", session.StartTime)

	app.writeSession(w, r, http.StatusOK, session.ID)
}

func (app *Application) DeleteSession(w http.ResponseWriter, r *http.Request, sessionId api.SessionId) {
	err := app.scheduler.DeleteSession(r.Context(), sessionId)
	if err != nil {
		app.bookingErrorResponse(w, r, "delete_session", err)
		return
	}

	app.contextGetLogger(r).Info("session deleted", "session_id", sessionId)

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) readSessionInput(w http.ResponseWriter, r *http.Request) (reservation.SessionInput, bool) {
	var input api.SessionRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return reservation.SessionInput{}, false
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return reservation.SessionInput{}, false
	}

	// the price tag already guarantees a parsable amount
	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return reservation.SessionInput{}, false
	}

	return reservation.SessionInput{
		MovieID:   input.MovieId,
		HallID:    input.HallId,
		StartTime: input.StartTime.UTC(),
		Price:     price,
	}, true
}

func (app *Application) writeSession(w http.ResponseWriter, r *http.Request, status int, sessionID int) {
	detail, err := app.sessionRepo.GetById(r.Context(), sessionID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, status, toApiSession(*detail), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiSession(session domain.SessionDetail) api.Session {
	resp := api.Session{
		Id:              session.ID,
		MovieId:         session.MovieID,
		MovieTitle:      session.MovieTitle,
		HallId:          session.HallID,
		HallName:        session.HallName,
		StartTime:       session.StartTime,
		EndTime:         session.EndTime(),
		DurationMinutes: session.DurationMinutes,
		Price:           formatAmount(session.Price),
	}

	if session.MoviePosterUrl != "" {
		resp.MoviePosterUrl = &session.MoviePosterUrl
	}

	return resp
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
