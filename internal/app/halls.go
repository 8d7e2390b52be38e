package app

import (
	"errors"
	"net/http"
	"strings"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
)

func (app *Application) GetHalls(w http.ResponseWriter, r *http.Request) {
	halls, err := app.hallRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.HallListResponse{
		Halls: make([]api.Hall, len(halls)),
	}

	for i, hall := range halls {
		resp.Halls[i] = toApiHall(hall)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetHallById(w http.ResponseWriter, r *http.Request, hallId api.HallId) {
	hall, err := app.hallRepo.GetById(r.Context(), hallId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	seats, err := app.hallRepo.GetSeats(r.Context(), hallId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.HallDetailResponse{
		Hall:  toApiHall(*hall),
		Seats: toApiSeats(seats),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CreateHall(w http.ResponseWriter, r *http.Request) {
	var input api.CreateHallRequest

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

	hall := domain.Hall{
		Name:     strings.TrimSpace(input.Name),
		Capacity: input.Rows * input.SeatsPerRow,
	}

	seats, err := app.hallRepo.CreateWithSeats(r.Context(), &hall, input.Rows, input.SeatsPerRow)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("hall created", "hall_id", hall.ID, "capacity", hall.Capacity)

	resp := api.HallDetailResponse{
		Hall:  toApiHall(hall),
		Seats: toApiSeats(seats),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UpdateHall renames a hall. The seat layout is fixed once the hall is created.
func (app *Application) UpdateHall(w http.ResponseWriter, r *http.Request, hallId api.HallId) {
	var input api.UpdateHallRequest

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

	hall, err := app.hallRepo.Rename(r.Context(), hallId, strings.TrimSpace(input.Name))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.contextGetLogger(r).Info("hall renamed", "hall_id", hall.ID)

	err = app.writeJSON(w, http.StatusOK, toApiHall(*hall), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteHall(w http.ResponseWriter, r *http.Request, hallId api.HallId) {
	err := app.hallRepo.Delete(r.Context(), hallId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrHallHasSessions):
			app.catalogConflictResponse(w, r, api.HallHasSessions, "hall has scheduled sessions and cannot be deleted")
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.contextGetLogger(r).Info("hall deleted", "hall_id", hallId)

	w.WriteHeader(http.StatusNoContent)
}

func toApiHall(hall domain.Hall) api.Hall {
	return api.Hall{
		Id:        hall.ID,
		Name:      hall.Name,
		Capacity:  hall.Capacity,
		CreatedAt: hall.CreatedAt,
	}
}

func toApiSeat(seat domain.Seat) api.Seat {
	return api.Seat{
		Id:     seat.ID,
		Row:    seat.Row,
		Number: seat.SeatNumber,
		Label:  seat.Label(),
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	result := make([]api.Seat, len(seats))
	for i, seat := range seats {
		result[i] = toApiSeat(seat)
	}

	return result
}
