package app

import (
	"net/http"

	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/oapi-codegen/runtime/types"
)

func (app *Application) GetBookingReport(w http.ResponseWriter, r *http.Request) {
	report, err := app.engine.Report(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingReportResponse{
		Since:   report.Since,
		ByMovie: make([]api.MovieBookingStats, len(report.ByMovie)),
		ByDay:   make([]api.DailyBookingStats, len(report.ByDay)),
	}

	for i, stats := range report.ByMovie {
		resp.ByMovie[i] = api.MovieBookingStats{
			MovieId:    stats.MovieID,
			MovieTitle: stats.MovieTitle,
			Bookings:   stats.BookingCount,
			Seats:      stats.SeatCount,
			Revenue:    formatAmount(stats.Revenue),
		}
	}

	for i, stats := range report.ByDay {
		resp.ByDay[i] = api.DailyBookingStats{
			Day:      types.Date{Time: stats.Day},
			Bookings: stats.BookingCount,
			Revenue:  formatAmount(stats.Revenue),
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
