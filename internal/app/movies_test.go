package app

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/cinema-seat-booking/api"
	"github.com/metinatakli/cinema-seat-booking/internal/domain"
	"github.com/metinatakli/cinema-seat-booking/internal/validator"
	"github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetMovies(t *testing.T) {
	releaseDate := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		params         api.GetMoviesParams
		setupMocks     func(ta *testApplication)
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.MovieListResponse
	}{
		{
			name:   "successful retrieval with default parameters",
			params: api.GetMoviesParams{},
			setupMocks: func(ta *testApplication) {
				filters := domain.MovieFilters{
					Pagination: domain.Pagination{Page: 1, PageSize: 10, Sort: "id"},
				}
				ta.movies.On("GetAll", mock.Anything, filters).Return([]*domain.Movie{
					{ID: 1, Title: "Inception", Genre: "Sci-Fi", Duration: 148, ReleaseDate: releaseDate},
				}, &domain.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.MovieListResponse{
				Movies: []api.Movie{
					{Id: 1, Title: "Inception", Genre: "Sci-Fi", Duration: 148, ReleaseDate: types.Date{Time: releaseDate}},
				},
				Metadata: api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 1},
			},
		},
		{
			name: "custom parameters are passed through",
			params: api.GetMoviesParams{
				Page:     ptr(2),
				PageSize: ptr(5),
				Sort:     ptr("-title"),
				Search:   ptr(" dream "),
				Genre:    ptr("Sci-Fi"),
			},
			setupMocks: func(ta *testApplication) {
				filters := domain.MovieFilters{
					Pagination: domain.Pagination{Page: 2, PageSize: 5, Sort: "-title", Search: "dream"},
					Genre:      "Sci-Fi",
				}
				ta.movies.On("GetAll", mock.Anything, filters).Return([]*domain.Movie{},
					&domain.Metadata{CurrentPage: 2, FirstPage: 1, LastPage: 1, PageSize: 5, TotalRecords: 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.MovieListResponse{
				Movies:   []api.Movie{},
				Metadata: api.Metadata{CurrentPage: 2, FirstPage: 1, LastPage: 1, PageSize: 5, TotalRecords: 1},
			},
		},
		{
			name:           "validation error - negative page",
			params:         api.GetMoviesParams{Page: ptr(-1)},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "must be at least 1",
		},
		{
			name:           "validation error - page size too large",
			params:         api.GetMoviesParams{PageSize: ptr(1000)},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "must be at most 100",
		},
		{
			name:       "validation error - invalid sort parameter",
			params:     api.GetMoviesParams{Sort: ptr("id; DROP TABLE movies; --")},
			wantStatus: http.StatusBadRequest,
			wantErrMessage: fmt.Sprintf("must be one of: %s",
				"id -id title -title release_date -release_date duration -duration"),
		},
		{
			name:   "database error",
			params: api.GetMoviesParams{},
			setupMocks: func(ta *testApplication) {
				ta.movies.On("GetAll", mock.Anything, mock.Anything).Return(nil, nil, errors.New("connection error"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApplication()
			if tt.setupMocks != nil {
				tt.setupMocks(ta)
			}

			w, r := executeRequest(t, http.MethodGet, "/movies", nil)

			ta.GetMovies(w, r, tt.params)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("GetMovies() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantResponse != nil {
				resp := decodeResponse[api.MovieListResponse](t, w)

				if diff := cmp.Diff(tt.wantResponse, &resp); diff != "" {
					t.Errorf("GetMovies() response mismatch (-want +got):\n%s", diff)
				}
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})

			ta.movies.AssertExpectations(t)
		})
	}
}

func TestGetMovieById(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		ta := newTestApplication()
		ta.movies.On("GetById", mock.Anything, 3).Return(&domain.Movie{ID: 3, Title: "Heat", Duration: 170}, nil)

		w, r := executeRequest(t, http.MethodGet, "/movies/3", nil)
		ta.GetMovieById(w, r, 3)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse[api.Movie](t, w)
		assert.Equal(t, "Heat", resp.Title)
		assert.Equal(t, 170, resp.Duration)
	})

	t.Run("not found", func(t *testing.T) {
		ta := newTestApplication()
		ta.movies.On("GetById", mock.Anything, 3).Return(nil, domain.ErrRecordNotFound)

		w, r := executeRequest(t, http.MethodGet, "/movies/3", nil)
		ta.GetMovieById(w, r, 3)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateMovie(t *testing.T) {
	releaseDate := types.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name           string
		input          api.CreateMovieRequest
		setupMocks     func(ta *testApplication)
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "created",
			input: api.CreateMovieRequest{
				Title:       "Dune: Part Two",
				Duration:    166,
				ReleaseDate: releaseDate,
				Genre:       ptr("Sci-Fi"),
				PosterUrl:   ptr("https://example.com/dune.jpg"),
			},
			setupMocks: func(ta *testApplication) {
				ta.movies.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Movie) bool {
					return m.Title == "Dune: Part Two" && m.Duration == 166 && m.Genre == "Sci-Fi"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Movie).ID = 10
				}).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			input:          api.CreateMovieRequest{Duration: 166, ReleaseDate: releaseDate},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: validator.ErrRequired,
		},
		{
			name:           "duration out of range",
			input:          api.CreateMovieRequest{Title: "Shoah", Duration: 1000, ReleaseDate: releaseDate},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: "must be at most 600",
		},
		{
			name: "invalid poster url",
			input: api.CreateMovieRequest{
				Title:       "Dune",
				Duration:    155,
				ReleaseDate: releaseDate,
				PosterUrl:   ptr("not a url"),
			},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: validator.ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApplication()
			if tt.setupMocks != nil {
				tt.setupMocks(ta)
			}

			w, r := executeRequest(t, http.MethodPost, "/movies", tt.input)

			ta.CreateMovie(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				resp := decodeResponse[api.Movie](t, w)
				assert.Equal(t, 10, resp.Id)
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})

			ta.movies.AssertExpectations(t)
		})
	}
}

func TestUpdateMovie(t *testing.T) {
	releaseDate := types.Date{Time: time.Date(2021, 10, 22, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name           string
		input          api.CreateMovieRequest
		setupMocks     func(ta *testApplication)
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "updated",
			input: api.CreateMovieRequest{
				Title:       "  Dune  ",
				Duration:    156,
				ReleaseDate: releaseDate,
				Genre:       ptr("Sci-Fi"),
			},
			setupMocks: func(ta *testApplication) {
				ta.movies.On("Update", mock.Anything, mock.MatchedBy(func(m *domain.Movie) bool {
					return m.ID == 4 && m.Title == "Dune" && m.Duration == 156 && m.Genre == "Sci-Fi"
				})).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "unknown movie",
			input: api.CreateMovieRequest{Title: "Dune", Duration: 156, ReleaseDate: releaseDate},
			setupMocks: func(ta *testApplication) {
				ta.movies.On("Update", mock.Anything, mock.Anything).Return(domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:           "invalid duration",
			input:          api.CreateMovieRequest{Title: "Dune", Duration: 0, ReleaseDate: releaseDate},
			wantStatus:     http.StatusBadRequest,
			wantErrMessage: validator.ErrRequired,
		},
		{
			name:  "database error",
			input: api.CreateMovieRequest{Title: "Dune", Duration: 156, ReleaseDate: releaseDate},
			setupMocks: func(ta *testApplication) {
				ta.movies.On("Update", mock.Anything, mock.Anything).Return(errors.New("boom"))
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApplication()
			if tt.setupMocks != nil {
				tt.setupMocks(ta)
			}

			w, r := executeRequest(t, http.MethodPut, "/movies/4", tt.input)

			ta.UpdateMovie(w, r, 4)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				resp := decodeResponse[api.Movie](t, w)
				assert.Equal(t, 4, resp.Id)
				assert.Equal(t, "Dune", resp.Title)
				assert.Equal(t, 156, resp.Duration)
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})

			ta.movies.AssertExpectations(t)
		})
	}
}

func TestDeleteMovie(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
		wantKind   *api.ErrorKind
	}{
		{name: "deleted", wantStatus: http.StatusNoContent},
		{name: "unknown movie", repoErr: domain.ErrRecordNotFound, wantStatus: http.StatusNotFound},
		{
			name:       "movie with sessions",
			repoErr:    domain.ErrMovieHasSessions,
			wantStatus: http.StatusConflict,
			wantKind:   ptr(api.MovieHasSessions),
		},
		{name: "database error", repoErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApplication()
			ta.movies.On("Delete", mock.Anything, 3).Return(tt.repoErr)

			w, r := executeRequest(t, http.MethodDelete, "/movies/3", nil)
			ta.DeleteMovie(w, r, 3)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantKind != nil {
				resp := decodeResponse[api.ErrorResponse](t, w)
				assert.Equal(t, tt.wantKind, resp.Kind)
			}

			ta.movies.AssertExpectations(t)
		})
	}
}
