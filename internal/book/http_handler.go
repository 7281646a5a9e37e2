package book

import (
	"bookcatalog/internal/httpx"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, log: log}
}

// List handles GET /api/v1/books
// @Summary List books
// @Description List every book, optionally filtered by exact title or title keyword
// @Tags books
// @Produce json
// @Param title query string false "Exact title, case-sensitive"
// @Param q query string false "Title keyword, case-insensitive"
// @Success 200 {array} Book
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var (
		books []Book
		err   error
	)
	switch {
	case query.Get("title") != "":
		books, err = h.service.FindByTitle(r.Context(), query.Get("title"))
	case query.Get("q") != "":
		books, err = h.service.SearchByTitle(r.Context(), query.Get("q"))
	default:
		books, err = h.service.ListBooks(r.Context())
	}
	if err != nil {
		h.internalError(w, r, "list books failed", err)
		return
	}
	if books == nil {
		books = []Book{}
	}

	httpx.JSON(w, http.StatusOK, books)
}

// GetByID handles GET /api/v1/books/{id}
// @Summary Get book by id
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} Book
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 "Book not found, empty body"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/v1/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book id must be an integer", []httpx.ErrorDetail{
			{Field: "id", Message: "must be a base-10 integer"},
		})
		return
	}

	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w)
			return
		}
		h.internalError(w, r, "get book failed", err)
		return
	}

	httpx.JSON(w, http.StatusOK, book)
}

func (h *HTTPHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.log.Error(msg,
		zap.String("request_id", httpx.RequestIDFrom(r)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
