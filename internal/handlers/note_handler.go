package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
)

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	noteRepository repositories.NoteRepository
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteRepo repositories.NoteRepository) *NoteHandler {
	return &NoteHandler{noteRepository: noteRepo}
}

// RegisterNoteRoutes registers note-related routes
func (h *NoteHandler) RegisterNoteRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("", h.CreateNote, auth)
	g.GET("/by/:username", h.GetNotesByUsername)
	g.DELETE("/:id", h.DeleteNote, auth)
}

// CreateNote creates a new note
func (h *NoteHandler) CreateNote(c echo.Context) error {
	var req models.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Note must not be empty")
	}

	note := &models.Note{UserID: getUserIDFromContext(c), Content: req.Content}
	if err := h.noteRepository.CreateNote(note); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while creating note")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Note created!", "noteId": note.ID})
}

// GetNotesByUsername returns a user's notes, newest first
func (h *NoteHandler) GetNotesByUsername(c echo.Context) error {
	notes, err := h.noteRepository.ListByUsername(c.Param("username"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, notes)
}

// DeleteNote deletes a note owned by the requester
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	noteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid note ID")
	}

	if err := h.noteRepository.DeleteOwned(uint(noteID), getUserIDFromContext(c)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Note not found or not yours")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted"})
}
