package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/models"
	"github.com/pklporto/backend/internal/repositories"
	"github.com/pklporto/backend/internal/storage"
	"github.com/pklporto/backend/pkg/config"
	"go.uber.org/zap"
)

// SongHandler handles song library HTTP requests
type SongHandler struct {
	songRepository repositories.SongRepository
	uploads        *storage.Disk
}

// NewSongHandler creates a new SongHandler
func NewSongHandler(songRepo repositories.SongRepository, uploads *storage.Disk) *SongHandler {
	return &SongHandler{songRepository: songRepo, uploads: uploads}
}

// RegisterSongRoutes registers song routes; uploading is admin-only
func (h *SongHandler) RegisterSongRoutes(g *echo.Group, auth, adminOnly echo.MiddlewareFunc) {
	g.GET("", h.GetSongs, auth)
	g.POST("/upload", h.UploadSong, auth, adminOnly)
	g.GET("/:id", h.GetSong)
}

// GetSongs returns the whole library ordered by artist, then title
func (h *SongHandler) GetSongs(c echo.Context) error {
	songs, err := h.songRepository.ListSongs()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, songs)
}

// UploadSong adds a song with its audio file to the library
func (h *SongHandler) UploadSong(c echo.Context) error {
	var req models.UploadSongRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Title, artist, and audio file are required")
	}

	file, err := c.FormFile("audioFile")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Title, artist, and audio file are required")
	}

	fileURL, err := h.uploads.SaveAudio(file)
	if err != nil {
		config.Logger.Error("saving audio failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store uploaded file")
	}

	song := &models.Song{Title: req.Title, Artist: req.Artist, FileURL: fileURL}
	if err := h.songRepository.CreateSong(song); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while uploading song")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Song added!", "songId": song.ID})
}

// GetSong returns one song
func (h *SongHandler) GetSong(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid song ID")
	}

	song, err := h.songRepository.GetSongByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Song not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, song)
}
