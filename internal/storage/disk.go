// Package storage persists uploaded media under a static-served
// directory tree, partitioned by kind: general uploads at the root,
// music under music/, stories under stories/. Rows reference files by
// the relative URL path returned here.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	kindGeneral = ""
	kindMusic   = "music"
	kindStories = "stories"
)

// ErrUnsupportedType rejects uploads whose declared content type does
// not fit the target slot.
var ErrUnsupportedType = fmt.Errorf("unsupported file type")

// Disk stores uploads on the local filesystem under root, which is the
// directory served at /uploads.
type Disk struct {
	root string
}

// NewDisk creates the upload directory tree if needed
func NewDisk(root string) (*Disk, error) {
	for _, kind := range []string{kindGeneral, kindMusic, kindStories} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("creating upload dir: %w", err)
		}
	}
	return &Disk{root: root}, nil
}

func (d *Disk) save(file *multipart.FileHeader, kind string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst, err := os.Create(filepath.Join(d.root, kind, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	if kind == kindGeneral {
		return "/uploads/" + name, nil
	}
	return "/uploads/" + kind + "/" + name, nil
}

// MediaType classifies an upload as image or video from its declared
// content type; anything else is rejected.
func MediaType(file *multipart.FileHeader) (string, error) {
	ct := file.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "image/"):
		return "image", nil
	case strings.HasPrefix(ct, "video/"):
		return "video", nil
	default:
		return "", ErrUnsupportedType
	}
}

// SavePostMedia stores a post media file (image or video) and returns
// its URL path and media type.
func (d *Disk) SavePostMedia(file *multipart.FileHeader) (url string, mediaType string, err error) {
	mediaType, err = MediaType(file)
	if err != nil {
		return "", "", err
	}
	url, err = d.save(file, kindGeneral)
	return url, mediaType, err
}

// SaveStoryMedia stores a story media file under stories/
func (d *Disk) SaveStoryMedia(file *multipart.FileHeader) (url string, mediaType string, err error) {
	mediaType, err = MediaType(file)
	if err != nil {
		return "", "", err
	}
	url, err = d.save(file, kindStories)
	return url, mediaType, err
}

// SaveProfilePicture stores a profile picture; only images are accepted
func (d *Disk) SaveProfilePicture(file *multipart.FileHeader) (string, error) {
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", ErrUnsupportedType
	}
	return d.save(file, kindGeneral)
}

// SaveAudio stores a song file under music/
func (d *Disk) SaveAudio(file *multipart.FileHeader) (string, error) {
	return d.save(file, kindMusic)
}

// Root returns the directory served at /uploads
func (d *Disk) Root() string { return d.root }
