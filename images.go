package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/folio/content"
)

const (
	profilePicSize = 512
	jpegQuality    = 85
	maxUploadSize  = 10 << 20 // 10MB
	uploadsSubdir  = "uploads"
)

// processProfilePic decodes an image, crops it to a centered square,
// scales it down to profilePicSize and encodes it as JPEG.
func processProfilePic(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	size := side
	if size > profilePicSize {
		size = profilePicSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := Slugify(strings.TrimSuffix(name, ext))
	if base == "" {
		base = "profile"
	}
	return base
}

// ensureUniqueFilename appends a counter while filename exists in dir.
func ensureUniqueFilename(dir, filename string) string {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	for counter := 2; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); err != nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}

// handleDraftPhoto stores an uploaded profile picture and points the open
// personal draft at it. The content document only changes on save.
func (a *App) handleDraftPhoto(c echo.Context) error {
	ws, err := a.adminWorkspace(c)
	if err != nil {
		return a.editorResponse(c, "", err)
	}
	if err := applyFormFields(c, ws.editor); err != nil {
		return a.editorResponse(c, openSection(ws), err)
	}
	if openSection(ws) != content.SectionPersonal {
		return c.String(http.StatusBadRequest, "Open the personal section to change the photo")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return a.renderSection(c, http.StatusBadRequest, content.SectionPersonal, pageState{message: "No image file provided."})
	}
	if file.Size > maxUploadSize {
		return a.renderSection(c, http.StatusBadRequest, content.SectionPersonal, pageState{message: "File too large (max 10MB)."})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := processProfilePic(src)
	if err != nil {
		return a.renderSection(c, http.StatusBadRequest, content.SectionPersonal, pageState{message: "Invalid image: " + err.Error()})
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	filename := ensureUniqueFilename(dir, slugifyFilename(file.Filename)+".jpg")
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	pic := path.Join("/public", uploadsSubdir, filename)
	return a.editorResponse(c, content.SectionPersonal, ws.editor.SetField("profilePic", pic))
}
