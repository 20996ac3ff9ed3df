package routes

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"scireasoner/internal/server/middleware"
	"scireasoner/pkg/common"
	"scireasoner/pkg/loader"
	"scireasoner/pkg/logger"
)

type uploadResponse struct {
	Message      string `json:"message"`
	DocID        string `json:"doc_id,omitempty"`
	Title        string `json:"title,omitempty"`
	NumSections  int    `json:"num_sections,omitempty"`
	NumSentences int    `json:"num_sentences,omitempty"`
}

// UploadPDFHandler ingests a PDF from multipart/form-data.
func UploadPDFHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Missing file",
		})
	}
	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Could not open file",
		})
	}
	defer src.Close()

	// The pdf reader wants a seekable file on disk.
	tmpPath := filepath.Join(os.TempDir(), gonanoid.Must()+".pdf")
	dst, err := os.Create(tmpPath)
	if err != nil {
		logger.Error("Failed to create temp file", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}
	defer os.Remove(tmpPath)
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		logger.Error("Failed to write temp file", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}
	dst.Close()

	doc, sentences, err := loader.LoadPDF(tmpPath)
	if err != nil {
		logger.Error("Failed to parse pdf", "err", err)
		return c.JSON(http.StatusUnprocessableEntity, uploadResponse{
			Message: "Could not extract text from pdf",
		})
	}
	doc.Metadata["source"] = file.Filename
	return storeUpload(c, doc, sentences)
}

// UploadHTMLHandler ingests an HTML document from multipart/form-data. An
// optional source_url form field helps readability resolve references.
func UploadHTMLHandler(c echo.Context) error {
	raw, filename, ok := readUpload(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Missing file",
		})
	}
	source := c.FormValue("source_url")
	if source == "" {
		source = filename
	}
	doc, sentences, err := loader.LoadHTML(raw, source)
	if err != nil {
		logger.Error("Failed to parse html", "err", err)
		return c.JSON(http.StatusUnprocessableEntity, uploadResponse{
			Message: "Could not extract text from html",
		})
	}
	return storeUpload(c, doc, sentences)
}

// UploadMarkdownHandler ingests a Markdown document from
// multipart/form-data.
func UploadMarkdownHandler(c echo.Context) error {
	raw, filename, ok := readUpload(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, uploadResponse{
			Message: "Missing file",
		})
	}
	doc, sentences, err := loader.LoadMarkdown(raw, filename)
	if err != nil {
		logger.Error("Failed to parse markdown", "err", err)
		return c.JSON(http.StatusUnprocessableEntity, uploadResponse{
			Message: "Could not extract text from markdown",
		})
	}
	return storeUpload(c, doc, sentences)
}

func readUpload(c echo.Context) ([]byte, string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", false
	}
	src, err := file.Open()
	if err != nil {
		return nil, "", false
	}
	defer src.Close()
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, "", false
	}
	return raw, file.Filename, true
}

func storeUpload(c echo.Context, doc *common.Document, sentences []common.Sentence) error {
	store := c.(*middleware.AppContext).App.Store
	if err := store.SaveDocument(doc); err != nil {
		logger.Error("Failed to save document", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}
	if err := store.SaveSentences(doc.DocID, sentences); err != nil {
		logger.Error("Failed to save sentences", "err", err)
		return c.JSON(http.StatusInternalServerError, uploadResponse{
			Message: "Internal server error",
		})
	}
	return c.JSON(http.StatusOK, uploadResponse{
		Message:      "Document ingested successfully",
		DocID:        doc.DocID,
		Title:        doc.Title,
		NumSections:  len(doc.Sections),
		NumSentences: len(sentences),
	})
}
