package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"smartrecipe/internal/auth"
	"smartrecipe/internal/metrics"
	"smartrecipe/internal/recognition"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and headers around the image.
const multipartOverhead = 1 << 20

type ImageRecognizer interface {
	Recognize(ctx context.Context, filename string, image []byte) (recognition.Result, error)
}

type RecipeGeneratorHandler struct {
	recognizer ImageRecognizer
	maxBytes   int64
}

func NewRecipeGeneratorHandler(recognizer ImageRecognizer, maxBytes int64) *RecipeGeneratorHandler {
	return &RecipeGeneratorHandler{recognizer: recognizer, maxBytes: maxBytes}
}

// Upload takes a food photo in the "image" form field and suggests recipes
// for it. The upload stays in memory.
func (h *RecipeGeneratorHandler) Upload(c *gin.Context) {
	if _, exists := auth.GetUserID(c); !exists {
		unauthenticated(c)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	header, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file uploaded"})
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	file, err := header.Open()
	if err != nil {
		serverError(c, err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		serverError(c, err)
		return
	}

	result, err := h.recognizer.Recognize(c.Request.Context(), header.Filename, image)
	if errors.Is(err, recognition.ErrProcessingImage) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing image"})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}

	metrics.RecognitionResult(string(result.Source))
	c.JSON(http.StatusOK, result)
}
