package serverutils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/logger"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/repository/contract"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/service"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/embedding"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/llm"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/pdf"
	"github.com/deekshith1818/MULTI-PDF-RAG/pkg/rag"
)

// ErrorHandlerMiddleware turns errors bubbling out of controllers into the
// standard envelope. Domain sentinels carry their own status; anything
// unrecognized is logged and returned as a bare 500 so internals stay out
// of responses.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		status, message := classify(err)
		if status == fiber.StatusInternalServerError {
			log.Error("http", "unhandled error", map[string]interface{}{
				"path":   c.Path(),
				"method": c.Method(),
				"error":  err.Error(),
			})
		}

		return c.Status(status).JSON(ErrorResponse(status, message))
	}
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest, validationMessage(validationErrs)
	}

	switch {
	case errors.Is(err, service.ErrNoDocuments),
		errors.Is(err, pdf.ErrInvalidPDF),
		errors.Is(err, pdf.ErrNoText):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, contract.ErrSessionNotFound):
		return fiber.StatusNotFound, "session not found"
	case errors.Is(err, rag.ErrNoDocumentsIndexed):
		return fiber.StatusConflict, "no documents indexed yet, upload PDFs first"
	case errors.Is(err, llm.ErrUpstream),
		errors.Is(err, embedding.ErrUpstream):
		return fiber.StatusBadGateway, "model service is unavailable, try again shortly"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Field()+" failed on '"+fe.Tag()+"'")
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
