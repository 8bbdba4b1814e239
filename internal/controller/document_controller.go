package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/dto"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/serverutils"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler)
	UploadDocuments(ctx *fiber.Ctx) error
}

type documentController struct {
	ingestService service.IIngestService
}

func NewDocumentController(ingestService service.IIngestService) IDocumentController {
	return &documentController{ingestService: ingestService}
}

func (c *documentController) RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler) {
	h := r.Group("/documents/v1")
	h.Use(sessionMiddleware)
	h.Post("/", c.UploadDocuments)
}

// UploadDocuments accepts a multipart form with one or more PDFs under
// the "documents" field and runs the full ingest pipeline on them.
func (c *documentController) UploadDocuments(ctx *fiber.Ctx) error {
	sessionId, ok := ctx.Locals("session_id").(string)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid session")
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Expected a multipart form upload")
	}

	fileHeaders := form.File["documents"]
	if len(fileHeaders) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "At least one PDF is required under the 'documents' field")
	}

	files := make([]dto.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file "+fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Could not read uploaded file "+fh.Filename)
		}
		files = append(files, dto.UploadedFile{Name: fh.Filename, Data: data})
	}

	res, err := c.ingestService.Ingest(ctx.Context(), sessionId, files)
	if err != nil {
		return err
	}

	message := "Documents indexed"
	if res.CacheHit {
		message = "Documents already indexed, reused cached index"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}
