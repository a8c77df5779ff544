package handler

import (
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"leavedocs/internal/http/middleware"
	"leavedocs/internal/service"
	"leavedocs/internal/storage"
	"leavedocs/internal/upload"
)

// DocumentFormField is the multipart field carrying the uploaded file.
const DocumentFormField = "document"

// validUUIDParam reads a path parameter and reports whether it is a UUID.
// The value is copied: Fiber reuses the request buffer, and ids outlive the
// request in stored records and exported spans.
func validUUIDParam(c *fiber.Ctx, name string) (string, bool) {
	v := c.Params(name)
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return utils.CopyString(v), true
}

// UploadDocument attaches a file to a leave request.
//
// @Summary Upload a leave request document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param leaveRequestId path string true "Leave request ID"
// @Param document formData file true "Document file"
// @Success 201 {object} successPayload
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Security BearerAuth
// @Router /documents/upload/{leaveRequestId} [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leaveRequestID, ok := validUUIDParam(c, "leaveRequestId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid leave request id format")
		}

		fh, err := c.FormFile(DocumentFormField)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "no file uploaded")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
		}

		doc, err := svc.Upload(c.UserContext(), upload.File{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get(fiber.HeaderContentType),
			Size:     fh.Size,
			Data:     data,
		}, leaveRequestID, middleware.GetUserID(c))
		if err != nil {
			return writeRequestError(c, err)
		}
		return writeData(c, fiber.StatusCreated, doc)
	}
}

// GetDocument returns one document with its leave request.
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} successPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validUUIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeWorkflowError(c, err)
		}
		return writeData(c, fiber.StatusOK, doc)
	}
}

// ListLeaveRequestDocuments returns the documents of a leave request, newest first.
//
// @Summary List documents of a leave request
// @Tags documents
// @Produce json
// @Param leaveRequestId path string true "Leave request ID"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /documents/leave-request/{leaveRequestId} [get]
func ListLeaveRequestDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leaveRequestID, ok := validUUIDParam(c, "leaveRequestId")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid leave request id format")
		}
		docs, err := svc.ListByLeaveRequest(c.UserContext(), leaveRequestID)
		if err != nil {
			return writeRequestError(c, err)
		}
		return writeData(c, fiber.StatusOK, docs)
	}
}

// DeleteDocument removes a document the caller uploaded or whose leave request they own.
//
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} successPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validUUIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id, middleware.GetUserID(c)); err != nil {
			return writeWorkflowError(c, err)
		}
		return writeData(c, fiber.StatusOK, nil)
	}
}

// DocumentThumbnail returns a derived delivery URL. Query parameters w, h,
// crop, gravity, quality and format override the default thumbnail.
//
// @Summary Thumbnail URL of a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Param w query int false "Width"
// @Param h query int false "Height"
// @Success 200 {object} successPayload
// @Failure 404 {object} errorPayload
// @Security BearerAuth
// @Router /documents/{id}/thumbnail [get]
func DocumentThumbnail(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := validUUIDParam(c, "id")
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		override, err := transformationFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_TRANSFORMATION", err.Error())
		}

		var overrides []storage.Transformation
		if override != (storage.Transformation{}) {
			overrides = append(overrides, override)
		}
		url, err := svc.ThumbnailURL(c.UserContext(), id, overrides...)
		if err != nil {
			return writeWorkflowError(c, err)
		}
		return writeData(c, fiber.StatusOK, fiber.Map{"url": url})
	}
}

func transformationFromQuery(c *fiber.Ctx) (storage.Transformation, error) {
	t := storage.Transformation{
		Crop:    c.Query("crop"),
		Gravity: c.Query("gravity"),
		Quality: c.Query("quality"),
		Format:  c.Query("format"),
	}
	for _, dim := range []struct {
		key string
		dst *int
	}{{"w", &t.Width}, {"h", &t.Height}} {
		raw := c.Query(dim.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return storage.Transformation{}, fiber.NewError(fiber.StatusBadRequest, dim.key+" must be a positive integer")
		}
		*dim.dst = n
	}
	return t, nil
}

// UploadSignature authorizes a direct client upload to the media store.
//
// @Summary Direct upload signature
// @Tags documents
// @Produce json
// @Param folder query string false "Target folder under the media root"
// @Success 200 {object} successPayload
// @Failure 400 {object} errorPayload
// @Security BearerAuth
// @Router /documents/upload-signature [get]
func UploadSignature(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sig, err := svc.UploadSignature(c.UserContext(), utils.CopyString(c.Query("folder")))
		if err != nil {
			return writeRequestError(c, err)
		}
		return writeData(c, fiber.StatusOK, sig)
	}
}
