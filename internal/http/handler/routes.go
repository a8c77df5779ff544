package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"leavedocs/internal/auth"
	"leavedocs/internal/http/middleware"
	"leavedocs/internal/service"
)

var allRoles = []string{auth.RoleEmployee, auth.RoleManager, auth.RoleHRManager, auth.RoleAdmin}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// metrics may be nil to skip the /metrics endpoint.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, jwtSecret []byte, metrics prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get("/metrics", Metrics(metrics))
	}

	docs := app.Group("/documents", middleware.Authenticate(jwtSecret))
	anyRole := middleware.RequireRoles(allRoles...)

	docs.Post("/upload/:leaveRequestId", anyRole, UploadDocument(docSvc))
	docs.Get("/upload-signature", anyRole, UploadSignature(docSvc))
	docs.Get("/leave-request/:leaveRequestId", anyRole, ListLeaveRequestDocuments(docSvc))
	docs.Get("/:id/thumbnail", anyRole, DocumentThumbnail(docSvc))
	docs.Get("/:id", anyRole, GetDocument(docSvc))
	docs.Delete("/:id", middleware.RequireRoles(auth.RoleHRManager, auth.RoleAdmin), DeleteDocument(docSvc))
}
