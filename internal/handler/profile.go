// This file implements the single teacher and student pages and the admin
// profile photo upload.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/DukeRupert/schooldash/internal/auth"
	"github.com/DukeRupert/schooldash/internal/csrf"
	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/metrics"
	"github.com/DukeRupert/schooldash/internal/service"
	"github.com/DukeRupert/schooldash/internal/storage"
)

// photoFormField is the multipart field carrying the image.
const photoFormField = "photo"

// multipartOverhead is allowed on top of the photo itself for boundaries,
// headers and the CSRF field.
const multipartOverhead = 64 << 10

// =============================================================================
// Template Data Types
// =============================================================================

// TeacherProfileData contains data for the single teacher page.
type TeacherProfileData struct {
	PageData
	Teacher     *domain.TeacherProfile
	ScheduleURL string
	CanEdit     bool
	CSRFToken   string
}

// StudentProfileData contains data for the single student page.
type StudentProfileData struct {
	PageData
	Student     *domain.StudentProfile
	ScheduleURL string
	CanEdit     bool
	CSRFToken   string
}

// AvatarData is the htmx fragment swapped in after an upload.
type AvatarData struct {
	URL string
	Alt string
}

// =============================================================================
// Handler Configuration
// =============================================================================

// ProfileHandler serves the profile pages and photo uploads.
type ProfileHandler struct {
	directory service.DirectoryService
	photos    service.PhotoService
	renderer  *Renderer
	logger    *slog.Logger
	isSecure  bool
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	directory service.DirectoryService,
	photos service.PhotoService,
	renderer *Renderer,
	logger *slog.Logger,
	isSecure bool,
) *ProfileHandler {
	return &ProfileHandler{
		directory: directory,
		photos:    photos,
		renderer:  renderer,
		logger:    logger,
		isSecure:  isSecure,
	}
}

// RegisterRoutes registers profile routes. Uploads are wrapped with
// requireAdmin and limit.
func (h *ProfileHandler) RegisterRoutes(
	mux *http.ServeMux,
	requireAdmin func(http.Handler) http.Handler,
	limit func(http.Handler) http.Handler,
) {
	mux.HandleFunc("GET /list/teachers/{id}", h.Teacher)
	mux.HandleFunc("GET /list/students/{id}", h.Student)
	mux.Handle("POST /list/teachers/{id}/photo", requireAdmin(limit(h.UploadPhoto(domain.PhotoTeacher))))
	mux.Handle("POST /list/students/{id}/photo", requireAdmin(limit(h.UploadPhoto(domain.PhotoStudent))))
}

// =============================================================================
// GET /list/teachers/{id}, GET /list/students/{id}
// =============================================================================

// Teacher renders a teacher's details, counts and weekly schedule.
func (h *ProfileHandler) Teacher(w http.ResponseWriter, r *http.Request) {
	teacher, err := h.directory.GetTeacher(r.Context(), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := TeacherProfileData{
		PageData:    newPageData(r, teacher.FullName()),
		Teacher:     teacher,
		ScheduleURL: ScheduleURL("teacherId", teacher.ID),
	}
	if data.CanEdit, data.CSRFToken, err = h.editAccess(w, r); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderHTTP(w, "list/teacher", data)
}

// Student renders a student's details, attendance and class schedule.
func (h *ProfileHandler) Student(w http.ResponseWriter, r *http.Request) {
	student, err := h.directory.GetStudent(r.Context(), r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	data := StudentProfileData{
		PageData:    newPageData(r, student.FullName()),
		Student:     student,
		ScheduleURL: ScheduleURL("classId", strconv.Itoa(student.ClassID)),
	}
	if data.CanEdit, data.CSRFToken, err = h.editAccess(w, r); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.renderer.RenderHTTP(w, "list/student", data)
}

// editAccess reports whether the caller may change the photo and, if so,
// issues the CSRF token for the upload form.
func (h *ProfileHandler) editAccess(w http.ResponseWriter, r *http.Request) (bool, string, error) {
	id := auth.GetIdentityFromRequest(r)
	if id == nil || id.Role != domain.RoleAdmin {
		return false, "", nil
	}
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		return false, "", domain.Internal(err, "ProfileHandler.editAccess", "Failed to prepare the upload form")
	}
	return true, token, nil
}

// =============================================================================
// POST /list/{teachers|students}/{id}/photo
// =============================================================================

// UploadPhoto stores a new profile photo for kind. htmx requests get the new
// avatar fragment and a toast; plain form posts are redirected back to the
// profile page.
func (h *ProfileHandler) UploadPhoto(kind domain.PhotoKind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "ProfileHandler.UploadPhoto"
		ownerID := r.PathValue("id")

		r.Body = http.MaxBytesReader(w, r.Body, domain.MaxPhotoSize+multipartOverhead)
		if err := r.ParseMultipartForm(domain.MaxPhotoSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, op, "Photo must be 5 MB or smaller"))
				return
			}
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "Invalid form submission"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		if !csrf.ValidateRequest(r) {
			h.logger.Warn("csrf validation failed", "op", op, "owner_id", ownerID)
			ForbiddenResponse(w, r, h.logger)
			return
		}

		file, header, err := r.FormFile(photoFormField)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.NewValidationError(op, photoFormField, "Choose a photo to upload"))
			return
		}
		defer file.Close()

		photoURL, err := h.photos.Upload(r.Context(), domain.PhotoUpload{
			Kind:        kind,
			OwnerID:     ownerID,
			ContentType: storage.DetectContentType(header.Header.Get("Content-Type"), header.Filename, nil),
			Size:        header.Size,
			Data:        file,
		})
		metrics.PhotoUploaded(string(kind), err)
		if err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}

		h.logger.Info("profile photo updated", "kind", kind, "owner_id", ownerID)

		if r.Header.Get("HX-Request") == "true" {
			h.renderer.RenderPartialWithToast(w, "avatar", AvatarData{URL: photoURL, Alt: "Profile photo"}, ToastData{
				Type:    "success",
				Message: "Photo updated.",
			})
			return
		}
		http.Redirect(w, r, "/list/"+string(kind)+"/"+url.PathEscape(ownerID), http.StatusSeeOther)
	})
}
