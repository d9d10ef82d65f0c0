package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/DukeRupert/schooldash/internal/domain"
	"github.com/DukeRupert/schooldash/internal/repository"
	"github.com/DukeRupert/schooldash/internal/storage"
)

// PhotoQueries is the slice of repository.Queries photo uploads need.
type PhotoQueries interface {
	UpdateTeacherImg(ctx context.Context, arg repository.UpdateTeacherImgParams) (int64, error)
	UpdateStudentImg(ctx context.Context, arg repository.UpdateStudentImgParams) (int64, error)
}

// PhotoService stores profile photos for teachers and students.
type PhotoService interface {
	// Upload validates and re-encodes the photo, stores it and points the
	// person's img at it. Returns the public URL.
	Upload(ctx context.Context, in domain.PhotoUpload) (string, error)
}

type photoService struct {
	queries   PhotoQueries
	storage   storage.Storage
	processor PhotoProcessor
	logger    *slog.Logger
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(queries PhotoQueries, store storage.Storage, processor PhotoProcessor, logger *slog.Logger) PhotoService {
	return &photoService{
		queries:   queries,
		storage:   store,
		processor: processor,
		logger:    logger,
	}
}

func (s *photoService) Upload(ctx context.Context, in domain.PhotoUpload) (string, error) {
	const op = "PhotoService.Upload"

	if in.Kind != domain.PhotoTeacher && in.Kind != domain.PhotoStudent {
		return "", domain.Invalid(op, "Unknown profile type")
	}
	if in.OwnerID == "" {
		return "", domain.Invalid(op, "Missing profile ID")
	}
	if !storage.IsAllowedImageType(in.ContentType) {
		return "", domain.Invalid(op, "Photo must be a JPEG, PNG or GIF image")
	}
	if in.Size > domain.MaxPhotoSize {
		return "", domain.Errorf(domain.ETOOLARGE, op, "Photo must be smaller than %d MB", domain.MaxPhotoSize>>20)
	}

	photo, err := s.processor.Square(in.Data, domain.ProfilePhotoSize)
	if err != nil {
		s.logger.Warn("rejected unreadable photo", "error", err, "op", op, "kind", in.Kind, "owner_id", in.OwnerID)
		return "", domain.Invalid(op, "Photo could not be read as an image")
	}

	key := storage.ProfilePhotoKey(string(in.Kind), in.OwnerID)
	if err := s.storage.Put(ctx, key, bytes.NewReader(photo), storage.PutOptions{
		ContentType: "image/jpeg",
		MaxSize:     domain.MaxPhotoSize,
	}); err != nil {
		if storage.IsTooLarge(err) {
			return "", domain.Errorf(domain.ETOOLARGE, op, "Photo must be smaller than %d MB", domain.MaxPhotoSize>>20)
		}
		s.logger.Error("failed to store photo", "error", err, "op", op, "key", key)
		return "", domain.Internal(err, op, "Failed to store photo")
	}

	url, err := s.storage.URL(ctx, key, 0)
	if err != nil {
		s.discard(ctx, key)
		s.logger.Error("failed to build photo URL", "error", err, "op", op, "key", key)
		return "", domain.Internal(err, op, "Failed to store photo")
	}

	n, err := s.setImg(ctx, in.Kind, in.OwnerID, url)
	if err != nil {
		s.discard(ctx, key)
		s.logger.Error("failed to save photo URL", "error", err, "op", op, "owner_id", in.OwnerID)
		return "", domain.Internal(err, op, "Failed to save photo")
	}
	if n == 0 {
		s.discard(ctx, key)
		return "", domain.NotFound(op, singular(in.Kind), in.OwnerID)
	}

	s.logger.Info("profile photo updated", "kind", in.Kind, "owner_id", in.OwnerID, "key", key, "size", len(photo))
	return url, nil
}

func (s *photoService) setImg(ctx context.Context, kind domain.PhotoKind, id, url string) (int64, error) {
	switch kind {
	case domain.PhotoTeacher:
		return s.queries.UpdateTeacherImg(ctx, repository.UpdateTeacherImgParams{ID: id, Img: toNullString(url)})
	case domain.PhotoStudent:
		return s.queries.UpdateStudentImg(ctx, repository.UpdateStudentImgParams{ID: id, Img: toNullString(url)})
	}
	return 0, fmt.Errorf("unknown photo kind %q", kind)
}

func (s *photoService) discard(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil && !storage.IsNotFound(err) {
		s.logger.Warn("failed to remove orphaned photo", "error", err, "key", key)
	}
}

func singular(kind domain.PhotoKind) string {
	if kind == domain.PhotoTeacher {
		return "teacher"
	}
	return "student"
}
