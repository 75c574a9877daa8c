package assignment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("assignment not found")
	ErrForbidden = errors.New("permission denied")

	// blob errors, returned by BlobStore implementations
	ErrInvalidFileType = errors.New("invalid file type. Only PDF, JPEG, and PNG are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the maximum allowed size")
	ErrFileNotFound    = errors.New("file not found")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		QueryAssignmentsByCollege(ctx context.Context, college string) ([]Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error
	}

	// BlobStore persists uploaded file content on durable storage.
	// Save validates content type and size; rejected uploads leave no blob.
	BlobStore interface {
		Save(originalName string, src io.Reader) (string, error)
		Open(name string) (io.ReadCloser, string, error)
		Delete(name string) error
	}

	Service struct {
		repo   Repository
		blobs  BlobStore
		logger core.Logger
	}
)

func NewService(repo Repository, blobs BlobStore, logger core.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
	}
}

// CanAccess reports whether ident may see a. Admins see everything; everyone
// else is scoped to their own college.
func CanAccess(ident user.Identity, a Assignment) bool {
	return ident.IsAdmin() || a.College == ident.College
}

// Upload writes the file to the blob store, then creates the metadata record.
// The two writes are not transactional: a metadata failure leaves an orphaned
// blob behind (garbage, cleaned up out of band; never data loss).
func (svc *Service) Upload(ctx context.Context, na NewAssignment, src io.Reader, originalName string, ident user.Identity) (Assignment, error) {
	name, err := svc.blobs.Save(originalName, src)
	if err != nil {
		return Assignment{}, err
	}

	now := time.Now().UTC()
	a := Assignment{
		Course:     na.Course,
		Branch:     na.Branch,
		Year:       na.Year,
		Subject:    na.Subject,
		College:    ident.College,
		FileName:   name,
		UploadedBy: ident.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	a, err = svc.repo.CreateAssignment(ctx, a)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment metadata")
	}
	return a, nil
}

// Query returns all assignments for admins, and only the requester's
// college's assignments for everyone else.
func (svc *Service) Query(ctx context.Context, ident user.Identity) ([]Assignment, error) {
	if ident.IsAdmin() {
		return svc.repo.QueryAllAssignments(ctx)
	}
	return svc.repo.QueryAssignmentsByCollege(ctx, ident.College)
}

func (svc *Service) Get(ctx context.Context, id string, ident user.Identity) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	if !CanAccess(ident, a) {
		return Assignment{}, ErrForbidden
	}
	return a, nil
}

func (svc *Service) Update(ctx context.Context, id string, ua UpdateAssignment, ident user.Identity) (Assignment, error) {
	if !ident.IsAdmin() {
		return Assignment{}, ErrForbidden
	}
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return Assignment{}, err
	}
	a.Course = ua.Course
	a.Branch = ua.Branch
	a.Year = ua.Year
	a.Subject = ua.Subject
	a.College = ua.College
	a.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(ctx, a)
}

// Delete removes the metadata record, then best-effort deletes the backing
// blob. A failed blob removal is logged and swallowed; the caller still gets
// success for the metadata deletion.
func (svc *Service) Delete(ctx context.Context, id string, ident user.Identity) error {
	if !ident.IsAdmin() {
		return ErrForbidden
	}
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteAssignment(ctx, a.ID); err != nil {
		return errors.Wrap(err, "deleting assignment metadata")
	}
	if err = svc.blobs.Delete(a.FileName); err != nil {
		svc.logger.Warn(fmt.Sprintf("could not delete blob %q for assignment %s: %v", a.FileName, a.ID, err))
	}
	return nil
}

// OpenFile streams a stored file back out along with its MIME type.
func (svc *Service) OpenFile(name string) (io.ReadCloser, string, error) {
	return svc.blobs.Open(name)
}
