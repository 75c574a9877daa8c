package echoapi

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/core/assignment"
	"github.com/Eordinary01/View-Assignment/core/user"
)

var errNoFileUploaded = errors.New("No file uploaded.")

type assignmentApi struct {
	svc      *assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(g *echo.Group, jwt echo.MiddlewareFunc, usrSvc *user.Service, svc *assignment.Service, validate *validator.Validate) {
	api := assignmentApi{
		svc:      svc,
		validate: validate,
	}

	// every route requires a verified token resolving to a stored user
	ag := g.Group("", jwt, identityMiddleware(usrSvc))
	ag.POST("/upload", api.upload)
	ag.GET("/assignments", api.query)
	ag.GET("/assignments/:id", api.retrieve)
	ag.PUT("/assignments/:id", api.update, adminMiddleware())
	ag.DELETE("/assignments/:id", api.destroy, adminMiddleware())
	ag.GET("/uploads/:filename", api.download)
}

// Handlers

func (api *assignmentApi) upload(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(errNoFileUploaded)
	}
	data := assignment.NewAssignment{
		Course:  ctx.FormValue("course"),
		Branch:  ctx.FormValue("branch"),
		Year:    ctx.FormValue("year"),
		Subject: ctx.FormValue("subject"),
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	src, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer src.Close()

	a, err := api.svc.Upload(ctx.Request().Context(), data, src, fh.Filename, ident)
	if err != nil {
		switch cause := errors.Cause(err); cause {
		case assignment.ErrInvalidFileType, assignment.ErrFileTooLarge:
			return core.NewValidationError(cause)
		}
		return errors.Wrap(err, "uploading assignment")
	}

	return ctx.JSON(http.StatusCreated, UploadResponse{
		Message:    "Assignment uploaded successfully",
		Assignment: a,
	})
}

func (api *assignmentApi) query(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	assignments, err := api.svc.Query(ctx.Request().Context(), ident)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if assignments == nil {
		assignments = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	a, err := api.svc.Get(ctx.Request().Context(), ctx.Param("id"), ident)
	if err != nil {
		return mapAssignmentErr(err, "finding assignment by ID")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	var data assignment.UpdateAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data, ident)
	if err != nil {
		return mapAssignmentErr(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}

	if err = api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), ident); err != nil {
		return mapAssignmentErr(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Assignment deleted successfully"})
}

func (api *assignmentApi) download(ctx echo.Context) error {
	name := filepath.Base(ctx.Param("filename"))

	src, ctype, err := api.svc.OpenFile(name)
	if err != nil {
		if errors.Cause(err) == assignment.ErrFileNotFound {
			return errFileNotFound
		}
		return errors.Wrap(err, "opening file")
	}
	defer src.Close()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Stream(http.StatusOK, ctype, src)
}

func mapAssignmentErr(err error, msg string) error {
	switch errors.Cause(err) {
	case assignment.ErrNotFound:
		return errAssignmentNotFound
	case assignment.ErrForbidden:
		return errHttpForbidden
	}
	return errors.Wrap(err, msg)
}

type UploadResponse struct {
	Message    string                `json:"message"`
	Assignment assignment.Assignment `json:"assignment"`
}
