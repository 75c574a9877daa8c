package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/core/user"
)

var (
	errNoToken              = echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	errTokenExpired         = echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
	errTokenInvalid         = echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	errUserGone             = echo.NewHTTPError(http.StatusUnauthorized, "user not found")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, user.ErrInvalidCredentials.Error())
	errHttpForbidden        = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errUserNotFound         = echo.NewHTTPError(http.StatusNotFound, "User not found")
	errAssignmentNotFound   = echo.NewHTTPError(http.StatusNotFound, "Assignment not found")
	errFileNotFound         = echo.NewHTTPError(http.StatusNotFound, "File not found")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that maps
// every error to a status plus an {"error": msg} JSON body.
// signalShutdown is called in order to gracefully shut the Server down
// whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fldErrs := make([]string, 0, len(origErr))
			for _, vErr := range origErr {
				fldErrs = append(fldErrs, vErr.Field()+": "+vErr.Translate(translator))
			}
			code = http.StatusBadRequest
			message = strings.Join(fldErrs, "; ")
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make([]string, 0, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs = append(fldErrs, fErr.Error)
				}
				message = strings.Join(fldErrs, "; ")
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Email = claims.Email
			}
			logger.Error(message, errors.Wrap(err, message), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, echo.Map{"error": message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
