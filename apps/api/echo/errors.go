package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "admin not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "identifiants invalides")
	errHttpNotFound         = echo.NewHTTPError(http.StatusNotFound, "not found")
	errParentNotFound       = echo.NewHTTPError(http.StatusNotFound, "parent not found")
)

// fieldsKeyCtx selects the key field errors are sent under. Most endpoints use
// "errors", the exam endpoints use "validation_errors".
const fieldsKeyCtx = "fieldsKey"

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler answering errors the way the platform does:
//
//	{"message": "...", "errors": {"field": ["..."]}}
//
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message string
			fields  map[string][]string
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = "missing or malformed jwt"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors, *core.ValidationError:
			code = http.StatusUnprocessableEntity
			fields = map[string][]string{}
			for _, fErr := range core.FieldMessages(origErr, translator) {
				fields[fErr.Field] = append(fields[fErr.Field], fErr.Error)
			}
			message = "validation failed"
			if vErr, ok := origErr.(*core.ValidationError); ok && vErr.Err != nil {
				message = vErr.Err.Error()
			}
		default:
			if origErr == inmemdb.ErrNotFound {
				code = http.StatusNotFound
				message = errHttpNotFound.Message.(string)
				break
			}
			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			var adm interface{}
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				adm = claims.admin()
			}
			logger.Error(message, errors.Wrap(err, message), adm)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		body := echo.Map{"message": message}
		if len(fields) > 0 {
			key, _ := ctx.Get(fieldsKeyCtx).(string)
			if key == "" {
				key = "errors"
			}
			body[key] = fields
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, body)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
