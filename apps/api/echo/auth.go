package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Eordinary01/View-Assignment/core"
	"github.com/Eordinary01/View-Assignment/core/user"
)

const (
	tokenContextKey    = "userToken"
	identityContextKey = "identity"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email   string `json:"email,omitempty"`
	College string `json:"college,omitempty"`
	Role    string `json:"role,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

// GetUserClaims builds token claims for usr with the given lifetime.
// Signups get a short-lived token, logins a longer one; both deltas come
// from configuration.
func GetUserClaims(conf *core.Config, usr user.User, ttl time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:   usr.Email,
		College: usr.College,
		Role:    usr.Role,
		IsAdmin: usr.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
		ErrorHandler:  jwtErrorHandler,
	}
}

// jwtErrorHandler maps token verification failures to distinct 401s so a
// client can tell "log in again" (expired) from a corrupt token.
func jwtErrorHandler(err error) error {
	if err == middleware.ErrJWTMissing {
		return errNoToken
	}
	var vErr *jwt.ValidationError
	if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
		return errTokenExpired
	}
	return errTokenInvalid
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errNoToken
}

// identityMiddleware resolves the verified token's subject into a stored User
// and attaches the normalized identity to the request context. A token
// referencing a deleted account is an auth failure, not a 404.
func identityMiddleware(svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}

			usr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUserGone
				}
				return errors.Wrap(err, "finding user by ID")
			}

			ctx.Set(identityContextKey, usr.Identity())
			return next(ctx)
		}
	}
}

func getContextIdentity(ctx echo.Context) (user.Identity, error) {
	if ident, ok := ctx.Get(identityContextKey).(user.Identity); ok {
		return ident, nil
	}
	return user.Identity{}, errNoToken
}
