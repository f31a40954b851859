package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/auth"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

const contextTokenKey = "adminToken"

var errEmailTaken = errors.New("un admin avec cet email existe déjà")

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Nom   string `json:"nom,omitempty"`
	Email string `json:"email,omitempty"`
}

func (c Claims) admin() auth.Admin {
	return auth.Admin{ID: c.Subject, Nom: c.Nom, Email: c.Email}
}

type jwtConfig struct {
	middleware.JWTConfig
	issuer string
	delta  time.Duration
}

func newJWTConfig(conf *core.Config) jwtConfig {
	return jwtConfig{
		JWTConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.Sandbox.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
		issuer: conf.AppName,
		delta:  conf.Sandbox.JWTExpirationDelta,
	}
}

func (cfg jwtConfig) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(cfg.JWTConfig)
}

func (cfg jwtConfig) claims(adm auth.Admin) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    cfg.issuer,
			Subject:   adm.ID,
			ExpiresAt: now.Add(cfg.delta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Nom:   adm.Nom,
		Email: adm.Email,
	}
}

// generateToken generates a signed JWT token string representing the admin Claims.
func (cfg jwtConfig) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(cfg.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type (
	authApi struct {
		deps ServerDeps
		jwt  jwtConfig
	}

	loginResponse struct {
		Token string     `json:"token"`
		Admin auth.Admin `json:"admin"`
	}
)

func registerAuthAPI(g *echo.Group, deps ServerDeps, cfg jwtConfig) {
	api := authApi{deps: deps, jwt: cfg}
	g.POST("/loginAdmin", api.login)
	g.POST("/registerAdmin", api.register)
}

// login answers with a bare object.
func (api *authApi) login(ctx echo.Context) error {
	var data auth.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rec, err := api.deps.DB.AdminByEmail(data.Email)
	if err != nil {
		if err == inmemdb.ErrNotFound {
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "finding admin by email")
	}
	if err = rec.CheckPassword(data.Password); err != nil {
		return errAuthenticationFailed
	}

	token, err := api.jwt.generateToken(api.jwt.claims(rec.Admin))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{Token: token, Admin: rec.Admin})
}

func (api *authApi) register(ctx echo.Context) error {
	var data auth.NewAdmin
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAdmin")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}
	if _, err := api.deps.DB.AdminByEmail(data.Email); err == nil {
		return core.NewValidationError(errEmailTaken, core.FieldError{Field: "email", Error: errEmailTaken.Error()})
	}

	rec, err := inmemdb.NewAdminRecord(auth.Admin{Nom: data.Nom, Email: data.Email}, data.Password)
	if err != nil {
		return errors.Wrap(err, "creating admin")
	}
	if err = api.deps.DB.Admins.Insert(rec); err != nil {
		return errors.Wrap(err, "saving admin")
	}
	return succesEnvelope.respond(ctx, http.StatusCreated, rec.Admin, "admin enregistré")
}
