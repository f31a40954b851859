package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
)

const (
	loginPath    = "/api/loginAdmin"
	registerPath = "/api/registerAdmin"
)

var ErrNoToken = errors.New("login response carries no token")

type (
	// Authenticator is what the Guard logs in with.
	Authenticator interface {
		Login(ctx context.Context, creds Credentials) (Session, error)
	}

	Service struct {
		api core.API
	}

	// the platform is not consistent on these names
	loginResponse struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
		Admin       *Admin `json:"admin"`
		User        *Admin `json:"user"`
	}
)

var _ Authenticator = (*Service)(nil)

func NewService(api core.API) *Service {
	return &Service{api: api}
}

func (svc *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	var resp loginResponse
	if err := svc.api.Post(ctx, loginPath, creds, &resp); err != nil {
		return Session{}, errors.Wrap(err, "logging in")
	}

	sess := Session{Token: resp.Token}
	if sess.Token == "" {
		sess.Token = resp.AccessToken
	}
	if sess.Token == "" {
		return Session{}, ErrNoToken
	}
	switch {
	case resp.Admin != nil:
		sess.Admin = *resp.Admin
	case resp.User != nil:
		sess.Admin = *resp.User
	default:
		sess.Admin = Admin{Email: creds.Email}
	}
	return sess, nil
}

func (svc *Service) Register(ctx context.Context, na NewAdmin) (Admin, error) {
	var adm Admin
	if err := svc.api.Post(ctx, registerPath, na, &adm); err != nil {
		return Admin{}, errors.Wrap(err, "registering admin")
	}
	return adm, nil
}
