package annonce

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/resource"
)

const (
	listPath   = "/api/ListAnnoncesAdmin"
	createPath = "/api/StoreAnnonces"
	updatePath = "/api/UpdateAnnonce/"
	deletePath = "/api/DeleteAnnonce/"
)

type (
	// Service maps the announcement endpoints one to one.
	Service struct {
		api core.API
	}

	Store = resource.Store[Annonce, NewAnnonce]
)

var (
	_ resource.Backend[Annonce, NewAnnonce] = (*Service)(nil)
	_ resource.Updater[Annonce, NewAnnonce] = (*Service)(nil)
)

func NewService(api core.API) *Service {
	return &Service{api: api}
}

func NewStore(svc *Service, logger core.Logger) *Store {
	return resource.NewStore[Annonce, NewAnnonce]("annonces", svc, logger)
}

// List fetches every announcement. Announcements have no parent.
func (svc *Service) List(ctx context.Context, _ string) ([]Annonce, error) {
	var annonces []Annonce
	if err := svc.api.Get(ctx, listPath, &annonces); err != nil {
		return nil, errors.Wrap(err, "listing annonces")
	}
	return annonces, nil
}

func (svc *Service) Create(ctx context.Context, _ string, na NewAnnonce) (Annonce, error) {
	var a Annonce
	if err := svc.api.Post(ctx, createPath, na, &a); err != nil {
		return Annonce{}, errors.Wrap(err, "creating annonce")
	}
	return a, nil
}

func (svc *Service) Update(ctx context.Context, id string, na NewAnnonce) (Annonce, error) {
	var a Annonce
	if err := svc.api.Post(ctx, updatePath+url.PathEscape(id), na, &a); err != nil {
		return Annonce{}, errors.Wrapf(err, "updating annonce %s", id)
	}
	return a, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deletePath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting annonce %s", id)
	}
	return nil
}
