package epreuve

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/resource"
)

const (
	listPath         = "/api/ListEpreuve/Admin"
	createPath       = "/api/StoreEpreuve"
	updatePath       = "/api/UpdateEpreuve/"
	deletePath       = "/api/DeleteEpreuve/"
	listDomainesPath = "/api/ListDomaines"
)

var ErrDomainesNotLoaded = errors.New("domaines not loaded")

type (
	Service struct {
		api    core.API
		logger core.Logger

		mu      sync.RWMutex
		domains *DomainResolver
	}

	Store = resource.Store[Epreuve, NewEpreuve]
)

var (
	_ resource.Backend[Epreuve, NewEpreuve] = (*Service)(nil)
	_ resource.Updater[Epreuve, NewEpreuve] = (*Service)(nil)
)

func NewService(api core.API, logger core.Logger) *Service {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Service{api: api, logger: logger}
}

func NewStore(svc *Service, logger core.Logger) *Store {
	return resource.NewStore[Epreuve, NewEpreuve]("epreuves", svc, logger)
}

func (svc *Service) List(ctx context.Context, _ string) ([]Epreuve, error) {
	var epreuves []Epreuve
	if err := svc.api.Get(ctx, listPath, &epreuves); err != nil {
		return nil, errors.Wrap(err, "listing epreuves")
	}
	return epreuves, nil
}

// ListDomaines fetches the domains and rebuilds the resolver used by Create and Update.
func (svc *Service) ListDomaines(ctx context.Context) ([]Domaine, error) {
	var domaines []Domaine
	if err := svc.api.Get(ctx, listDomainesPath, &domaines); err != nil {
		return nil, errors.Wrap(err, "listing domaines")
	}
	if domaines == nil {
		domaines = []Domaine{}
	}
	svc.UseDomaines(NewDomainResolver(domaines, svc.logger))
	return domaines, nil
}

// UseDomaines replaces the domain resolver.
func (svc *Service) UseDomaines(r *DomainResolver) {
	svc.mu.Lock()
	svc.domains = r
	svc.mu.Unlock()
}

// Domaines returns the current resolver, nil until domains are fetched.
func (svc *Service) Domaines() *DomainResolver {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.domains
}

func (svc *Service) Create(ctx context.Context, _ string, ne NewEpreuve) (Epreuve, error) {
	form, err := svc.form(ne)
	if err != nil {
		return Epreuve{}, errors.Wrap(err, "creating epreuve")
	}
	var e Epreuve
	if err = svc.api.PostMultipart(ctx, createPath, form, &e); err != nil {
		return Epreuve{}, errors.Wrap(err, "creating epreuve")
	}
	return e, nil
}

func (svc *Service) Update(ctx context.Context, id string, ne NewEpreuve) (Epreuve, error) {
	form, err := svc.form(ne)
	if err != nil {
		return Epreuve{}, errors.Wrapf(err, "updating epreuve %s", id)
	}
	var e Epreuve
	if err = svc.api.PostMultipart(ctx, updatePath+url.PathEscape(id), form, &e); err != nil {
		return Epreuve{}, errors.Wrapf(err, "updating epreuve %s", id)
	}
	return e, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deletePath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting epreuve %s", id)
	}
	return nil
}

// form builds the multipart body. The description field name is misspelled server side.
func (svc *Service) form(ne NewEpreuve) (core.MultipartForm, error) {
	domains := svc.Domaines()
	if domains == nil {
		return core.MultipartForm{}, ErrDomainesNotLoaded
	}
	res, err := domains.Resolve(ne.DomaineID)
	if err != nil {
		return core.MultipartForm{}, err
	}

	form := core.MultipartForm{Fields: url.Values{}}
	form.Fields.Set("titre_epreuve", ne.Titre)
	form.Fields.Set("descritpion_epreuve", ne.Description)
	form.Fields.Set("date_debut", ne.DateDebut)
	form.Fields.Set("date_fin", ne.DateFin)
	form.Fields.Set("duree", strconv.Itoa(ne.Duree))
	form.Fields.Set("domaine_id", strconv.Itoa(res.Code))
	if ne.ImagePath != "" {
		form.Files = append(form.Files, core.FormFile{Field: "image", Path: ne.ImagePath})
	}
	return form, nil
}
