package programme

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/resource"
)

const (
	listPath   = "/api/ListProgrammeAdmin"
	createPath = "/api/StoreProgramme"
	updatePath = "/api/UpdateProgramme/"
	deletePath = "/api/DeleteProgramme/"

	listSousProgrammesPath  = "/api/ListSousProgramme"
	createSousProgrammePath = "/api/StoreSousProgramme/" // + programme id
	updateSousProgrammePath = "/api/UpdateSousProgramme/"
	deleteSousProgrammePath = "/api/DeleteSousProramme/" // sic
)

type (
	Service struct {
		api core.API
	}

	// SousProgrammeService lists every sub-programme at once; the parent id is
	// only used on create.
	SousProgrammeService struct {
		api core.API
	}

	Store              = resource.Store[Programme, NewProgramme]
	SousProgrammeStore = resource.Store[SousProgramme, NewSousProgramme]
)

var (
	_ resource.Updater[Programme, NewProgramme]         = (*Service)(nil)
	_ resource.Backend[Programme, NewProgramme]         = (*Service)(nil)
	_ resource.Backend[SousProgramme, NewSousProgramme] = (*SousProgrammeService)(nil)
	_ resource.Updater[SousProgramme, NewSousProgramme] = (*SousProgrammeService)(nil)
)

func NewService(api core.API) *Service {
	return &Service{api: api}
}

func NewStore(svc *Service, logger core.Logger) *Store {
	return resource.NewStore[Programme, NewProgramme]("programmes", svc, logger)
}

func (svc *Service) List(ctx context.Context, _ string) ([]Programme, error) {
	var programmes []Programme
	if err := svc.api.Get(ctx, listPath, &programmes); err != nil {
		return nil, errors.Wrap(err, "listing programmes")
	}
	return programmes, nil
}

func (svc *Service) Create(ctx context.Context, _ string, np NewProgramme) (Programme, error) {
	var p Programme
	if err := svc.api.Post(ctx, createPath, np, &p); err != nil {
		return Programme{}, errors.Wrap(err, "creating programme")
	}
	return p, nil
}

func (svc *Service) Update(ctx context.Context, id string, np NewProgramme) (Programme, error) {
	var p Programme
	if err := svc.api.Post(ctx, updatePath+url.PathEscape(id), np, &p); err != nil {
		return Programme{}, errors.Wrapf(err, "updating programme %s", id)
	}
	return p, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deletePath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting programme %s", id)
	}
	return nil
}

func NewSousProgrammeService(api core.API) *SousProgrammeService {
	return &SousProgrammeService{api: api}
}

func NewSousProgrammeStore(svc *SousProgrammeService, logger core.Logger) *SousProgrammeStore {
	return resource.NewStore[SousProgramme, NewSousProgramme]("sous-programmes", svc, logger)
}

func (svc *SousProgrammeService) List(ctx context.Context, _ string) ([]SousProgramme, error) {
	var sps []SousProgramme
	if err := svc.api.Get(ctx, listSousProgrammesPath, &sps); err != nil {
		return nil, errors.Wrap(err, "listing sous-programmes")
	}
	return sps, nil
}

func (svc *SousProgrammeService) Create(ctx context.Context, programmeID string, nsp NewSousProgramme) (SousProgramme, error) {
	if programmeID == "" {
		return SousProgramme{}, errors.Wrap(core.ErrMissingParent, "creating sous-programme")
	}
	var sp SousProgramme
	if err := svc.api.Post(ctx, createSousProgrammePath+url.PathEscape(programmeID), nsp, &sp); err != nil {
		return SousProgramme{}, errors.Wrapf(err, "creating sous-programme of programme %s", programmeID)
	}
	return sp, nil
}

func (svc *SousProgrammeService) Update(ctx context.Context, id string, nsp NewSousProgramme) (SousProgramme, error) {
	var sp SousProgramme
	if err := svc.api.Post(ctx, updateSousProgrammePath+url.PathEscape(id), nsp, &sp); err != nil {
		return SousProgramme{}, errors.Wrapf(err, "updating sous-programme %s", id)
	}
	return sp, nil
}

func (svc *SousProgrammeService) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deleteSousProgrammePath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting sous-programme %s", id)
	}
	return nil
}
