package contenu

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/resource"
)

const (
	listTabsPath  = "/api/ListTabs/" // + epreuve id
	createTabPath = "/api/StoreTab/" // + epreuve id
	updateTabPath = "/api/MajTab/"
	deleteTabPath = "/api/DeleteTabs/"

	listBlocsPath  = "/api/ListBlocs/"  // + tab id
	createBlocPath = "/api/StoreBlocs/" // + tab id
	updateBlocPath = "/api/MajBlocs/"
	deleteBlocPath = "/api/DeleteBlocs/"
)

type (
	TabService struct {
		api core.API
	}

	BlocService struct {
		api core.API
	}

	TabStore  = resource.Store[Tab, NewTab]
	BlocStore = resource.Store[Bloc, NewBloc]
)

var (
	_ resource.Backend[Tab, NewTab]   = (*TabService)(nil)
	_ resource.Updater[Tab, NewTab]   = (*TabService)(nil)
	_ resource.Backend[Bloc, NewBloc] = (*BlocService)(nil)
	_ resource.Updater[Bloc, NewBloc] = (*BlocService)(nil)
)

func NewTabService(api core.API) *TabService {
	return &TabService{api: api}
}

func NewTabStore(svc *TabService, logger core.Logger) *TabStore {
	return resource.NewStore[Tab, NewTab]("tabs", svc, logger)
}

func (svc *TabService) List(ctx context.Context, epreuveID string) ([]Tab, error) {
	if epreuveID == "" {
		return nil, errors.Wrap(core.ErrMissingParent, "listing tabs")
	}
	var tabs []Tab
	if err := svc.api.Get(ctx, listTabsPath+url.PathEscape(epreuveID), &tabs); err != nil {
		return nil, errors.Wrapf(err, "listing tabs of epreuve %s", epreuveID)
	}
	return tabs, nil
}

func (svc *TabService) Create(ctx context.Context, epreuveID string, nt NewTab) (Tab, error) {
	if epreuveID == "" {
		return Tab{}, errors.Wrap(core.ErrMissingParent, "creating tab")
	}
	var t Tab
	if err := svc.api.Post(ctx, createTabPath+url.PathEscape(epreuveID), nt, &t); err != nil {
		return Tab{}, errors.Wrapf(err, "creating tab of epreuve %s", epreuveID)
	}
	return t, nil
}

func (svc *TabService) Update(ctx context.Context, id string, nt NewTab) (Tab, error) {
	var t Tab
	if err := svc.api.Post(ctx, updateTabPath+url.PathEscape(id), nt, &t); err != nil {
		return Tab{}, errors.Wrapf(err, "updating tab %s", id)
	}
	return t, nil
}

func (svc *TabService) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deleteTabPath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting tab %s", id)
	}
	return nil
}

func NewBlocService(api core.API) *BlocService {
	return &BlocService{api: api}
}

func NewBlocStore(svc *BlocService, logger core.Logger) *BlocStore {
	return resource.NewStore[Bloc, NewBloc]("blocs", svc, logger)
}

func (svc *BlocService) List(ctx context.Context, tabID string) ([]Bloc, error) {
	if tabID == "" {
		return nil, errors.Wrap(core.ErrMissingParent, "listing blocs")
	}
	var blocs []Bloc
	if err := svc.api.Get(ctx, listBlocsPath+url.PathEscape(tabID), &blocs); err != nil {
		return nil, errors.Wrapf(err, "listing blocs of tab %s", tabID)
	}
	return blocs, nil
}

func (svc *BlocService) Create(ctx context.Context, tabID string, nb NewBloc) (Bloc, error) {
	if tabID == "" {
		return Bloc{}, errors.Wrap(core.ErrMissingParent, "creating bloc")
	}
	var b Bloc
	if err := svc.api.Post(ctx, createBlocPath+url.PathEscape(tabID), nb, &b); err != nil {
		return Bloc{}, errors.Wrapf(err, "creating bloc of tab %s", tabID)
	}
	return b, nil
}

func (svc *BlocService) Update(ctx context.Context, id string, nb NewBloc) (Bloc, error) {
	var b Bloc
	if err := svc.api.Post(ctx, updateBlocPath+url.PathEscape(id), nb, &b); err != nil {
		return Bloc{}, errors.Wrapf(err, "updating bloc %s", id)
	}
	return b, nil
}

func (svc *BlocService) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deleteBlocPath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting bloc %s", id)
	}
	return nil
}
