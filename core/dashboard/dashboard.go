// Package dashboard owns one store per entity and resolves the relations
// between independently fetched lists.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/auth"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/contenu"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/filter"
	"github.com/trezcool/hackadmin/core/programme"
	"github.com/trezcool/hackadmin/core/question"
)

type (
	// Services groups the entity services of one API client.
	Services struct {
		Annonces       *annonce.Service
		Epreuves       *epreuve.Service
		Questions      *question.Service
		Propositions   *question.PropositionService
		Programmes     *programme.Service
		SousProgrammes *programme.SousProgrammeService
		Tabs           *contenu.TabService
		Blocs          *contenu.BlocService
		Classement     *classement.Service
		Auth           *auth.Service
	}

	Dashboard struct {
		Annonces       *annonce.Store
		Epreuves       *epreuve.Store
		Questions      *question.Store
		Propositions   *question.PropositionStore
		Programmes     *programme.Store
		SousProgrammes *programme.SousProgrammeStore
		Tabs           *contenu.TabStore
		Blocs          *contenu.BlocStore

		svcs   Services
		logger core.Logger

		mu         sync.RWMutex
		etudiants  []classement.Etudiant
		byTeamName map[string][]classement.Etudiant
	}

	// Orphans are children whose parent reference matches nothing loaded.
	Orphans struct {
		SousProgrammes []programme.SousProgramme
		Epreuves       []epreuve.Epreuve // unknown domain code
		Etudiants      []classement.Etudiant
	}
)

var _ auth.Resetter = (*Dashboard)(nil)

func NewServices(api core.API, logger core.Logger) Services {
	return Services{
		Annonces:       annonce.NewService(api),
		Epreuves:       epreuve.NewService(api, logger),
		Questions:      question.NewService(api),
		Propositions:   question.NewPropositionService(api),
		Programmes:     programme.NewService(api),
		SousProgrammes: programme.NewSousProgrammeService(api),
		Tabs:           contenu.NewTabService(api),
		Blocs:          contenu.NewBlocService(api),
		Classement:     classement.NewService(api),
		Auth:           auth.NewService(api),
	}
}

func New(svcs Services, logger core.Logger) *Dashboard {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Dashboard{
		Annonces:       annonce.NewStore(svcs.Annonces, logger),
		Epreuves:       epreuve.NewStore(svcs.Epreuves, logger),
		Questions:      question.NewStore(svcs.Questions, logger),
		Propositions:   question.NewPropositionStore(svcs.Propositions, logger),
		Programmes:     programme.NewStore(svcs.Programmes, logger),
		SousProgrammes: programme.NewSousProgrammeStore(svcs.SousProgrammes, logger),
		Tabs:           contenu.NewTabStore(svcs.Tabs, logger),
		Blocs:          contenu.NewBlocStore(svcs.Blocs, logger),
		svcs:           svcs,
		logger:         logger,
		byTeamName:     map[string][]classement.Etudiant{},
	}
}

func (d *Dashboard) Services() Services { return d.svcs }

// LoadAll fetches every top-level list in parallel. Every list is attempted;
// the first failure is returned.
func (d *Dashboard) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		_, err := d.Annonces.List(ctx, "")
		return err
	})
	g.Go(func() error {
		_, err := d.Epreuves.List(ctx, "")
		return err
	})
	g.Go(func() error {
		_, err := d.svcs.Epreuves.ListDomaines(ctx)
		return err
	})
	g.Go(func() error {
		_, err := d.Programmes.List(ctx, "")
		return err
	})
	g.Go(func() error {
		_, err := d.SousProgrammes.List(ctx, "")
		return err
	})
	g.Go(func() error {
		_, err := d.LoadEtudiants(ctx)
		return err
	})
	return g.Wait()
}

// LoadEtudiants fetches the students and rebuilds the team name index.
func (d *Dashboard) LoadEtudiants(ctx context.Context) ([]classement.Etudiant, error) {
	etudiants, err := d.svcs.Classement.ListEtudiants(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		d.logger.Error("etudiants: list failed", err)
		return nil, err
	}

	idx := make(map[string][]classement.Etudiant, len(etudiants))
	for _, e := range etudiants {
		if key := teamKey(e.Equipe); key != "" {
			idx[key] = append(idx[key], e)
		}
	}

	d.mu.Lock()
	d.etudiants = etudiants
	d.byTeamName = idx
	d.mu.Unlock()
	return append([]classement.Etudiant(nil), etudiants...), nil
}

func (d *Dashboard) Etudiants() []classement.Etudiant {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]classement.Etudiant(nil), d.etudiants...)
}

// Domaines is nil until LoadAll (or ListDomaines) ran.
func (d *Dashboard) Domaines() *epreuve.DomainResolver {
	return d.svcs.Epreuves.Domaines()
}

// Ranking fetches the ranking of an exam and numbers its entries.
func (d *Dashboard) Ranking(ctx context.Context, epreuveID string) ([]filter.Ranked[classement.Equipe], error) {
	equipes, err := d.svcs.Classement.Ranking(ctx, epreuveID)
	if err != nil {
		d.logger.Error("classement: ranking failed", err)
		return nil, err
	}
	return filter.Rank(equipes), nil
}

// TeamMembers returns the loaded students of a team, matched by team name.
func (d *Dashboard) TeamMembers(e classement.Equipe) []classement.Etudiant {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]classement.Etudiant(nil), d.byTeamName[teamKey(e.Nom)]...)
}

// SousProgrammesFor returns the sub-programmes of a programme. When none
// references it, the sub-programmes without any programme are returned instead.
func (d *Dashboard) SousProgrammesFor(programmeID string) []programme.SousProgramme {
	all := d.SousProgrammes.Items()
	children := filter.Where(all, func(sp programme.SousProgramme) bool {
		return programmeID != "" && sp.ProgrammeID == programmeID
	})
	if len(children) > 0 {
		return children
	}
	return filter.Where(all, func(sp programme.SousProgramme) bool {
		return sp.ProgrammeID == ""
	})
}

func (d *Dashboard) Orphans() Orphans {
	programmes := d.Programmes.Index()
	orphans := Orphans{
		SousProgrammes: filter.Where(d.SousProgrammes.Items(), func(sp programme.SousProgramme) bool {
			_, ok := programmes[sp.ProgrammeID]
			return sp.ProgrammeID != "" && !ok
		}),
	}

	if domains := d.Domaines(); domains != nil {
		orphans.Epreuves = filter.Where(d.Epreuves.Items(), func(e epreuve.Epreuve) bool {
			_, ok := domains.ByCode(e.DomaineID)
			return e.DomaineID != 0 && !ok
		})
	}

	orphans.Etudiants = filter.Where(d.Etudiants(), func(e classement.Etudiant) bool {
		return teamKey(e.Equipe) == ""
	})
	return orphans
}

// Reset empties every store. It is called on logout.
func (d *Dashboard) Reset() {
	d.Annonces.Reset()
	d.Epreuves.Reset()
	d.Questions.Reset()
	d.Propositions.Reset()
	d.Programmes.Reset()
	d.SousProgrammes.Reset()
	d.Tabs.Reset()
	d.Blocs.Reset()

	d.mu.Lock()
	d.etudiants = nil
	d.byTeamName = map[string][]classement.Etudiant{}
	d.mu.Unlock()
	d.svcs.Epreuves.UseDomaines(nil)
}

// Errors returns the last error message of every store that has one, keyed by store name.
func (d *Dashboard) Errors() map[string]string {
	errs := map[string]string{}
	for name, msg := range map[string]string{
		d.Annonces.Name():       d.Annonces.Err(),
		d.Epreuves.Name():       d.Epreuves.Err(),
		d.Questions.Name():      d.Questions.Err(),
		d.Propositions.Name():   d.Propositions.Err(),
		d.Programmes.Name():     d.Programmes.Err(),
		d.SousProgrammes.Name(): d.SousProgrammes.Err(),
		d.Tabs.Name():           d.Tabs.Err(),
		d.Blocs.Name():          d.Blocs.Err(),
	} {
		if msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

func teamKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
