package classement

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
)

const (
	rankingPath   = "/api/ClassementEpreuve/" // + epreuve id
	etudiantsPath = "/api/ListEtudiants"
)

// Service is read-only: the ranking is computed server side.
type Service struct {
	api core.API
}

func NewService(api core.API) *Service {
	return &Service{api: api}
}

// Ranking fetches the teams of an exam, best first.
func (svc *Service) Ranking(ctx context.Context, epreuveID string) ([]Equipe, error) {
	if epreuveID == "" {
		return nil, errors.Wrap(core.ErrMissingParent, "fetching ranking")
	}
	var equipes []Equipe
	if err := svc.api.Get(ctx, rankingPath+url.PathEscape(epreuveID), &equipes); err != nil {
		return nil, errors.Wrapf(err, "fetching ranking of epreuve %s", epreuveID)
	}
	if equipes == nil {
		equipes = []Equipe{}
	}
	return equipes, nil
}

func (svc *Service) ListEtudiants(ctx context.Context) ([]Etudiant, error) {
	var etudiants []Etudiant
	if err := svc.api.Get(ctx, etudiantsPath, &etudiants); err != nil {
		return nil, errors.Wrap(err, "listing etudiants")
	}
	if etudiants == nil {
		etudiants = []Etudiant{}
	}
	return etudiants, nil
}
