package question

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/resource"
)

const (
	listPath   = "/api/ListQuestions/"   // + epreuve id
	createPath = "/api/StoreQuestion/"   // + epreuve id
	deletePath = "/api/DeleteQuestions/" // + question id

	listPropositionsPath  = "/api/ListePropositions/"  // + question id
	createPropositionPath = "/api/StoreProposition/"   // + question id
	updatePropositionPath = "/api/UpdtateProposition/" // sic
	deletePropositionPath = "/api/DeleteProposition/"
)

type (
	// Service maps the question endpoints. The platform has no question update endpoint.
	Service struct {
		api core.API
	}

	PropositionService struct {
		api core.API
	}

	Store            = resource.Store[Question, NewQuestion]
	PropositionStore = resource.Store[Proposition, NewProposition]
)

var (
	_ resource.Backend[Question, NewQuestion]       = (*Service)(nil)
	_ resource.Backend[Proposition, NewProposition] = (*PropositionService)(nil)
	_ resource.Updater[Proposition, NewProposition] = (*PropositionService)(nil)
)

func NewService(api core.API) *Service {
	return &Service{api: api}
}

func NewStore(svc *Service, logger core.Logger) *Store {
	return resource.NewStore[Question, NewQuestion]("questions", svc, logger)
}

// List fetches the questions of an exam.
func (svc *Service) List(ctx context.Context, epreuveID string) ([]Question, error) {
	if epreuveID == "" {
		return nil, errors.Wrap(core.ErrMissingParent, "listing questions")
	}
	var questions []Question
	if err := svc.api.Get(ctx, listPath+url.PathEscape(epreuveID), &questions); err != nil {
		return nil, errors.Wrapf(err, "listing questions of epreuve %s", epreuveID)
	}
	return questions, nil
}

func (svc *Service) Create(ctx context.Context, epreuveID string, nq NewQuestion) (Question, error) {
	if epreuveID == "" {
		return Question{}, errors.Wrap(core.ErrMissingParent, "creating question")
	}
	var q Question
	if err := svc.api.Post(ctx, createPath+url.PathEscape(epreuveID), nq, &q); err != nil {
		return Question{}, errors.Wrapf(err, "creating question of epreuve %s", epreuveID)
	}
	return q, nil
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deletePath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting question %s", id)
	}
	return nil
}

func NewPropositionService(api core.API) *PropositionService {
	return &PropositionService{api: api}
}

func NewPropositionStore(svc *PropositionService, logger core.Logger) *PropositionStore {
	return resource.NewStore[Proposition, NewProposition]("propositions", svc, logger)
}

// List fetches the propositions of a question.
func (svc *PropositionService) List(ctx context.Context, questionID string) ([]Proposition, error) {
	if questionID == "" {
		return nil, errors.Wrap(core.ErrMissingParent, "listing propositions")
	}
	var props []Proposition
	if err := svc.api.Get(ctx, listPropositionsPath+url.PathEscape(questionID), &props); err != nil {
		return nil, errors.Wrapf(err, "listing propositions of question %s", questionID)
	}
	return props, nil
}

func (svc *PropositionService) Create(ctx context.Context, questionID string, np NewProposition) (Proposition, error) {
	if questionID == "" {
		return Proposition{}, errors.Wrap(core.ErrMissingParent, "creating proposition")
	}
	var p Proposition
	if err := svc.api.Post(ctx, createPropositionPath+url.PathEscape(questionID), np, &p); err != nil {
		return Proposition{}, errors.Wrapf(err, "creating proposition of question %s", questionID)
	}
	return p, nil
}

func (svc *PropositionService) Update(ctx context.Context, id string, np NewProposition) (Proposition, error) {
	var p Proposition
	if err := svc.api.Post(ctx, updatePropositionPath+url.PathEscape(id), np, &p); err != nil {
		return Proposition{}, errors.Wrapf(err, "updating proposition %s", id)
	}
	return p, nil
}

func (svc *PropositionService) Delete(ctx context.Context, id string) error {
	if err := svc.api.Post(ctx, deletePropositionPath+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "deleting proposition %s", id)
	}
	return nil
}
