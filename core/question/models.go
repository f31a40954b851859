package question

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
)

type Question struct {
	ID        string `json:"id" yaml:"id"`
	EpreuveID string `json:"id_epreuve" yaml:"id_epreuve"`
	Intitule  string `json:"intitule" yaml:"intitule"`
	Temps     int    `json:"temps" yaml:"temps"` // seconds
	Points    int    `json:"points" yaml:"points"`
}

func (q Question) GetID() string { return q.ID }

func SearchFields(q Question) []string {
	return []string{q.Intitule}
}

type NewQuestion struct {
	Intitule string `json:"intitule" validate:"required,notblank"`
	Temps    int    `json:"temps" validate:"required,gt=0"`
	Points   int    `json:"points" validate:"gte=0"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Intitule = core.CleanString(nq.Intitule)
	return validate.Struct(nq)
}

// Proposition is a possible answer to a question.
type Proposition struct {
	ID          string `json:"id" yaml:"id"`
	QuestionID  string `json:"id_question" yaml:"id_question"`
	Libelle     string `json:"libelle" yaml:"libelle"`
	EstCorrecte bool   `json:"est_correcte" yaml:"est_correcte"`
}

func (p Proposition) GetID() string { return p.ID }

type NewProposition struct {
	Libelle     string `json:"libelle" validate:"required,notblank"`
	EstCorrecte bool   `json:"est_correcte"`
}

func FromProposition(p Proposition) NewProposition {
	return NewProposition{Libelle: p.Libelle, EstCorrecte: p.EstCorrecte}
}

func (np *NewProposition) Validate(validate *validator.Validate) error {
	np.Libelle = core.CleanString(np.Libelle)
	return validate.Struct(np)
}

// HasCorrectAnswer reports whether at least one of the propositions is flagged correct.
func HasCorrectAnswer(props []Proposition) bool {
	for _, p := range props {
		if p.EstCorrecte {
			return true
		}
	}
	return false
}
