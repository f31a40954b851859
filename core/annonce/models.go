package annonce

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
)

// Audiences an announcement can target.
const (
	CibleTous      = "tous"
	CibleEtudiants = "etudiants"
	CibleEquipes   = "equipes"
)

type Annonce struct {
	ID              string `json:"id" yaml:"id"`
	Titre           string `json:"titre" yaml:"titre"`
	Description     string `json:"description" yaml:"description"`
	DatePublication string `json:"date_publication,omitempty" yaml:"date_publication,omitempty"`
	Cible           string `json:"cible,omitempty" yaml:"cible,omitempty"`
}

func (a Annonce) GetID() string { return a.ID }

// SearchFields are the fields the announcements page searches in.
func SearchFields(a Annonce) []string {
	return []string{a.Titre, a.Description}
}

// NewAnnonce is the payload of both create and update.
type NewAnnonce struct {
	Titre           string `json:"titre" validate:"required,notblank,max=255"`
	Description     string `json:"description" validate:"required,notblank"`
	DatePublication string `json:"date_publication,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Cible           string `json:"cible,omitempty" validate:"omitempty,oneof=tous etudiants equipes"`
}

// FromAnnonce pre-fills an edit payload with the current values of a.
func FromAnnonce(a Annonce) NewAnnonce {
	return NewAnnonce{
		Titre:           a.Titre,
		Description:     a.Description,
		DatePublication: a.DatePublication,
		Cible:           a.Cible,
	}
}

// Clean trims every field and lowers the audience.
func (na *NewAnnonce) Clean() {
	na.Titre = core.CleanString(na.Titre)
	na.Description = core.CleanString(na.Description)
	na.DatePublication = core.CleanString(na.DatePublication)
	na.Cible = core.CleanString(na.Cible, true /* lower */)
}

func (na *NewAnnonce) Validate(validate *validator.Validate) error {
	na.Clean()
	return validate.Struct(na)
}
