package programme

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
)

type Programme struct {
	ID          string `json:"id" yaml:"id"`
	Titre       string `json:"titre" yaml:"titre"`
	Description string `json:"description" yaml:"description"`
	DateDebut   string `json:"date_debut,omitempty" yaml:"date_debut,omitempty"`
	DateFin     string `json:"date_fin,omitempty" yaml:"date_fin,omitempty"`
}

func (p Programme) GetID() string { return p.ID }

func SearchFields(p Programme) []string {
	return []string{p.Titre, p.Description}
}

type NewProgramme struct {
	Titre       string `json:"titre" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"omitempty"`
	DateDebut   string `json:"date_debut,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateFin     string `json:"date_fin,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func FromProgramme(p Programme) NewProgramme {
	return NewProgramme{Titre: p.Titre, Description: p.Description, DateDebut: p.DateDebut, DateFin: p.DateFin}
}

func (np *NewProgramme) Validate(validate *validator.Validate) error {
	np.Titre = core.CleanString(np.Titre)
	np.Description = core.CleanString(np.Description)
	np.DateDebut = core.CleanString(np.DateDebut)
	np.DateFin = core.CleanString(np.DateFin)
	return validate.Struct(np)
}

// SousProgramme is a time slot of a programme.
type SousProgramme struct {
	ID          string `json:"id" yaml:"id"`
	ProgrammeID string `json:"id_programme,omitempty" yaml:"id_programme,omitempty"`
	Titre       string `json:"titre" yaml:"titre"`
	Description string `json:"description" yaml:"description"`
	HeureDebut  string `json:"heure_debut,omitempty" yaml:"heure_debut,omitempty"`
	HeureFin    string `json:"heure_fin,omitempty" yaml:"heure_fin,omitempty"`
	Lieu        string `json:"lieu,omitempty" yaml:"lieu,omitempty"`
}

func (sp SousProgramme) GetID() string { return sp.ID }

func SousProgrammeSearchFields(sp SousProgramme) []string {
	return []string{sp.Titre, sp.Description, sp.Lieu}
}

type NewSousProgramme struct {
	Titre       string `json:"titre" validate:"required,notblank,max=255"`
	Description string `json:"description" validate:"omitempty"`
	HeureDebut  string `json:"heure_debut" validate:"required,datetime=15:04"`
	HeureFin    string `json:"heure_fin" validate:"required,datetime=15:04"`
	Lieu        string `json:"lieu,omitempty" validate:"omitempty,max=255"`
}

func FromSousProgramme(sp SousProgramme) NewSousProgramme {
	return NewSousProgramme{
		Titre:       sp.Titre,
		Description: sp.Description,
		HeureDebut:  sp.HeureDebut,
		HeureFin:    sp.HeureFin,
		Lieu:        sp.Lieu,
	}
}

func (nsp *NewSousProgramme) Validate(validate *validator.Validate) error {
	nsp.Titre = core.CleanString(nsp.Titre)
	nsp.Description = core.CleanString(nsp.Description)
	nsp.HeureDebut = core.CleanString(nsp.HeureDebut)
	nsp.HeureFin = core.CleanString(nsp.HeureFin)
	nsp.Lieu = core.CleanString(nsp.Lieu)
	return validate.Struct(nsp)
}

// InitValidators registers the date and hour ordering rules.
func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(programmeStructValidation, NewProgramme{}, NewSousProgramme{})
}

func programmeStructValidation(sl validator.StructLevel) {
	switch p := sl.Current().Interface().(type) {
	case NewProgramme:
		if !core.InOrder(p.DateDebut, p.DateFin, core.DateLayout, false) {
			sl.ReportError(p.DateFin, "date_fin", "DateFin", core.DateOrderTag, "")
		}
	case NewSousProgramme:
		// a slot cannot end when it starts
		if !core.InOrder(p.HeureDebut, p.HeureFin, core.TimeLayout, true) {
			sl.ReportError(p.HeureFin, "heure_fin", "HeureFin", core.DateOrderTag, "")
		}
	}
}
