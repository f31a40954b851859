package epreuve

import (
	"fmt"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hackadmin/core"
)

var (
	imageSizeTag = "imagesize"
)

type Epreuve struct {
	ID          string `json:"id" yaml:"id"`
	Titre       string `json:"titre_epreuve" yaml:"titre_epreuve"`
	Description string `json:"description_epreuve" yaml:"description_epreuve"`
	DateDebut   string `json:"date_debut" yaml:"date_debut"`
	DateFin     string `json:"date_fin" yaml:"date_fin"`
	Duree       int    `json:"duree" yaml:"duree"`                               // minutes
	DomaineID   int    `json:"domaine_id,omitempty" yaml:"domaine_id,omitempty"` // domain integer code
	ImageURL    string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

func (e Epreuve) GetID() string { return e.ID }

func SearchFields(e Epreuve) []string {
	return []string{e.Titre, e.Description}
}

// Domaine is a competition domain. Exams reference it by its integer Code,
// while the admin UI selects it by ID.
type Domaine struct {
	ID   string `json:"id" yaml:"id"`
	Nom  string `json:"nom" yaml:"nom"`
	Code *int   `json:"code,omitempty" yaml:"code,omitempty"`
}

func (d Domaine) GetID() string { return d.ID }

// NewEpreuve is the payload of both create and update. It is sent as multipart/form-data.
type NewEpreuve struct {
	Titre       string `json:"titre_epreuve" validate:"required,notblank,max=255"`
	Description string `json:"descritpion_epreuve" validate:"required,notblank"`
	DateDebut   string `json:"date_debut" validate:"required,datetime=2006-01-02"`
	DateFin     string `json:"date_fin" validate:"required,datetime=2006-01-02"`
	Duree       int    `json:"duree" validate:"required,gt=0"`
	DomaineID   string `json:"domaine_id" validate:"required,notblank"` // Domaine.ID
	ImagePath   string `json:"image,omitempty" validate:"omitempty,file,imagefile"`
}

// FromEpreuve pre-fills an edit payload. The domain can only be pre-filled
// when the resolver knows the exam domain code.
func FromEpreuve(e Epreuve, domains *DomainResolver) NewEpreuve {
	ne := NewEpreuve{
		Titre:       e.Titre,
		Description: e.Description,
		DateDebut:   e.DateDebut,
		DateFin:     e.DateFin,
		Duree:       e.Duree,
	}
	if domains != nil {
		if d, ok := domains.ByCode(e.DomaineID); ok {
			ne.DomaineID = d.ID
		}
	}
	return ne
}

func (ne *NewEpreuve) Clean() {
	ne.Titre = core.CleanString(ne.Titre)
	ne.Description = core.CleanString(ne.Description)
	ne.DateDebut = core.CleanString(ne.DateDebut)
	ne.DateFin = core.CleanString(ne.DateFin)
	ne.DomaineID = core.CleanString(ne.DomaineID)
	ne.ImagePath = core.CleanString(ne.ImagePath)
}

func (ne *NewEpreuve) Validate(validate *validator.Validate) error {
	ne.Clean()
	return validate.Struct(ne)
}

// InitValidators registers the exam struct level rules. Images bigger than
// maxImageSize bytes are rejected; 0 disables the check.
func InitValidators(validate *validator.Validate, translator ut.Translator, maxImageSize int64) {
	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		ne, ok := sl.Current().Interface().(NewEpreuve)
		if !ok {
			return
		}
		if !core.InOrder(ne.DateDebut, ne.DateFin, core.DateLayout, false) {
			sl.ReportError(ne.DateFin, "date_fin", "DateFin", core.DateOrderTag, "")
		}
		if maxImageSize > 0 && ne.ImagePath != "" {
			if info, err := os.Stat(ne.ImagePath); err == nil && info.Size() > maxImageSize {
				sl.ReportError(ne.ImagePath, "image", "ImagePath", imageSizeTag, "")
			}
		}
	}, NewEpreuve{})

	core.RegisterCustomTranslation(
		validate, translator, imageSizeTag,
		fmt.Sprintf("image must not exceed %.1f MB", float64(maxImageSize)/(1<<20)),
	)
}
