package echoapi

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/epreuve"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

var imageExts = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".webp": true}

type (
	epreuveApi struct {
		deps ServerDeps
	}

	// epreuveForm is the multipart body of the exam endpoints.
	epreuveForm struct {
		Titre       string `form:"titre_epreuve" json:"titre_epreuve" validate:"required,notblank"`
		Description string `form:"descritpion_epreuve" json:"descritpion_epreuve" validate:"required,notblank"`
		DateDebut   string `form:"date_debut" json:"date_debut" validate:"required,datetime=2006-01-02"`
		DateFin     string `form:"date_fin" json:"date_fin" validate:"required,datetime=2006-01-02"`
		Duree       int    `form:"duree" json:"duree" validate:"required,gt=0"`
		DomaineID   int    `form:"domaine_id" json:"domaine_id" validate:"required,gt=0"`
	}
)

func (api *epreuveApi) list(ctx echo.Context) error {
	return dataEnvelope.respond(ctx, http.StatusOK, api.deps.DB.Epreuves.All(), "")
}

// listDomaines answers a bare array.
func (api *epreuveApi) listDomaines(ctx echo.Context) error {
	recs := api.deps.DB.Domaines.All()
	domaines := make([]epreuve.Domaine, 0, len(recs))
	for _, rec := range recs {
		domaines = append(domaines, rec.Domaine)
	}
	return bareEnvelope.respond(ctx, http.StatusOK, domaines, "")
}

func (api *epreuveApi) create(ctx echo.Context) error {
	ctx.Set(fieldsKeyCtx, "validation_errors")
	e, err := api.bind(ctx, inmemdb.NewID())
	if err != nil {
		return err
	}
	if err = api.deps.DB.Epreuves.Insert(e); err != nil {
		return errors.Wrap(err, "saving epreuve")
	}
	return dataEnvelope.respond(ctx, http.StatusCreated, e, "")
}

func (api *epreuveApi) update(ctx echo.Context) error {
	ctx.Set(fieldsKeyCtx, "validation_errors")
	id := ctx.Param("id")
	existing, err := api.deps.DB.Epreuves.Get(id)
	if err != nil {
		return err
	}
	e, err := api.bind(ctx, id)
	if err != nil {
		return err
	}
	if e.ImageURL == "" {
		e.ImageURL = existing.ImageURL
	}
	if err = api.deps.DB.Epreuves.Update(e); err != nil {
		return errors.Wrap(err, "updating epreuve")
	}
	return dataEnvelope.respond(ctx, http.StatusOK, e, "")
}

func (api *epreuveApi) delete(ctx echo.Context) error {
	if err := api.deps.DB.DeleteEpreuve(ctx.Param("id")); err != nil {
		return err
	}
	return dataEnvelope.respond(ctx, http.StatusOK, nil, "")
}

// bind validates the multipart body, including the optional image part.
func (api *epreuveApi) bind(ctx echo.Context, id string) (epreuve.Epreuve, error) {
	var form epreuveForm
	if err := ctx.Bind(&form); err != nil {
		return epreuve.Epreuve{}, errors.Wrap(err, "binding to epreuveForm")
	}
	form.Titre = core.CleanString(form.Titre)
	form.Description = core.CleanString(form.Description)
	if err := api.deps.Validate.Struct(form); err != nil {
		return epreuve.Epreuve{}, err
	}

	var flds []core.FieldError
	if !core.InOrder(form.DateDebut, form.DateFin, core.DateLayout, false) {
		flds = append(flds, core.FieldError{Field: "date_fin", Error: "la date de fin doit suivre la date de début"})
	}
	if _, err := api.deps.DB.DomaineByCode(form.DomaineID); err != nil {
		flds = append(flds, core.FieldError{Field: "domaine_id", Error: "domaine inconnu"})
	}

	e := epreuve.Epreuve{
		ID:          id,
		Titre:       form.Titre,
		Description: form.Description,
		DateDebut:   form.DateDebut,
		DateFin:     form.DateFin,
		Duree:       form.Duree,
		DomaineID:   form.DomaineID,
	}

	file, err := ctx.FormFile("image")
	switch {
	case err == http.ErrMissingFile:
	case err != nil:
		return epreuve.Epreuve{}, errors.Wrap(err, "reading image")
	default:
		ext := strings.ToLower(filepath.Ext(file.Filename))
		maxSize := api.deps.Conf.Epreuve.MaxImageSize
		switch {
		case !imageExts[ext]:
			flds = append(flds, core.FieldError{Field: "image", Error: "format d'image non supporté"})
		case maxSize > 0 && file.Size > maxSize:
			flds = append(flds, core.FieldError{Field: "image", Error: "image trop volumineuse"})
		default:
			e.ImageURL = "/storage/epreuves/" + id + ext
		}
	}

	if len(flds) > 0 {
		return epreuve.Epreuve{}, core.NewValidationError(nil, flds...)
	}
	return e, nil
}
