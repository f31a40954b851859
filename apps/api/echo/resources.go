package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

// payload is implemented by the JSON bodies of the create and update endpoints.
type payload interface {
	Validate(validate *validator.Validate) error
}

// resourceApi serves the list/create/update/delete endpoints of one entity.
// P must be a struct; *P is bound and validated.
type resourceApi[T inmemdb.Record, P any] struct {
	name     string
	table    *inmemdb.Table[T]
	envelope envelope
	validate *validator.Validate

	// parentOf is nil for top-level entities.
	parentOf func(T) string
	// parentExists is nil when the parent is not checked.
	parentExists func(id string) bool
	// build makes the row to save from a validated payload.
	build func(id, parentID string, data P) T
	// destroy defaults to table.Delete.
	destroy func(id string) error
}

func (api *resourceApi[T, P]) bind(ctx echo.Context) (P, error) {
	var data P
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrapf(err, "binding %s payload", api.name)
	}
	if p, ok := any(&data).(payload); ok {
		if err := p.Validate(api.validate); err != nil {
			return data, err
		}
	}
	return data, nil
}

// list filters on the :parent param when the entity has a parent and the route carries one.
func (api *resourceApi[T, P]) list(ctx echo.Context) error {
	parentID := ctx.Param("parent")
	var rows []T
	if api.parentOf != nil && parentID != "" {
		rows = api.table.Where(func(row T) bool { return api.parentOf(row) == parentID })
	} else {
		rows = api.table.All()
	}
	return api.envelope.respond(ctx, http.StatusOK, rows, "")
}

func (api *resourceApi[T, P]) create(ctx echo.Context) error {
	parentID := ctx.Param("parent")
	if api.parentExists != nil && !api.parentExists(parentID) {
		return errParentNotFound
	}
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}

	row := api.build(inmemdb.NewID(), parentID, data)
	if err = api.table.Insert(row); err != nil {
		return errors.Wrapf(err, "saving %s", api.name)
	}
	return api.envelope.respond(ctx, http.StatusCreated, row, api.name+" créé")
}

func (api *resourceApi[T, P]) update(ctx echo.Context) error {
	id := ctx.Param("id")
	existing, err := api.table.Get(id)
	if err != nil {
		return err
	}
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}

	var parentID string
	if api.parentOf != nil {
		parentID = api.parentOf(existing)
	}
	row := api.build(id, parentID, data)
	if err = api.table.Update(row); err != nil {
		return errors.Wrapf(err, "updating %s", api.name)
	}
	return api.envelope.respond(ctx, http.StatusOK, row, api.name+" modifié")
}

func (api *resourceApi[T, P]) delete(ctx echo.Context) error {
	id := ctx.Param("id")
	destroy := api.destroy
	if destroy == nil {
		destroy = api.table.Delete
	}
	if err := destroy(id); err != nil {
		return err
	}
	return api.envelope.respond(ctx, http.StatusOK, nil, api.name+" supprimé")
}
