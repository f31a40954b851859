package epreuve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hackadmin/core"
)

func code(c int) *int { return &c }

func TestDomainResolver(t *testing.T) {
	domaines := []Domaine{
		{ID: "web", Nom: "Web", Code: code(3)},
		{ID: "ia", Nom: "IA"},
		{ID: "sec", Nom: "Sécurité", Code: code(1)},
	}
	r := NewDomainResolver(domaines, nil)

	tests := []struct {
		id      string
		want    Resolution
		wantErr bool
	}{
		{id: "web", want: Resolution{Code: 3}},
		{id: "ia", want: Resolution{Code: 2, Positional: true}},
		{id: "sec", want: Resolution{Code: 1}},
		{id: "nope", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := r.Resolve(tt.id)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownDomaine))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("by code", func(t *testing.T) {
		d, ok := r.ByCode(2)
		assert.True(t, ok)
		assert.Equal(t, "ia", d.ID)
		_, ok = r.ByCode(4)
		assert.False(t, ok)
	})

	t.Run("sorted by code", func(t *testing.T) {
		var ids []string
		for _, d := range r.Domaines() {
			ids = append(ids, d.ID)
		}
		assert.Equal(t, []string{"sec", "ia", "web"}, ids)
		assert.Equal(t, 3, r.Len())
	})

	t.Run("input is copied", func(t *testing.T) {
		domaines[0].Nom = "changed"
		d, _ := r.ByCode(3)
		assert.Equal(t, "Web", d.Nom)
	})
}

func TestService_form(t *testing.T) {
	svc := NewService(nil, nil)
	ne := NewEpreuve{
		Titre:       "Hackathon IA",
		Description: "Vision",
		DateDebut:   "2026-11-02",
		DateFin:     "2026-11-03",
		Duree:       90,
		DomaineID:   "ia",
		ImagePath:   "/tmp/cover.png",
	}

	_, err := svc.form(ne)
	assert.Equal(t, ErrDomainesNotLoaded, err)

	svc.UseDomaines(NewDomainResolver([]Domaine{{ID: "web"}, {ID: "ia"}}, nil))
	form, err := svc.form(ne)
	require.NoError(t, err)
	assert.Equal(t, "Vision", form.Fields.Get("descritpion_epreuve"))
	assert.Equal(t, "90", form.Fields.Get("duree"))
	assert.Equal(t, "2", form.Fields.Get("domaine_id"))
	assert.Equal(t, []core.FormFile{{Field: "image", Path: "/tmp/cover.png"}}, form.Files)

	ne.DomaineID = "gone"
	_, err = svc.form(ne)
	assert.True(t, errors.Is(err, ErrUnknownDomaine))
}

func TestFromEpreuve(t *testing.T) {
	e := Epreuve{ID: "e1", Titre: "Algo", Duree: 60, DomaineID: 2}
	assert.Empty(t, FromEpreuve(e, nil).DomaineID)

	r := NewDomainResolver([]Domaine{{ID: "web", Code: code(1)}, {ID: "ia", Code: code(2)}}, nil)
	ne := FromEpreuve(e, r)
	assert.Equal(t, "ia", ne.DomaineID)
	assert.Equal(t, "Algo", ne.Titre)
	assert.Empty(t, ne.ImagePath)
}

func TestNewEpreuve_Validate(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "small.png")
	big := filepath.Join(dir, "big.jpg")
	gif := filepath.Join(dir, "anim.gif")
	require.NoError(t, os.WriteFile(small, []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(big, make([]byte, 64), 0o600))
	require.NoError(t, os.WriteFile(gif, []byte("gif"), 0o600))

	validate, translator := core.NewValidator()
	InitValidators(validate, translator, 32)

	valid := func() NewEpreuve {
		return NewEpreuve{Titre: "Algo", Description: "Tri", DateDebut: "2026-11-02", DateFin: "2026-11-02", Duree: 60, DomaineID: "ia"}
	}

	tests := []struct {
		name       string
		mutate     func(ne *NewEpreuve)
		wantFields []string
	}{
		{name: "ok", mutate: func(*NewEpreuve) {}},
		{name: "with image", mutate: func(ne *NewEpreuve) { ne.ImagePath = small }},
		{name: "dates reversed", mutate: func(ne *NewEpreuve) { ne.DateFin = "2026-11-01" }, wantFields: []string{"date_fin"}},
		{name: "no domain", mutate: func(ne *NewEpreuve) { ne.DomaineID = " " }, wantFields: []string{"domaine_id"}},
		{name: "zero duration", mutate: func(ne *NewEpreuve) { ne.Duree = 0 }, wantFields: []string{"duree"}},
		{name: "missing image", mutate: func(ne *NewEpreuve) { ne.ImagePath = filepath.Join(dir, "nope.png") }, wantFields: []string{"image"}},
		{name: "gif", mutate: func(ne *NewEpreuve) { ne.ImagePath = gif }, wantFields: []string{"image"}},
		{name: "too big", mutate: func(ne *NewEpreuve) { ne.ImagePath = big }, wantFields: []string{"image"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ne := valid()
			tt.mutate(&ne)
			err := ne.Validate(validate)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var fields []string
			for _, f := range core.FieldMessages(err, translator) {
				fields = append(fields, f.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
