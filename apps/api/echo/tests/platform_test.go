package tests

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/hackadmin/apps/api/echo"
	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/programme"
	"github.com/trezcool/hackadmin/core/question"
)

func Test_platform_annonces(t *testing.T) {
	app, db := setup(t)
	a1 := annonce.Annonce{ID: "a1", Titre: "Ouverture", Description: "Bienvenue"}
	require.NoError(t, db.Annonces.Insert(a1))

	tests := []httpTest{
		{
			name: "list", method: http.MethodGet, path: "/api/ListAnnoncesAdmin", wantCode: http.StatusOK,
			wantData: marshallObj(t, map[string]interface{}{"succes": true, "data": []annonce.Annonce{a1}, "message": ""}),
		},
		{
			name: "create blank", method: http.MethodPost, path: "/api/StoreAnnonces",
			body:     []byte(`{"titre": "  ", "description": "x"}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"message": "validation failed", "errors": {"titre": ["this field is required"]}}`),
		},
		{
			name: "update unknown", method: http.MethodPost, path: "/api/UpdateAnnonce/404",
			body: []byte(`{"titre": "x", "description": "y"}`), wantCode: http.StatusNotFound,
			wantData: []byte(`{"message": "not found"}`),
		},
		{
			name: "delete unknown", method: http.MethodPost, path: "/api/DeleteAnnonce/404",
			wantCode: http.StatusNotFound, wantData: []byte(`{"message": "not found"}`),
		},
		{
			name: "trailing slash", method: http.MethodGet, path: "/api/ListAnnoncesAdmin/", wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("create, update, delete", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/StoreAnnonces", []byte(`{"titre": " Pause ", "description": "Café", "cible": "TOUS"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created struct {
			Succes bool            `json:"succes"`
			Data   annonce.Annonce `json:"data"`
		}
		decode(t, rec, &created)
		assert.True(t, created.Succes)
		assert.NotEmpty(t, created.Data.ID)
		assert.Equal(t, "Pause", created.Data.Titre)
		assert.Equal(t, "tous", created.Data.Cible)
		assert.Equal(t, 2, db.Annonces.Len())

		req, rec = newRequest(http.MethodPost, "/api/UpdateAnnonce/"+created.Data.ID, []byte(`{"titre": "Déjeuner", "description": "Midi"}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		got, err := db.Annonces.Get(created.Data.ID)
		require.NoError(t, err)
		assert.Equal(t, "Déjeuner", got.Titre)

		req, rec = newRequest(http.MethodPost, "/api/DeleteAnnonce/"+created.Data.ID)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, db.Annonces.Len())
	})
}

func Test_platform_children(t *testing.T) {
	app, db := setup(t)
	require.NoError(t, db.Epreuves.Insert(epreuve.Epreuve{ID: "e1", Titre: "Algo"}))

	t.Run("unknown parent", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/StoreQuestion/404", []byte(`{"intitule": "?", "temps": 30, "points": 1}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: []byte(`{"message": "parent not found"}`)}, rec)
	})

	var q question.Question
	t.Run("question with propositions", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/StoreQuestion/e1", []byte(`{"intitule": "2+2 ?", "temps": 30, "points": 2}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
		var created struct {
			Data question.Question `json:"data"`
		}
		decode(t, rec, &created)
		q = created.Data
		assert.Equal(t, "e1", q.EpreuveID)

		req, rec = newRequest(http.MethodPost, "/api/StoreProposition/"+q.ID, []byte(`{"libelle": "4", "est_correcte": true}`))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		req, rec = newRequest(http.MethodGet, "/api/ListePropositions/"+q.ID)
		app.ServeHTTP(rec, req)
		var listed struct {
			Data []question.Proposition `json:"data"`
		}
		decode(t, rec, &listed)
		require.Len(t, listed.Data, 1)
		assert.True(t, listed.Data[0].EstCorrecte)
	})

	t.Run("no question update endpoint", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/UpdateQuestion/"+q.ID, []byte(`{"intitule": "x", "temps": 1}`))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("deleting the exam cascades", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/DeleteEpreuve/e1")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, db.Questions.Len())
		assert.Zero(t, db.Propositions.Len())
	})
}

func Test_platform_sousProgrammes(t *testing.T) {
	app, db := setup(t)
	require.NoError(t, db.Programmes.Insert(programme.Programme{ID: "p1", Titre: "Jour 1"}))

	tests := []httpTest{
		{
			name: "hours out of order", method: http.MethodPost, path: "/api/StoreSousProgramme/p1",
			body:     []byte(`{"titre": "Keynote", "heure_debut": "10:00", "heure_fin": "09:00"}`),
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"message": "validation failed", "errors": {"heure_fin": ["heure_fin must not be before the start"]}}`),
		},
		{
			name: "ok", method: http.MethodPost, path: "/api/StoreSousProgramme/p1",
			body:     []byte(`{"titre": "Keynote", "heure_debut": "09:00", "heure_fin": "10:00", "lieu": "Amphi A"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("deleting the programme detaches", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/DeleteProgramme/p1")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		sps := db.SousProgrammes.All()
		require.Len(t, sps, 1)
		assert.Empty(t, sps[0].ProgrammeID)
	})
}

func Test_platform_epreuves(t *testing.T) {
	app, db := setup(t, func(conf *core.Config) { conf.Epreuve.MaxImageSize = 16 })
	code := db.Domaines.All()[1].IntID

	fields := func(domaine int) map[string]string {
		return map[string]string{
			"titre_epreuve":       "Hackathon IA",
			"descritpion_epreuve": "Vision par ordinateur",
			"date_debut":          "2026-11-02",
			"date_fin":            "2026-11-03",
			"duree":               "90",
			"domaine_id":          strconv.Itoa(domaine),
		}
	}

	t.Run("created with image", func(t *testing.T) {
		req, rec := newMultipartRequest(t, "/api/StoreEpreuve", fields(code), map[string][2]string{"image": {"cover.PNG", "tiny"}})
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created struct {
			Data epreuve.Epreuve `json:"data"`
		}
		decode(t, rec, &created)
		assert.Equal(t, "Vision par ordinateur", created.Data.Description)
		assert.Equal(t, 90, created.Data.Duree)
		assert.Equal(t, code, created.Data.DomaineID)
		assert.Equal(t, "/storage/epreuves/"+created.Data.ID+".png", created.Data.ImageURL)
	})

	t.Run("validation errors", func(t *testing.T) {
		f := fields(99)
		f["date_fin"] = "2026-11-01"
		req, rec := newMultipartRequest(t, "/api/StoreEpreuve", f, map[string][2]string{"image": {"cover.gif", "gif"}})
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"message": "validation failed", "validation_errors": {
				"date_fin": ["la date de fin doit suivre la date de début"],
				"domaine_id": ["domaine inconnu"],
				"image": ["format d'image non supporté"]
			}}`),
		}, rec)
	})

	t.Run("image too big", func(t *testing.T) {
		req, rec := newMultipartRequest(t, "/api/StoreEpreuve", fields(code), map[string][2]string{"image": {"big.jpg", "more than sixteen bytes"}})
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnprocessableEntity,
			wantData: []byte(`{"message": "validation failed", "validation_errors": {"image": ["image trop volumineuse"]}}`),
		}, rec)
	})

	t.Run("domains are a bare array", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/ListDomaines")
		app.ServeHTTP(rec, req)
		var doms []epreuve.Domaine
		decode(t, rec, &doms)
		require.Len(t, doms, db.Domaines.Len())
		require.NotNil(t, doms[1].Code)
		assert.Equal(t, code, *doms[1].Code)
	})
}

func Test_platform_faults(t *testing.T) {
	app, _ := setup(t)

	tests := []struct {
		name     string
		fault    echoapi.Fault
		wantCode int
		wantData []byte
	}{
		{name: "server error", fault: echoapi.Fault{Status: 500, Message: "boom"}, wantCode: 500, wantData: []byte(`{"message": "boom"}`)},
		{name: "erreur key", fault: echoapi.Fault{Status: 400, Message: "mauvais", Key: "erreur"}, wantCode: 400, wantData: []byte(`{"erreur": "mauvais"}`)},
		{name: "succes false", fault: echoapi.Fault{Status: 200, Message: "refusé"}, wantCode: 200, wantData: []byte(`{"succes": false, "message": "refusé"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.InjectFault("/api/ListProgramme", tt.fault)
			defer app.ClearFaults()

			req, rec := newRequest(http.MethodGet, "/api/ListProgrammeAdmin")
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)

			// other routes are untouched
			req, rec = newRequest(http.MethodGet, "/api/ListAnnoncesAdmin")
			app.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	t.Run("delay only", func(t *testing.T) {
		app.InjectFault("/api/ListAnnonces", echoapi.Fault{Delay: 20 * time.Millisecond})
		defer app.ClearFaults()

		start := time.Now()
		req, rec := newRequest(http.MethodGet, "/api/ListAnnoncesAdmin")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	})
}
