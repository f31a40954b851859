package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/contenu"
	"github.com/trezcool/hackadmin/core/programme"
	"github.com/trezcool/hackadmin/core/question"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

func exists[T inmemdb.Record](tbl *inmemdb.Table[T]) func(string) bool {
	return func(id string) bool {
		_, err := tbl.Get(id)
		return err == nil
	}
}

// registerPlatformAPI mounts the admin endpoints, typos included.
func registerPlatformAPI(g *echo.Group, deps ServerDeps) {
	db := deps.DB

	annonces := &resourceApi[annonce.Annonce, annonce.NewAnnonce]{
		name: "annonce", table: db.Annonces, envelope: succesEnvelope, validate: deps.Validate,
		build: func(id, _ string, na annonce.NewAnnonce) annonce.Annonce {
			return annonce.Annonce{
				ID:              id,
				Titre:           na.Titre,
				Description:     na.Description,
				DatePublication: na.DatePublication,
				Cible:           na.Cible,
			}
		},
	}
	g.GET("/ListAnnoncesAdmin", annonces.list)
	g.POST("/StoreAnnonces", annonces.create)
	g.POST("/UpdateAnnonce/:id", annonces.update)
	g.POST("/DeleteAnnonce/:id", annonces.delete)

	epreuves := &epreuveApi{deps: deps}
	g.GET("/ListEpreuve/Admin", epreuves.list)
	g.POST("/StoreEpreuve", epreuves.create)
	g.POST("/UpdateEpreuve/:id", epreuves.update)
	g.POST("/DeleteEpreuve/:id", epreuves.delete)
	g.GET("/ListDomaines", epreuves.listDomaines)

	questions := &resourceApi[question.Question, question.NewQuestion]{
		name: "question", table: db.Questions, envelope: dataEnvelope, validate: deps.Validate,
		parentOf:     func(q question.Question) string { return q.EpreuveID },
		parentExists: exists(db.Epreuves),
		destroy:      db.DeleteQuestion,
		build: func(id, epreuveID string, nq question.NewQuestion) question.Question {
			return question.Question{ID: id, EpreuveID: epreuveID, Intitule: nq.Intitule, Temps: nq.Temps, Points: nq.Points}
		},
	}
	g.GET("/ListQuestions/:parent", questions.list)
	g.POST("/StoreQuestion/:parent", questions.create)
	g.POST("/DeleteQuestions/:id", questions.delete)

	propositions := &resourceApi[question.Proposition, question.NewProposition]{
		name: "proposition", table: db.Propositions, envelope: dataEnvelope, validate: deps.Validate,
		parentOf:     func(p question.Proposition) string { return p.QuestionID },
		parentExists: exists(db.Questions),
		build: func(id, questionID string, np question.NewProposition) question.Proposition {
			return question.Proposition{ID: id, QuestionID: questionID, Libelle: np.Libelle, EstCorrecte: np.EstCorrecte}
		},
	}
	g.GET("/ListePropositions/:parent", propositions.list)
	g.POST("/StoreProposition/:parent", propositions.create)
	g.POST("/UpdtateProposition/:id", propositions.update)
	g.POST("/DeleteProposition/:id", propositions.delete)

	programmes := &resourceApi[programme.Programme, programme.NewProgramme]{
		name: "programme", table: db.Programmes, envelope: succesEnvelope, validate: deps.Validate,
		destroy: db.DeleteProgramme,
		build: func(id, _ string, np programme.NewProgramme) programme.Programme {
			return programme.Programme{
				ID:          id,
				Titre:       np.Titre,
				Description: np.Description,
				DateDebut:   np.DateDebut,
				DateFin:     np.DateFin,
			}
		},
	}
	g.GET("/ListProgrammeAdmin", programmes.list)
	g.POST("/StoreProgramme", programmes.create)
	g.POST("/UpdateProgramme/:id", programmes.update)
	g.POST("/DeleteProgramme/:id", programmes.delete)

	sousProgrammes := &resourceApi[programme.SousProgramme, programme.NewSousProgramme]{
		name: "sous-programme", table: db.SousProgrammes, envelope: succesEnvelope, validate: deps.Validate,
		parentOf:     func(sp programme.SousProgramme) string { return sp.ProgrammeID },
		parentExists: exists(db.Programmes),
		build: func(id, programmeID string, nsp programme.NewSousProgramme) programme.SousProgramme {
			return programme.SousProgramme{
				ID:          id,
				ProgrammeID: programmeID,
				Titre:       nsp.Titre,
				Description: nsp.Description,
				HeureDebut:  nsp.HeureDebut,
				HeureFin:    nsp.HeureFin,
				Lieu:        nsp.Lieu,
			}
		},
	}
	g.GET("/ListSousProgramme", sousProgrammes.list)
	g.POST("/StoreSousProgramme/:parent", sousProgrammes.create)
	g.POST("/UpdateSousProgramme/:id", sousProgrammes.update)
	g.POST("/DeleteSousProramme/:id", sousProgrammes.delete)

	tabs := &resourceApi[contenu.Tab, contenu.NewTab]{
		name: "tab", table: db.Tabs, envelope: dataEnvelope, validate: deps.Validate,
		parentOf:     func(t contenu.Tab) string { return t.EpreuveID },
		parentExists: exists(db.Epreuves),
		destroy:      db.DeleteTab,
		build: func(id, epreuveID string, nt contenu.NewTab) contenu.Tab {
			return contenu.Tab{ID: id, EpreuveID: epreuveID, Titre: nt.Titre, Ordre: nt.Ordre}
		},
	}
	g.GET("/ListTabs/:parent", tabs.list)
	g.POST("/StoreTab/:parent", tabs.create)
	g.POST("/MajTab/:id", tabs.update)
	g.POST("/DeleteTabs/:id", tabs.delete)

	blocs := &resourceApi[contenu.Bloc, contenu.NewBloc]{
		name: "bloc", table: db.Blocs, envelope: dataEnvelope, validate: deps.Validate,
		parentOf:     func(b contenu.Bloc) string { return b.TabID },
		parentExists: exists(db.Tabs),
		build: func(id, tabID string, nb contenu.NewBloc) contenu.Bloc {
			return contenu.Bloc{ID: id, TabID: tabID, Titre: nb.Titre, Contenu: nb.Contenu, TypeBloc: nb.TypeBloc}
		},
	}
	g.GET("/ListBlocs/:parent", blocs.list)
	g.POST("/StoreBlocs/:parent", blocs.create)
	g.POST("/MajBlocs/:id", blocs.update)
	g.POST("/DeleteBlocs/:id", blocs.delete)

	rankings := &classementApi{db: db}
	g.GET("/ClassementEpreuve/:parent", rankings.ranking)
	g.GET("/ListEtudiants", rankings.listEtudiants)
}

type classementApi struct {
	db *inmemdb.DB
}

// ranking answers the teams of an exam sorted by descending score, ties in insertion order.
func (api *classementApi) ranking(ctx echo.Context) error {
	epreuveID := ctx.Param("parent")
	if _, err := api.db.Epreuves.Get(epreuveID); err != nil {
		return err
	}
	recs := api.db.Equipes.Where(func(rec inmemdb.EquipeRecord) bool { return rec.EpreuveID == epreuveID })
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	equipes := make([]classement.Equipe, 0, len(recs))
	for _, rec := range recs {
		equipes = append(equipes, rec.Equipe)
	}
	return dataEnvelope.respond(ctx, http.StatusOK, equipes, "")
}

func (api *classementApi) listEtudiants(ctx echo.Context) error {
	return bareEnvelope.respond(ctx, http.StatusOK, api.db.Etudiants.All(), "")
}
