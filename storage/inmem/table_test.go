package inmemdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/contenu"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/programme"
	"github.com/trezcool/hackadmin/core/question"
)

func TestTable(t *testing.T) {
	tbl := NewTable[annonce.Annonce]()
	a1 := annonce.Annonce{ID: "1", Titre: "Ouverture"}
	a2 := annonce.Annonce{ID: "2", Titre: "Pause"}
	a3 := annonce.Annonce{ID: "3", Titre: "Clôture"}

	require.NoError(t, tbl.Insert(a1))
	require.NoError(t, tbl.Insert(a2))
	require.NoError(t, tbl.Insert(a3))
	assert.ErrorIs(t, tbl.Insert(a1), ErrDuplicate)
	assert.Equal(t, []annonce.Annonce{a1, a2, a3}, tbl.All())

	a2.Titre = "Déjeuner"
	require.NoError(t, tbl.Update(a2))
	got, err := tbl.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Déjeuner", got.Titre)
	assert.Equal(t, ErrNotFound, tbl.Update(annonce.Annonce{ID: "404"}))

	require.NoError(t, tbl.Delete("1"))
	assert.Equal(t, ErrNotFound, tbl.Delete("1"))
	_, err = tbl.Get("1")
	assert.Equal(t, ErrNotFound, err)
	assert.Equal(t, []annonce.Annonce{a2, a3}, tbl.All())

	ids := tbl.DeleteWhere(func(a annonce.Annonce) bool { return a.ID == "3" })
	assert.Equal(t, []string{"3"}, ids)
	assert.Equal(t, 1, tbl.Len())

	tbl.Truncate()
	assert.Empty(t, tbl.All())
}

func TestDB_cascades(t *testing.T) {
	db := NewDB()
	require.NoError(t, db.Epreuves.Insert(epreuve.Epreuve{ID: "e1"}))
	require.NoError(t, db.Questions.Insert(question.Question{ID: "q1", EpreuveID: "e1"}))
	require.NoError(t, db.Propositions.Insert(question.Proposition{ID: "p1", QuestionID: "q1"}))
	require.NoError(t, db.Tabs.Insert(contenu.Tab{ID: "t1", EpreuveID: "e1"}))
	require.NoError(t, db.Blocs.Insert(contenu.Bloc{ID: "b1", TabID: "t1"}))
	require.NoError(t, db.Programmes.Insert(programme.Programme{ID: "pg1"}))
	require.NoError(t, db.SousProgrammes.Insert(programme.SousProgramme{ID: "sp1", ProgrammeID: "pg1"}))

	require.NoError(t, db.DeleteEpreuve("e1"))
	assert.Zero(t, db.Questions.Len())
	assert.Zero(t, db.Propositions.Len())
	assert.Zero(t, db.Tabs.Len())
	assert.Zero(t, db.Blocs.Len())

	require.NoError(t, db.DeleteProgramme("pg1"))
	sp, err := db.SousProgrammes.Get("sp1")
	require.NoError(t, err)
	assert.Empty(t, sp.ProgrammeID, "sous-programmes are detached, not deleted")
}

func TestSeed(t *testing.T) {
	db := NewDB()
	require.NoError(t, Seed(db, SeedOptions{AdminEmail: "Admin@Hackathon.local", AdminPassword: "Admin#2024pw"}))

	adm, err := db.AdminByEmail("admin@hackathon.local")
	require.NoError(t, err)
	assert.NoError(t, adm.CheckPassword("Admin#2024pw"))
	assert.Error(t, adm.CheckPassword("nope"))

	doms := db.Domaines.All()
	require.Len(t, doms, len(seedDomaines))
	for i, d := range doms {
		assert.Equal(t, i+1, d.IntID)
		assert.Nil(t, d.Domaine.Code)
	}
	_, err = db.DomaineByCode(99)
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, SeedRanking(db, "e1", 10, 10, 7, 2))
	assert.Equal(t, 3, db.Equipes.Len())
	assert.Len(t, db.Equipes.All()[0].Membres, 2)
}
