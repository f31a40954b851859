package classement_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/filter"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
	testutil "github.com/trezcool/hackadmin/tests"
)

func TestService(t *testing.T) {
	sb := testutil.StartSandbox(t)
	ctx := context.Background()
	svc := classement.NewService(sb.Client)

	require.NoError(t, sb.DB.Epreuves.Insert(epreuve.Epreuve{ID: "e1", Titre: "Algo"}))
	require.NoError(t, sb.DB.Epreuves.Insert(epreuve.Epreuve{ID: "e2", Titre: "Web"}))
	require.NoError(t, inmemdb.SeedRanking(sb.DB, "e1", 10, 5, 10, 7))

	t.Run("ranking is sorted server side", func(t *testing.T) {
		equipes, err := svc.Ranking(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, equipes, 3)
		assert.Equal(t, "Binary Hawks", equipes[0].Nom)
		assert.Equal(t, "Null Pointers", equipes[1].Nom)
		assert.Equal(t, "Les Pionniers", equipes[2].Nom)
		assert.Len(t, equipes[0].Membres, 2)

		assert.Equal(t, []classement.Equipe{equipes[1]}, filter.ByBucket(equipes, filter.Bon))
		assert.Equal(t, 1, filter.Rank(equipes)[0].Rank)
	})

	t.Run("no teams yet", func(t *testing.T) {
		equipes, err := svc.Ranking(ctx, "e2")
		require.NoError(t, err)
		assert.Equal(t, []classement.Equipe{}, equipes)
	})

	t.Run("unknown exam", func(t *testing.T) {
		_, err := svc.Ranking(ctx, "nope")
		assert.True(t, core.IsNotFound(err))
	})

	t.Run("missing exam", func(t *testing.T) {
		_, err := svc.Ranking(ctx, "")
		assert.True(t, errors.Is(err, core.ErrMissingParent))
	})

	t.Run("etudiants", func(t *testing.T) {
		etudiants, err := svc.ListEtudiants(ctx)
		require.NoError(t, err)
		assert.Len(t, etudiants, 5)

		got := filter.Search(etudiants, "GRACE", classement.EtudiantSearchFields)
		require.Len(t, got, 1)
		assert.Equal(t, "Grace Tshala", got[0].FullName())
	})
}
