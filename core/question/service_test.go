package question_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/question"
	testutil "github.com/trezcool/hackadmin/tests"
)

func TestStores(t *testing.T) {
	sb := testutil.StartSandbox(t)
	ctx := context.Background()
	require.NoError(t, sb.DB.Epreuves.Insert(epreuve.Epreuve{ID: "e1", Titre: "Algo"}))
	require.NoError(t, sb.DB.Epreuves.Insert(epreuve.Epreuve{ID: "e2", Titre: "Web"}))
	require.NoError(t, sb.DB.Questions.Insert(question.Question{ID: "q-web", EpreuveID: "e2", Intitule: "HTML ?"}))

	questions := question.NewStore(question.NewService(sb.Client), nil)
	props := question.NewPropositionStore(question.NewPropositionService(sb.Client), nil)

	t.Run("missing parent", func(t *testing.T) {
		_, err := questions.List(ctx, "")
		assert.True(t, errors.Is(err, core.ErrMissingParent))
		_, err = props.Create(ctx, "", question.NewProposition{Libelle: "x"})
		assert.True(t, errors.Is(err, core.ErrMissingParent))
	})

	t.Run("questions cannot be edited", func(t *testing.T) {
		assert.False(t, questions.CanUpdate())
		assert.True(t, props.CanUpdate())
	})

	var q question.Question
	t.Run("create and list by exam", func(t *testing.T) {
		var err error
		q, err = questions.Create(ctx, "e1", question.NewQuestion{Intitule: "Complexité du tri fusion ?", Temps: 60, Points: 3})
		require.NoError(t, err)
		assert.Equal(t, "e1", q.EpreuveID)

		items, err := questions.List(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, []question.Question{q}, items)
	})

	t.Run("propositions", func(t *testing.T) {
		wrong, err := props.Create(ctx, q.ID, question.NewProposition{Libelle: "O(n²)"})
		require.NoError(t, err)
		_, err = props.Create(ctx, q.ID, question.NewProposition{Libelle: "O(n log n)", EstCorrecte: true})
		require.NoError(t, err)
		assert.True(t, question.HasCorrectAnswer(props.Items()))

		edit := question.FromProposition(wrong)
		edit.Libelle = "O(n^2)"
		got, err := props.Update(ctx, wrong.ID, edit)
		require.NoError(t, err)
		assert.Equal(t, q.ID, got.QuestionID)

		items, err := props.List(ctx, q.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "O(n^2)", items[0].Libelle)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, questions.Delete(ctx, q.ID))
		assert.Zero(t, questions.Len())
		assert.Zero(t, sb.DB.Propositions.Len())
	})
}

func TestHasCorrectAnswer(t *testing.T) {
	assert.False(t, question.HasCorrectAnswer(nil))
	assert.False(t, question.HasCorrectAnswer([]question.Proposition{{Libelle: "a"}}))
	assert.True(t, question.HasCorrectAnswer([]question.Proposition{{Libelle: "a"}, {Libelle: "b", EstCorrecte: true}}))
}
