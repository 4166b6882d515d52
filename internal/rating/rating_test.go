package rating_test

import (
	"testing"

	"github.com/kalstad/office-pong/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandard_EvenMatch(t *testing.T) {
	// Two players at 1200: expected score is 0.5, so round(32*0.5) = 16.
	assert.Equal(t, 16, rating.Standard(1200, 1200))
}

func TestStandard_NeverNegative(t *testing.T) {
	for _, pair := range [][2]int{
		{1200, 1200}, {1600, 800}, {800, 1600}, {2400, 100}, {100, 2400},
	} {
		delta := rating.Standard(pair[0], pair[1])
		assert.GreaterOrEqual(t, delta, 0, "Standard(%d, %d)", pair[0], pair[1])
	}
}

func TestStandard_FavoriteWinTransfersLittle(t *testing.T) {
	// A massive favorite beating a massive underdog transfers close to nothing,
	// while the reverse upset transfers close to the full K.
	favoriteWin := rating.Standard(1600, 800)
	upsetWin := rating.Standard(800, 1600)
	assert.Less(t, favoriteWin, 4)
	assert.Greater(t, upsetWin, 28)
}

func TestStandard_MonotonicInGap(t *testing.T) {
	// The transfer shrinks as the winner's lead over the loser grows.
	prev := 33
	for lead := -400; lead <= 400; lead += 50 {
		delta := rating.Standard(1200+lead, 1200)
		assert.LessOrEqual(t, delta, prev, "lead=%d", lead)
		prev = delta
	}
}

func TestSmallUpset_MatchesStandardForFavorites(t *testing.T) {
	for _, pair := range [][2]int{
		{1200, 1200}, {1250, 1150}, {1300, 1100}, {1600, 800}, {1201, 1200},
	} {
		w, l := pair[0], pair[1]
		require.GreaterOrEqual(t, w, l)
		assert.Equal(t, rating.Standard(w, l), rating.SmallUpset(w, l), "SmallUpset(%d, %d)", w, l)
		assert.Equal(t, rating.Standard(w, l), rating.Upset(w, l), "Upset(%d, %d)", w, l)
	}
}

func TestUpsetVariants_GrowWithGap(t *testing.T) {
	prevSmall, prevBig := 0, 0
	for diff := 50; diff <= 400; diff += 50 {
		small := rating.SmallUpset(1200, 1200+diff)
		big := rating.Upset(1200, 1200+diff)
		assert.GreaterOrEqual(t, small, prevSmall, "SmallUpset should not shrink as the gap grows")
		assert.GreaterOrEqual(t, big, prevBig, "Upset should not shrink as the gap grows")
		// The squared term dominates the ^1.91 term for any real gap.
		assert.GreaterOrEqual(t, big, small, "diff=%d", diff)
		prevSmall, prevBig = small, big
	}
}

func TestNames_StableAndComplete(t *testing.T) {
	names := rating.Names()
	assert.Equal(t, names, rating.Names(), "Names must be deterministic")
	assert.ElementsMatch(t, []string{rating.StandardName, rating.SmallUpsetName, rating.UpsetName}, names)
}

func TestEvaluate(t *testing.T) {
	delta, err := rating.Evaluate(rating.StandardName, 1200, 1200)
	require.NoError(t, err)
	assert.Equal(t, 16, delta)

	_, err = rating.Evaluate("Bogus elo", 1200, 1200)
	assert.ErrorIs(t, err, rating.ErrUnknownFunction)
}

func TestSample_CoversEveryFunction(t *testing.T) {
	table := rating.Sample()
	require.Len(t, table, len(rating.Names()))
	for name, points := range table {
		require.Len(t, points, 9, "function %s", name)
		for _, p := range points {
			assert.GreaterOrEqual(t, p.UpsetDelta, p.ExpectedDelta,
				"%s: an upset should never transfer less than the expected result", name)
		}
	}
}
