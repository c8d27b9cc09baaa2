package scrape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrategyForRenderedTypes(t *testing.T) {
	for _, typ := range []string{"workday", "icims", "avature", "greenhouse", "lever"} {
		s := StrategyFor(typ, true)
		require.Truef(t, s.Rendered, "type %q should render", typ)
		require.False(t, s.Degraded)
		require.NotEmpty(t, s.Rules.Title)
	}
}

func TestStrategyForStaticTypes(t *testing.T) {
	for _, typ := range []string{"generic", "custom", ""} {
		s := StrategyFor(typ, true)
		require.Falsef(t, s.Rendered, "type %q should not render", typ)
		require.False(t, s.Degraded)
	}
}

func TestStrategyForUnknownTypeFallsBackToGeneric(t *testing.T) {
	s := StrategyFor("some-new-ats", true)
	require.False(t, s.Rendered)
	require.Equal(t, ruleSets["generic"], s.Rules)
}

func TestStrategyForDegradesWithoutBrowser(t *testing.T) {
	s := StrategyFor("workday", false)
	require.False(t, s.Rendered)
	require.True(t, s.Degraded)
	// the ATS-specific rules are kept even when fetching statically
	require.Equal(t, ruleSets["workday"], s.Rules)
}

func TestStrategyForNormalizesTypeTag(t *testing.T) {
	s := StrategyFor("  Workday ", true)
	require.True(t, s.Rendered)
}
