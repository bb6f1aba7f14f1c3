package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBundles(t *testing.T) {
	bundles, err := ParseBundles("12:3.99, 6:2.49")
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	require.Equal(t, 12, bundles[0].Size)
	require.Equal(t, "3.99", bundles[0].Price.StringFixed(2))
	require.Equal(t, "6 for 2.49", bundles[1].Name())

	bundles, err = ParseBundles("")
	require.NoError(t, err)
	require.Nil(t, bundles)

	for _, bad := range []string{"12", "x:1.00", "6:abc", "0:1.00", "6:-1"} {
		_, err := ParseBundles(bad)
		require.ErrorIs(t, err, ErrInvalidRule, bad)
	}
}

func TestBundlesBySizeDoesNotMutate(t *testing.T) {
	rules := DefaultRules()
	rules.BagelBundles = []Bundle{rules.BagelBundles[1], rules.BagelBundles[0]}
	sorted := rules.bundlesBySize()
	require.Equal(t, 12, sorted[0].Size)
	require.Equal(t, 6, rules.BagelBundles[0].Size)
}
