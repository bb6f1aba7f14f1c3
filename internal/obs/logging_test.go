package obs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-bagel/internal/obs"
)

func TestRotatingFileReceivesLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	w := obs.RotatingFile(path, 0, 0)

	logger := obs.NewLoggerTo(w, "json")
	logger.Info().Str("order_id", "abc").Msg("order placed")
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"order_id":"abc"`)
	require.Contains(t, string(raw), `"message":"order placed"`)
}
