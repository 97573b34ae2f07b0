package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	require.NoError(t, Load(filepath.Join(t.TempDir(), "nope.yaml")))

	assert.Equal(t, "BlockJack", C.Server.Name)
	assert.Equal(t, 13122, C.Server.OfferPort)
	assert.Equal(t, time.Second, C.Server.OfferInterval)
	assert.Equal(t, "memory", C.Storage.Driver)
	assert.Equal(t, ":8080", C.HTTP.Addr)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, `
server:
  name: "Dealer Joe"
  offerInterval: 250ms
client:
  rounds: 7
storage:
  driver: redis
`)
	require.NoError(t, Load(p))
	assert.Equal(t, "Dealer Joe", C.Server.Name)
	assert.Equal(t, 250*time.Millisecond, C.Server.OfferInterval)
	assert.Equal(t, 7, C.Client.Rounds)
	assert.Equal(t, "redis", C.Storage.Driver)
	// 未写的保持默认
	assert.Equal(t, 13122, C.Client.OfferPort)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BJ_SERVER_NAME", "FromEnv")
	t.Setenv("BJ_CLIENT_TEAM", "envteam")
	p := writeFile(t, "server:\n  name: FromFile\n")

	require.NoError(t, Load(p))
	assert.Equal(t, "FromEnv", C.Server.Name)
	assert.Equal(t, "envteam", C.Client.Team)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":     "server: [",
		"rounds > 255": "client:\n  rounds: 300\n",
		"bad port":     "server:\n  offerPort: 70000\n",
		"bad driver":   "storage:\n  driver: mongo\n",
		"zero period":  "server:\n  offerInterval: 0s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Load(writeFile(t, body)))
		})
	}
}
