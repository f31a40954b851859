package logsvc

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/auth"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", Build: "test"}
	logger := NewRollbarLogger(log.New(&buf, "", 0), conf)
	logger.Enable(true) // no token: stays disabled

	adm := auth.Admin{ID: "a1", Nom: "Awa", Email: "awa@hackathon.local"}

	t.Run("admin is not printed", func(t *testing.T) {
		buf.Reset()
		logger.Info("admin logged in", adm, map[string]interface{}{"k": "v"})
		assert.Equal(t, "admin logged in\nmap[k:v]\n", buf.String())

		args := logger.prepare("msg", []interface{}{adm, nil, "x"})
		assert.Equal(t, []interface{}{"msg", "x"}, args)

		buf.Reset()
		logger.Error("saving session failed", fmt.Errorf("disk full"), adm)
		assert.Equal(t, "saving session failed\ndisk full\n", buf.String())
		assert.NotContains(t, buf.String(), adm.Email)
	})

	t.Run("debug is muted outside debug mode", func(t *testing.T) {
		buf.Reset()
		logger.Debug("noise")
		assert.Empty(t, buf.String())

		dbg := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Debug: true})
		dbg.Debug("details")
		assert.Equal(t, "details\n", buf.String())
	})
}
