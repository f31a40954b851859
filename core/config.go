package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration
		Headers map[string]string
	}

	SessionConfig struct {
		Path string
	}

	SandboxConfig struct {
		Addr               string
		DebugAddr          string
		ShutdownTimeout    time.Duration
		SecretKey          string
		JWTExpirationDelta time.Duration
		AdminEmail         string
		AdminPassword      string
		RequireAuth        bool
		ExposeDomainCodes  bool
	}

	EpreuveConfig struct {
		MaxImageSize int64 // bytes
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string

		API     APIConfig
		Session SessionConfig
		Sandbox SandboxConfig
		Epreuve EpreuveConfig
	}
)

// NewConfig loads the configuration from defaults, an optional `config/.env.<env>` file
// and the environment (prefixed with the upper-cased env name, eg. DEV_API_BASEURL).
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Hackadmin")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("api.baseURL", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.headers", map[string]string{"Accept": "application/json"})
	v.SetDefault("session.path", defaultSessionPath())
	v.SetDefault("sandbox.addr", ":8000")
	v.SetDefault("sandbox.debugAddr", "127.0.0.1:4000")
	v.SetDefault("sandbox.shutdownTimeout", 5*time.Second)
	v.SetDefault("sandbox.secretKey", "x9d$hk+3!l0pq=mz&w2b(r7#ty5e@c8n")
	v.SetDefault("sandbox.jwtExpirationDelta", 24*time.Hour)
	v.SetDefault("sandbox.adminEmail", "admin@hackathon.local")
	v.SetDefault("sandbox.adminPassword", "Admin#2024pw")
	v.SetDefault("sandbox.requireAuth", false)
	v.SetDefault("sandbox.exposeDomainCodes", true)
	v.SetDefault("epreuve.maxImageSize", int64(5<<20))

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.baseURL"), "/"),
			Timeout: v.GetDuration("api.timeout"),
			Headers: v.GetStringMapString("api.headers"),
		},
		Session: SessionConfig{
			Path: v.GetString("session.path"),
		},
		Sandbox: SandboxConfig{
			Addr:               v.GetString("sandbox.addr"),
			DebugAddr:          v.GetString("sandbox.debugAddr"),
			ShutdownTimeout:    v.GetDuration("sandbox.shutdownTimeout"),
			SecretKey:          v.GetString("sandbox.secretKey"),
			JWTExpirationDelta: v.GetDuration("sandbox.jwtExpirationDelta"),
			AdminEmail:         v.GetString("sandbox.adminEmail"),
			AdminPassword:      v.GetString("sandbox.adminPassword"),
			RequireAuth:        v.GetBool("sandbox.requireAuth"),
			ExposeDomainCodes:  v.GetBool("sandbox.exposeDomainCodes"),
		},
		Epreuve: EpreuveConfig{
			MaxImageSize: v.GetInt64("epreuve.maxImageSize"),
		},
	}, nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "hackadmin", "session.yaml")
}
