package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/drone/envsubst"
	"github.com/spf13/viper"
)

// Config is the effective tool configuration, assembled from the
// config files (~/.dxfctl.yaml, ./.dxfctl.yaml) and environment
// variables (DXFCTL_SERVER, DXFCTL_FILE). References of the form
// ${NAME} in config files are substituted from the environment.
type Config struct {
	Server string `json:"server,omitempty"`
	File   string `json:"file,omitempty"`
}

func GetConfig() *Config {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("server", "http://localhost:8080")

	if dir, err := os.UserHomeDir(); err == nil {
		mergeConfigFile(v, filepath.Join(dir, ".dxfctl.yaml"))
	}
	mergeConfigFile(v, ".dxfctl.yaml")

	v.SetEnvPrefix("dxfctl")
	v.BindEnv("server")
	v.BindEnv("file")

	return &Config{
		Server: v.GetString("server"),
		File:   v.GetString("file"),
	}
}

func mergeConfigFile(v *viper.Viper, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	subst, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return
	}
	v.MergeConfig(strings.NewReader(subst))
}
