package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goevery/ordercast/internal/client"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	configName      = "config"
	configType      = "toml"
	configDir       = ".ordercast"
	identityFile    = "identity.toml"
	envPrefix       = "ORDERCAST"
	serverKey       = "server"
	identityPathKey = "identity.path"
	verboseKey      = "verbose"
	defaultServer   = "http://localhost:8000"
)

type app struct {
	cfg        *viper.Viper
	logger     *zap.Logger
	httpClient *http.Client
}

func newConfig() *viper.Viper {
	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	cfg.SetDefault(serverKey, defaultServer)

	return cfg
}

func wireApp(cfg *viper.Viper) (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	cfg.SetDefault(identityPathKey, filepath.Join(homeDir, configDir, identityFile))

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if cfg.GetString(serverKey) == "" {
		return nil, errors.New("server url is empty")
	}

	logger, err := buildLogger(cfg.GetBool(verboseKey))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	zapConfig.DisableStacktrace = true
	zapConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return zapConfig.Build()
}

func (a *app) server() string {
	return a.cfg.GetString(serverKey)
}

func (a *app) identity() *client.IdentityFile {
	return client.NewIdentityFile(a.cfg.GetString(identityPathKey))
}

func (a *app) menus() *client.MenuClient {
	return client.NewMenuClient(a.server(), a.httpClient)
}

func (a *app) dialer() client.Dialer {
	return client.NewDialer(a.logger, a.server())
}
