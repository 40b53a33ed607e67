package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/auth"
	"github.com/jasonsjt/ptz-controller/internal/client"
	"github.com/spf13/viper"
)

const (
	KeyHost           = "host"
	KeyUsername       = "username"
	KeyPassword       = "password"
	KeyAuth           = "auth"
	KeyTimeout        = "timeout"
	KeySymmetricClamp = "symmetric_clamp"

	KeyLogLevel      = "log.level"
	KeyLogFile       = "log.file"
	KeyLogMaxSize    = "log.max_size"
	KeyLogMaxBackups = "log.max_backups"
	KeyLogCompress   = "log.compress"
)

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	SetDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".ptzctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ptzctl")
	}

	// PTZCTL_HOST, PTZCTL_LOG_LEVEL, ...
	viper.SetEnvPrefix("ptzctl")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine, flags and env may carry everything.
	_ = viper.ReadInConfig()
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyUsername, "root")
	v.SetDefault(KeyAuth, string(auth.Digest))
	v.SetDefault(KeyTimeout, client.DefaultTimeout)
	v.SetDefault(KeySymmetricClamp, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogMaxSize, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
}

// DeviceConfig is the camera endpoint and behaviour settings.
type DeviceConfig struct {
	Host           string
	Username       string
	Password       string
	Auth           auth.Scheme
	Timeout        time.Duration
	SymmetricClamp bool
}

func (d DeviceConfig) ClientConfig() client.ClientConfig {
	return client.ClientConfig{
		Host: d.Host,
		Credentials: auth.Credentials{
			Username: d.Username,
			Password: d.Password,
			Scheme:   d.Auth,
		},
		Timeout: d.Timeout,
	}
}

func Device(v *viper.Viper) (DeviceConfig, error) {
	host := strings.TrimSpace(v.GetString(KeyHost))
	if host == "" {
		return DeviceConfig{}, fmt.Errorf("no camera host configured, run 'ptzctl login' or pass --host")
	}

	scheme, err := auth.ParseScheme(v.GetString(KeyAuth))
	if err != nil {
		return DeviceConfig{}, err
	}

	return DeviceConfig{
		Host:           host,
		Username:       v.GetString(KeyUsername),
		Password:       v.GetString(KeyPassword),
		Auth:           scheme,
		Timeout:        v.GetDuration(KeyTimeout),
		SymmetricClamp: v.GetBool(KeySymmetricClamp),
	}, nil
}

// SaveDevice updates the config file with the camera endpoint and credentials.
func SaveDevice(d DeviceConfig) error {
	viper.Set(KeyHost, d.Host)
	viper.Set(KeyUsername, d.Username)
	viper.Set(KeyPassword, d.Password)
	viper.Set(KeyAuth, string(d.Auth))

	if err := viper.WriteConfig(); err != nil {
		// If file doesn't exist, create it
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return viper.SafeWriteConfig()
		}
		// If it exists but failed to write, try writing to default path
		home, _ := os.UserHomeDir()
		path := filepath.Join(home, ".ptzctl.yaml")
		return viper.WriteConfigAs(path)
	}
	return nil
}
