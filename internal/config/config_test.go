package config

import (
	"testing"
	"time"

	"github.com/jasonsjt/ptz-controller/internal/auth"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDevice(t *testing.T) {
	t.Run("defaults fill everything but host and password", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set(KeyHost, "192.168.40.138")

		d, err := Device(v)
		require.NoError(t, err)
		assert.Equal(t, DeviceConfig{
			Host:     "192.168.40.138",
			Username: "root",
			Auth:     auth.Digest,
			Timeout:  5 * time.Second,
		}, d)
	})

	t.Run("missing host is an error", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)

		_, err := Device(v)
		assert.Error(t, err)
	})

	t.Run("unknown auth scheme is an error", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyHost, "cam")
		v.Set(KeyAuth, "kerberos")

		_, err := Device(v)
		assert.Error(t, err)
	})

	t.Run("client config carries credentials", func(t *testing.T) {
		d := DeviceConfig{Host: "cam", Username: "root", Password: "pw", Auth: auth.Basic, Timeout: time.Second}

		cc := d.ClientConfig()
		assert.Equal(t, "cam", cc.Host)
		assert.Equal(t, auth.Credentials{Username: "root", Password: "pw", Scheme: auth.Basic}, cc.Credentials)
		assert.Equal(t, time.Second, cc.Timeout)
	})
}
