package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAddressYaml(t *testing.T) {
	var a Address

	require.NoError(t, yaml.Unmarshal([]byte(`"1001"`), &a))
	assert.Equal(t, Address(0x1001), a)
	assert.Equal(t, "1001", a.String())

	assert.Error(t, yaml.Unmarshal([]byte(`"xyz"`), &a))
	assert.Error(t, yaml.Unmarshal([]byte(`"10001"`), &a))
}

func TestAddressStringPadding(t *testing.T) {
	assert.Equal(t, "0001", Address(1).String())
	assert.Equal(t, "ffff", Address(0xFFFF).String())
}

func TestNetIDYaml(t *testing.T) {
	var n NetID

	require.NoError(t, yaml.Unmarshal([]byte(`"0034"`), &n))
	assert.Equal(t, NetID(0x0034), n)
	assert.Equal(t, "0034", n.String())

	assert.Error(t, yaml.Unmarshal([]byte(`"not hex"`), &n))
}

func TestDurationYaml(t *testing.T) {
	var d Duration

	require.NoError(t, yaml.Unmarshal([]byte("90s"), &d))
	assert.Equal(t, 90*time.Second, d.AsDuration())
	assert.Equal(t, "1m30s", d.String())

	assert.Error(t, yaml.Unmarshal([]byte("ninety"), &d))
}
