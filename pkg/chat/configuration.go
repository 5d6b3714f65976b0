package chat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gerontec/lorachat/pkg/device"
	"github.com/gerontec/lorachat/pkg/types"
)

type Configuration struct {
	Username  string        `yaml:"username"`
	NetworkID types.NetID   `yaml:"network_id"`
	Address   types.Address `yaml:"address"`

	HistorySize     int            `yaml:"history_size"`
	MinSendInterval types.Duration `yaml:"min_send_interval"`

	SerialPort string `yaml:"serial_port"`

	NatsUrl        string `yaml:"nats_url"`
	NatsPubSubject string `yaml:"nats_pub_subject"`
	NatsSubSubject string `yaml:"nats_sub_subject"`

	Channels []ChannelConfiguration `yaml:"channels"`
}

// ChannelConfiguration maps a channel name tag to the radio link
// parameters all participants of that channel use.
type ChannelConfiguration struct {
	Name   string         `yaml:"name"`
	Device device.Profile `yaml:"device"`
}

func LoadConfiguration(configFile string) (*Configuration, error) {
	f, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	config := &Configuration{}
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(config); err != nil {
		return nil, err
	}

	if len(config.Channels) == 0 {
		return nil, fmt.Errorf("configuration has no channels")
	}

	for i := range config.Channels {
		if err := config.Channels[i].Device.Validate(); err != nil {
			return nil, fmt.Errorf("channel '%s': %w", config.Channels[i].Name, err)
		}
	}

	return config, nil
}

// Channel returns the configuration for the named channel, or nil when
// the name is unknown. An empty name selects the first channel.
func (c *Configuration) Channel(name string) *ChannelConfiguration {
	if name == "" {
		return &c.Channels[0]
	}

	for i := range c.Channels {
		if c.Channels[i].Name == name {
			return &c.Channels[i]
		}
	}

	return nil
}
