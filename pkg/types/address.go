package types

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Address is a 16-bit node address, written as hex in configuration files.
type Address uint16

func (a Address) MarshalYAML() (any, error) {
	return a.String(), nil
}

func (a *Address) UnmarshalYAML(node *yaml.Node) error {
	value, err := strconv.ParseUint(node.Value, 16, 16)
	if err != nil {
		return fmt.Errorf("invalid address '%s'", node.Value)
	}

	*a = Address(value)

	return nil
}

func (a Address) String() string {
	return fmt.Sprintf("%04x", uint16(a))
}

// NetID identifies a logical network. Multiple networks can share one
// physical radio channel; nodes ignore frames carrying a foreign NetID.
type NetID uint16

func (n NetID) MarshalYAML() (any, error) {
	return n.String(), nil
}

func (n *NetID) UnmarshalYAML(node *yaml.Node) error {
	value, err := strconv.ParseUint(node.Value, 16, 16)
	if err != nil {
		return fmt.Errorf("invalid network id '%s'", node.Value)
	}

	*n = NetID(value)

	return nil
}

func (n NetID) String() string {
	return fmt.Sprintf("%04x", uint16(n))
}
