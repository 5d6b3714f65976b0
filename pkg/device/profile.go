// Package device holds the closed set of radio hardware profiles the chat
// runs over. A profile carries the typed link parameters a transport and
// its operator need to agree on; vendor register encodings and AT command
// sets stay in the external configuration tooling.
package device

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Family selects one of the supported hardware families.
type Family string

const (
	FamilyE22    Family = "e22"     // Ebyte E22 UART module, transparent mode
	FamilyE90DTU Family = "e90-dtu" // Ebyte E90-DTU radio modem
	FamilySX1262 Family = "sx1262"  // SX1262 HAT behind a USB/serial adapter
)

func (f *Family) UnmarshalYAML(node *yaml.Node) error {
	switch Family(node.Value) {
	case FamilyE22, FamilyE90DTU, FamilySX1262:
		*f = Family(node.Value)
	default:
		return fmt.Errorf("unknown device family '%s'", node.Value)
	}

	return nil
}

// DefaultBaudRate is the serial rate the family ships with.
func (f Family) DefaultBaudRate() int {
	switch f {
	case FamilySX1262:
		return 115200
	default:
		return 9600
	}
}

//------------------------------------------------------------------------------

type SpreadingFactor uint8

func (s SpreadingFactor) MarshalYAML() (any, error) {
	return uint8(s), nil
}

func (s *SpreadingFactor) UnmarshalYAML(node *yaml.Node) error {
	sf, err := strconv.ParseUint(node.Value, 10, 8)
	if err != nil {
		return err
	}

	if sf < 5 || sf > 12 {
		return fmt.Errorf("unsupported spreading factor %d", sf)
	}

	*s = SpreadingFactor(sf)

	return nil
}

//------------------------------------------------------------------------------

// Bandwidth in kHz.
type Bandwidth uint32

func (b Bandwidth) MarshalYAML() (any, error) {
	return uint32(b), nil
}

func (b *Bandwidth) UnmarshalYAML(node *yaml.Node) error {
	bw, err := strconv.ParseUint(node.Value, 10, 32)
	if err != nil {
		return err
	}

	switch bw {
	case 7, 10, 15, 20, 31, 41, 62, 125, 250, 500:
		*b = Bandwidth(bw)
	default:
		return fmt.Errorf("unsupported bandwidth %d kHz", bw)
	}

	return nil
}

//------------------------------------------------------------------------------

type CodingRate uint8

const (
	CodingRate4_5 CodingRate = 5
	CodingRate4_6 CodingRate = 6
	CodingRate4_7 CodingRate = 7
	CodingRate4_8 CodingRate = 8
)

func (c CodingRate) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *CodingRate) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case "4/5":
		*c = CodingRate4_5
	case "4/6":
		*c = CodingRate4_6
	case "4/7":
		*c = CodingRate4_7
	case "4/8":
		*c = CodingRate4_8
	default:
		return fmt.Errorf("unknown coding rate '%s'", node.Value)
	}

	return nil
}

func (c CodingRate) String() string {
	return fmt.Sprintf("4/%d", uint8(c))
}

//------------------------------------------------------------------------------

// Power in dBm.
type Power int32

func (p Power) MarshalYAML() (any, error) {
	return int32(p), nil
}

func (p *Power) UnmarshalYAML(node *yaml.Node) error {
	pw, err := strconv.ParseInt(node.Value, 10, 32)
	if err != nil {
		return err
	}

	switch pw {
	case 10, 13, 14, 17, 20, 22:
		*p = Power(pw)
	default:
		return fmt.Errorf("unsupported transmit power %d dBm", pw)
	}

	return nil
}

//------------------------------------------------------------------------------

// SyncWord is written in configuration files as hex ("0x12").
type SyncWord byte

func (s SyncWord) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%02X", byte(s)), nil
}

func (s *SyncWord) UnmarshalYAML(node *yaml.Node) error {
	sw, err := strconv.ParseUint(node.Value, 0, 8)
	if err != nil {
		return fmt.Errorf("invalid sync word '%s'", node.Value)
	}

	*s = SyncWord(sw)

	return nil
}

//------------------------------------------------------------------------------

// Profile is the transport configuration one channel tag maps to.
type Profile struct {
	Family          Family          `yaml:"family"`
	FrequencyHz     uint32          `yaml:"frequency"`
	SpreadingFactor SpreadingFactor `yaml:"spreading_factor"`
	Bandwidth       Bandwidth       `yaml:"bandwidth"`
	CodingRate      CodingRate      `yaml:"coding_rate"`
	SyncWord        SyncWord        `yaml:"sync_word"`
	Power           Power           `yaml:"power"`
	BaudRate        int             `yaml:"baud_rate"`
}

// Validate checks cross-field constraints after YAML decoding and fills
// in the family's serial defaults.
func (p *Profile) Validate() error {
	if p.Family == "" {
		return fmt.Errorf("device family is not set")
	}

	if p.FrequencyHz < 410_000_000 || p.FrequencyHz > 930_000_000 {
		return fmt.Errorf("frequency %d Hz outside the supported 410-930 MHz range", p.FrequencyHz)
	}

	if p.BaudRate == 0 {
		p.BaudRate = p.Family.DefaultBaudRate()
	}

	return nil
}
