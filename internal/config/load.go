package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load reads the YAML file at path and returns the validated configuration.
// Missing sections keep their defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	ifaces, err := decodeInterfaces(v.GetStringMap("interfaces"))
	if err != nil {
		return Config{}, err
	}
	cfg.Interfaces = ifaces

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeInterfaces routes each interface block to its concrete type based
// on the "type" discriminator.
func decodeInterfaces(raw map[string]any) (map[string]Interface, error) {
	out := make(map[string]Interface, len(raw))
	for name, entry := range raw {
		block, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("interface %q: expected a mapping", name)
		}
		t, _ := block["type"].(string)
		switch t {
		case "direwolf":
			iface := defaultDirewolf()
			if err := decodeBlock(block, &iface); err != nil {
				return nil, fmt.Errorf("interface %q: %w", name, err)
			}
			out[name] = iface
		case "freedvtnc2":
			iface := defaultFreeDV()
			if err := decodeBlock(block, &iface); err != nil {
				return nil, fmt.Errorf("interface %q: %w", name, err)
			}
			out[name] = iface
		default:
			return nil, fmt.Errorf("interface %q has unknown type %q, must be direwolf or freedvtnc2", name, t)
		}
	}
	return out, nil
}

func decodeBlock(in map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
