package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Maps holds the lookup tables the form filler and dispatcher match
// free-text input against. They ship with embedded defaults and can be
// replaced wholesale with a YAML file so updates never touch code.
type Maps struct {
	// Tipo de cliente label -> portal select value.
	TipoCliente map[string]string `yaml:"tipo_cliente"`
	// Select value used when the label is unmapped or empty.
	TipoClienteDefault string `yaml:"tipo_cliente_default"`
	// Agente asignado (normalized name) -> portal agent code.
	Agentes map[string]string `yaml:"agentes"`
	// Raw values tried in order when the medio-de-contacto control is a select.
	MedioContactoValores []string `yaml:"medio_contacto_valores"`
	// First names used to pick the greeting honorific.
	NombresFemeninos  []string `yaml:"nombres_femeninos"`
	NombresMasculinos []string `yaml:"nombres_masculinos"`
}

//go:embed maps_default.yaml
var defaultMaps []byte

// LoadMaps parses the embedded defaults and, when path is non-empty,
// overlays the file at path on top of them.
func LoadMaps(path string) (Maps, error) {
	var m Maps
	if err := yaml.Unmarshal(defaultMaps, &m); err != nil {
		return Maps{}, fmt.Errorf("embedded match maps: %w", err)
	}
	if path == "" {
		return m, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Maps{}, fmt.Errorf("read match maps %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return Maps{}, fmt.Errorf("parse match maps %s: %w", path, err)
	}
	return m, nil
}
