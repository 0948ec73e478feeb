package yaml_adapter

import (
	"gopkg.in/yaml.v3"
)

// document is the top-level structure of a YAML manifest. Field names follow
// the HCL block and attribute names.
type document struct {
	Classes  []classSpec   `yaml:"classes"`
	Unions   []unionSpec   `yaml:"unions"`
	Generics []genericSpec `yaml:"generics"`
	Methods  []methodSpec  `yaml:"methods"`
	Objects  []objectSpec  `yaml:"objects"`
	Calls    []callSpec    `yaml:"calls"`
}

type classSpec struct {
	Name        string              `yaml:"name"`
	Parent      string              `yaml:"parent,omitempty"`
	Description string              `yaml:"description,omitempty"`
	Validity    string              `yaml:"validity,omitempty"`
	Slots       map[string]slotSpec `yaml:"slots,omitempty"`
}

// slotSpec accepts either a bare type string or a mapping with type and
// description.
type slotSpec struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *slotSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Type = value.Value
		return nil
	}
	type plain slotSpec
	return value.Decode((*plain)(s))
}

type unionSpec struct {
	Name        string   `yaml:"name"`
	Members     []string `yaml:"members"`
	Description string   `yaml:"description,omitempty"`
}

type genericSpec struct {
	Name        string   `yaml:"name"`
	Parameters  []string `yaml:"parameters"`
	OpenTail    bool     `yaml:"open_tail,omitempty"`
	Description string   `yaml:"description,omitempty"`
}

type methodSpec struct {
	Generic    string   `yaml:"generic"`
	Key        string   `yaml:"key"`
	Handler    string   `yaml:"handler"`
	Parameters []string `yaml:"parameters,omitempty"`
}

type objectSpec struct {
	Name  string               `yaml:"name"`
	Class string               `yaml:"class"`
	Slots map[string]yaml.Node `yaml:"slots,omitempty"`
}

type callSpec struct {
	Generic  string      `yaml:"generic"`
	Label    string      `yaml:"label"`
	Receiver yaml.Node   `yaml:"receiver"`
	Args     []yaml.Node `yaml:"args,omitempty"`
}
