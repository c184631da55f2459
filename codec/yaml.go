package codec

import "gopkg.in/yaml.v3"

type yamlCodec struct{}

// YAML returns a YAML codec backed by gopkg.in/yaml.v3.
func YAML() Codec { return yamlCodec{} }

func (yamlCodec) Name() string        { return "yaml" }
func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
