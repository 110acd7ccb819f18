package snapshot

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Codec 负责快照正文的编码与解码。
type Codec interface {
	Format() string
	Ext() string
	Encode(w io.Writer, v any) error
	Decode(r io.Reader, v any) error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CodecFor 返回格式对应的编解码器，支持 json 与 yaml。
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return jsonCodec{}, nil
	case "yaml", "yml":
		return yamlCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format: %s", format)
	}
}

type jsonCodec struct{}

func (jsonCodec) Format() string { return "json" }
func (jsonCodec) Ext() string    { return ".json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

type yamlCodec struct{}

func (yamlCodec) Format() string { return "yaml" }
func (yamlCodec) Ext() string    { return ".yaml" }

func (yamlCodec) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader, v any) error {
	return yaml.NewDecoder(r).Decode(v)
}
