package codec

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://manamerge.local/schemas/"

// Schema 是记录类型名，对应 schemas/<name>.json。
type Schema string

const (
	SchemaBoard      Schema = "board"
	SchemaRegions    Schema = "regions"
	SchemaMana       Schema = "mana"
	SchemaUpgrades   Schema = "upgrades"
	SchemaInventory  Schema = "inventory"
	SchemaOffline    Schema = "offline"
	SchemaBuffs      Schema = "buffs"
	SchemaStats      Schema = "stats"
	SchemaSavedAt    Schema = "saved_at"
	SchemaLegacyGrid Schema = "legacy_grid"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Codec 负责记录的 JSON 编码、可选 zstd 压缩以及读档前的 schema 校验。
// EncodeAll/DecodeAll 可并发调用。
type Codec struct {
	schemas map[Schema]*jsonschema.Schema
	enc     *zstd.Encoder
	dec     *zstd.Decoder
}

var (
	defaultOnce  sync.Once
	defaultCodec *Codec
	defaultErr   error
)

// Default 返回进程内共享的 Codec。
func Default() (*Codec, error) {
	defaultOnce.Do(func() {
		defaultCodec, defaultErr = New()
	})
	return defaultCodec, defaultErr
}

func New() (*Codec, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil, err
	}
	var names []Schema
	for _, e := range entries {
		raw, err := schemaFS.ReadFile(path.Join("schemas", e.Name()))
		if err != nil {
			return nil, err
		}
		if err := compiler.AddResource(schemaBaseURL+e.Name(), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", e.Name(), err)
		}
		names = append(names, Schema(strings.TrimSuffix(e.Name(), ".json")))
	}

	c := &Codec{schemas: make(map[Schema]*jsonschema.Schema, len(names))}
	for _, name := range names {
		s, err := compiler.Compile(schemaBaseURL + string(name) + ".json")
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		c.schemas[name] = s
	}

	if c.enc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault)); err != nil {
		return nil, err
	}
	if c.dec, err = zstd.NewReader(nil); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode 编码为 JSON；compress 为 true 时再做 zstd 压缩（棋盘记录使用）。
func (c *Codec) Encode(v any, compress bool) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if !compress {
		return raw, nil
	}
	return c.enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode 自动识别 zstd 帧，校验 schema 后解码到 out。
func (c *Codec) Decode(name Schema, raw []byte, out any) error {
	plain, err := c.Plain(raw)
	if err != nil {
		return err
	}
	if err := c.Validate(name, plain); err != nil {
		return err
	}
	if err := json.Unmarshal(plain, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Plain 返回解压后的 JSON 字节。
func (c *Codec) Plain(raw []byte) ([]byte, error) {
	if !bytes.HasPrefix(raw, zstdMagic) {
		return raw, nil
	}
	plain, err := c.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return plain, nil
}

func (c *Codec) Validate(name Schema, plain []byte) error {
	s, ok := c.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	var doc any
	if err := json.Unmarshal(plain, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("validate %s: %w", name, err)
	}
	return nil
}
