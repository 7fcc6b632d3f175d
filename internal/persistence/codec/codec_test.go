package codec

import (
	"bytes"
	"strings"
	"testing"
)

type boardDoc struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Cells  []struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"cells"`
}

func TestCodec_压缩记录可解回(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("期望 codec 初始化成功, err=%v", err)
	}
	in := map[string]any{"width": 5, "height": 5, "cells": []map[string]any{{"x": 1, "y": 2}}}
	raw, err := c.Encode(in, true)
	if err != nil {
		t.Fatalf("期望编码成功, err=%v", err)
	}
	if !bytes.HasPrefix(raw, zstdMagic) {
		t.Fatalf("期望输出为 zstd 帧")
	}
	var out boardDoc
	if err := c.Decode(SchemaBoard, raw, &out); err != nil {
		t.Fatalf("期望解码成功, err=%v", err)
	}
	if out.Width != 5 || len(out.Cells) != 1 || out.Cells[0].Y != 2 {
		t.Fatalf("期望字段还原, got=%+v", out)
	}
}

func TestCodec_schema校验失败(t *testing.T) {
	c, _ := Default()
	var out map[string]any
	err := c.Decode(SchemaMana, []byte(`{"balance": -1}`), &out)
	if err == nil || !strings.Contains(err.Error(), "validate mana") {
		t.Fatalf("期望负余额校验失败, err=%v", err)
	}
	if err := c.Decode(SchemaMana, []byte(`{not json`), &out); err == nil {
		t.Fatalf("期望非法 JSON 报错")
	}
	if err := c.Decode(SchemaBoard, append([]byte{}, append(zstdMagic, 1, 2, 3)...), &out); err == nil {
		t.Fatalf("期望损坏的 zstd 帧报错")
	}
}

func TestCodec_旧版棋盘schema(t *testing.T) {
	c, _ := Default()
	legacy := `[[{"x":0,"y":0,"item":{"id":"a","tier":1,"type":"creature"}},{"x":1,"y":0,"item":null}]]`
	if err := c.Validate(SchemaLegacyGrid, []byte(legacy)); err != nil {
		t.Fatalf("期望旧版棋盘通过校验, err=%v", err)
	}
	if err := c.Validate(SchemaLegacyGrid, []byte(`[]`)); err == nil {
		t.Fatalf("期望空棋盘校验失败")
	}
}
