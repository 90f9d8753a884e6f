package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/quickwritereader/flatpack/access"
	"github.com/quickwritereader/flatpack/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	path := writeFile(t, "fbinspect.toml", `
initial_size = 64
dedup = false
identifier = " NSAB "
size_prefixed = true
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.InitialSize)
	assert.False(t, cfg.Dedup)
	assert.False(t, cfg.ForceDefaults)
	assert.Equal(t, "NSAB", cfg.Identifier)
	assert.True(t, cfg.SizePrefixed)
	assert.Empty(t, cfg.Schema)
	assert.Empty(t, cfg.Root)
}

func TestLoadConfigEmptyKeepsDefaults(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "empty.toml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"BadIdentifier", `identifier = "TOOLONG"`},
		{"NegativeSize", `initial_size = -1`},
		{"UnknownKey", `colour = "red"`},
		{"NotToml", `dedup = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "bad.toml", tt.content))
			require.Error(t, err)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestRunDemoThenInspect(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo.bin")

	require.NoError(t, run([]string{"-identifier", "NSAB", "-demo", out}, &bytes.Buffer{}))
	buf, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, access.BufferHasIdentifier(buf, "NSAB"))

	c, ok := namespace.GetRootAsSecondTableInA(buf, 0).ReferToC()
	require.True(t, ok)
	a1, ok := c.ReferToA1()
	require.True(t, ok)
	assert.Equal(t, namespace.EnumInNestedNSB, a1.FooEnum())

	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-identifier", "NSAB", out}, &stdout))
	text := stdout.String()
	assert.Contains(t, text, `identifier: "NSAB"`)
	assert.Contains(t, text, "field 0: voffset 4")
	assert.Contains(t, text, `NamespaceA.SecondTableInA: {"refer_to_c":{"refer_to_a1":{"foo_table":{"foo":1234},"foo_enum":1,"foo_struct":{"a":1,"b":2}},"refer_to_a2":{}}}`)

	err = run([]string{"-identifier", "XXXX", out}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunSizePrefixedFromConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "demo.bin")
	cfgPath := writeFile(t, "fbinspect.toml", "size_prefixed = true\ndedup = false\n")

	require.NoError(t, run([]string{"-config", cfgPath, "-demo", out}, &bytes.Buffer{}))

	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-config", cfgPath, out}, &stdout))
	assert.Contains(t, stdout.String(), "size prefix: ")
	assert.Contains(t, stdout.String(), `"foo":1234`)

	// the flag wins over the file
	err := run([]string{"-config", cfgPath, "-identifier", "ABCD", out}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunUsage(t *testing.T) {
	err := run(nil, &bytes.Buffer{})
	require.ErrorIs(t, err, errUsage)

	err = run([]string{filepath.Join(t.TempDir(), "nothing.bin")}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunRejectsCorruptTable(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"RootPastEnd", []byte{0xFF, 0x00, 0x00, 0x00}},
		{"SOffsetPastEnd", []byte{0x04, 0x00, 0x00, 0x00, 0x01, 0x00}},
		{"VtableBeforeStart", []byte{
			0x04, 0x00, 0x00, 0x00,
			0x18, 0x04, 0x00, 0x00, // soffset 1048 → vtable at -1044
		}},
		{"VtableAfterEnd", []byte{
			0x04, 0x00, 0x00, 0x00,
			0x18, 0xFC, 0xFF, 0xFF, // soffset -1000 → vtable at 1004
		}},
		{"VtableTooLong", []byte{
			0x04, 0x00, 0x00, 0x00,
			0xFC, 0xFF, 0xFF, 0xFF, // soffset -4 → vtable at 8
			0xFF, 0x00, 0x04, 0x00, // vtable claims 255 bytes
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "corrupt.bin")
			require.NoError(t, os.WriteFile(path, tt.buf, 0o644))
			require.NotPanics(t, func() {
				err := run([]string{path}, &bytes.Buffer{})
				require.Error(t, err)
			})
		})
	}
}
