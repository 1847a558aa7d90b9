package grammar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want Language
	}{
		{"main.go", Go},
		{"src/App.TSX", TSX},
		{"lib/util.ts", TypeScript},
		{"script.py", Python},
		{"defs.bzl", Python},
		{"pkg/BUILD.bazel", Python},
		{"BUILD", Python},
		{"WORKSPACE", Python},
		{"deploy/Dockerfile", Dockerfile},
		{"Containerfile", Dockerfile},
		{"Gemfile", Ruby},
		{"config.yml", YAML},
		{"Cargo.toml", TOML},
		{"api.proto", Protobuf},
		{"main.tf", HCL},
		{"kernel.h", C},
		{"vector.hpp", Cpp},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, err := Detect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetect_Unknown(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"notes.xyz", "Makefile", "README", "data.json", "justfile"} {
		_, err := Detect(path)
		require.Error(t, err, path)
		assert.True(t, errors.Is(err, ErrLanguageNotDetected), path)
		assert.Contains(t, err.Error(), path)
	}
}

func TestRules_CoverEveryLanguage(t *testing.T) {
	t.Parallel()

	seen := map[Language]bool{}
	for _, r := range Rules() {
		seen[r.Language] = true
	}
	for _, lang := range AllLanguages() {
		assert.True(t, seen[lang], "no detection rule for %s", lang)
	}

	rules := Rules()
	for i := 1; i < len(rules); i++ {
		assert.LessOrEqual(t, string(rules[i-1].Language), string(rules[i].Language))
	}
}

func TestParseBackendType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    BackendType
		wantErr bool
	}{
		{"", BackendAuto, false},
		{"auto", BackendAuto, false},
		{" CGO ", BackendCGO, false},
		{"wazero", BackendWazero, false},
		{"wasm", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackendType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestBackendFromEnv(t *testing.T) {
	t.Setenv(EnvVarBackend, "")
	typ, err := BackendFromEnv(BackendCGO)
	require.NoError(t, err)
	assert.Equal(t, BackendCGO, typ)

	t.Setenv(EnvVarBackend, "wazero")
	typ, err = BackendFromEnv(BackendAuto)
	require.NoError(t, err)
	assert.Equal(t, BackendWazero, typ)

	t.Setenv(EnvVarBackend, "bogus")
	_, err = BackendFromEnv(BackendAuto)
	assert.ErrorContains(t, err, EnvVarBackend)
}
