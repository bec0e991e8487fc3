package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/utils"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func testConfig(t *testing.T, src string) *Config {
	t.Helper()
	cfg := defaultConfig(t)
	cfg.Directories = []string{src}
	cfg.Output = filepath.Join(t.TempDir(), "out", "metadata.json")
	return cfg
}

func TestGenerator_Run(t *testing.T) {
	src := writeTree(t, map[string]string{
		"engine/Transform.h": "struct Transform : IComponent { float3 position; float3 scale; bool enabled; };\n",
	})
	cfg := testConfig(t, src)

	g := NewGenerator(cfg, nil)
	require.NoError(t, g.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)

	expected := `{
    "Components": [
        {
            "key": "::Transform",
            "value": [
                {
                    "Name": "position",
                    "Type": "float3",
                    "FieldTypeEnum": 4
                },
                {
                    "Name": "scale",
                    "Type": "float3",
                    "FieldTypeEnum": 4
                },
                {
                    "Name": "enabled",
                    "Type": "bool",
                    "FieldTypeEnum": 11
                }
            ]
        }
    ]
}
`
	assert.Equal(t, expected, string(data))

	summary := g.GetSummary()
	assert.Equal(t, 1, summary.FilesScanned)
	assert.Equal(t, 1, summary.ComponentsFound)
	assert.Equal(t, 3, summary.FieldsClassified)
	assert.Equal(t, cfg.Output, summary.OutputFile)
}

func TestGenerator_EmptyTree(t *testing.T) {
	src := writeTree(t, map[string]string{"README.md": "nothing here\n"})
	cfg := testConfig(t, src)

	var out, errOut bytes.Buffer
	diags := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticInfo, &out, &errOut)

	require.NoError(t, NewGenerator(cfg, diags).Run(context.Background()))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"Components\": []\n}\n", string(data))
	assert.Contains(t, errOut.String(), "No C++ sources found")
}

func TestGenerator_MalformedFileDoesNotAbort(t *testing.T) {
	src := writeTree(t, map[string]string{
		"A.h":                "namespace nv::ecs { struct Velocity : IComponent { float2 v; }; }\n",
		"Broken.h":           "struct Broken : IComponent { int x \n",
		"Shared/Common.h":    "struct Hidden : IComponent { int h; };\n",
		"packages/dep/D.cpp": "struct Dep : IComponent { int d; };\n",
		"Shared/Impl.cpp":    "class Impl : public IComponent { public: uint64_t id; private: int secret; };\n",
	})
	cfg := testConfig(t, src)

	var out, errOut bytes.Buffer
	diags := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticWarn, &out, &errOut)

	g := NewGenerator(cfg, diags)
	require.NoError(t, g.Run(context.Background()))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `"key": "nv::ecs::Velocity"`)
	assert.Contains(t, text, `"key": "::Impl"`)
	assert.Contains(t, text, `"FieldTypeEnum": 13`)
	assert.NotContains(t, text, "secret")
	assert.NotContains(t, text, "Broken")
	assert.NotContains(t, text, "Hidden")
	assert.NotContains(t, text, "Dep")

	summary := g.GetSummary()
	assert.Equal(t, 3, summary.FilesScanned)
	assert.Equal(t, 1, summary.FilesSkipped)
	assert.Contains(t, errOut.String(), "Broken.h")
}

func TestGenerator_LenientKeepsErrorTrees(t *testing.T) {
	src := writeTree(t, map[string]string{
		"Broken.h": "struct Broken : IComponent { int x \n",
	})
	cfg := testConfig(t, src)
	cfg.Lenient = true

	g := NewGenerator(cfg, nil)
	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, 0, g.GetSummary().FilesSkipped)
}

func TestGenerator_CopyTo(t *testing.T) {
	src := writeTree(t, map[string]string{
		"Tag.h": "struct Tag : IComponent {};\n",
	})
	cfg := testConfig(t, src)
	copyDir := filepath.Join(t.TempDir(), "runtime", "assets")
	cfg.CopyTo = []string{copyDir}

	g := NewGenerator(cfg, nil)
	require.NoError(t, g.Run(context.Background()))

	original, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(copyDir, "metadata.json"))
	require.NoError(t, err)

	assert.Equal(t, original, copied)
	assert.Equal(t, []string{filepath.Join(copyDir, "metadata.json")}, g.GetSummary().CopiedTo)
}

func TestGenerator_YAMLFormat(t *testing.T) {
	src := writeTree(t, map[string]string{
		"Tag.h": "struct Name : IComponent { std::string value; };\n",
	})
	cfg := testConfig(t, src)
	cfg.Format = "yaml"
	cfg.Output = filepath.Join(filepath.Dir(cfg.Output), "metadata.yaml")

	require.NoError(t, NewGenerator(cfg, nil).Run(context.Background()))

	data, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Type: std::string")
	assert.Contains(t, string(data), "FieldTypeEnum: 6")
}

func TestGenerator_WriteFailureIsFatal(t *testing.T) {
	src := writeTree(t, map[string]string{"Tag.h": "struct Tag : IComponent {};\n"})
	cfg := testConfig(t, src)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg.Output = filepath.Join(blocker, "metadata.json")

	err := NewGenerator(cfg, nil).Run(context.Background())
	require.Error(t, err)

	var genErr *errors.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "write", genErr.Stage)
}

func TestGenerator_ParallelOutputMatchesSequential(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		files["mod"+name+"/"+name+".h"] = "namespace game { struct " + name + " : IComponent { float x; Handle<Mesh> mesh; }; }\n" +
			"struct Common : IComponent { int " + name + "; };\n"
	}
	src := writeTree(t, files)

	sequential := testConfig(t, src)
	sequential.Workers = 1
	parallel := testConfig(t, src)
	parallel.Workers = 8

	require.NoError(t, NewGenerator(sequential, nil).Run(context.Background()))
	require.NoError(t, NewGenerator(parallel, nil).Run(context.Background()))

	a, err := os.ReadFile(sequential.Output)
	require.NoError(t, err)
	b, err := os.ReadFile(parallel.Output)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, string(a), `"Name": "A"`)
	assert.NotContains(t, string(a), `"Name": "B",`)
}

func TestGenerator_CancelledContext(t *testing.T) {
	src := writeTree(t, map[string]string{"Tag.h": "struct Tag : IComponent {};\n"})
	cfg := testConfig(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewGenerator(cfg, nil).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, cfg.Output)
}

func TestGenerator_RerunReusesParses(t *testing.T) {
	src := writeTree(t, map[string]string{
		"A.h": "struct A : IComponent { float a; };\n",
		"B.h": "struct B : IComponent { int b; };\n",
	})
	cfg := testConfig(t, src)

	var out bytes.Buffer
	diags := utils.NewDiagnosticSystemWithWriters(utils.DiagnosticVerbose, &out, &bytes.Buffer{})
	g := NewGenerator(cfg, diags)

	require.NoError(t, g.Run(context.Background()))
	first, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)

	require.NoError(t, g.Run(context.Background()))
	second, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, g.parser.Stats().Hits)
	assert.Contains(t, out.String(), "Parse cache: 2 hits, 2 misses")
}
