package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/buildcheck/internal/config"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
	"github.com/specialistvlad/buildcheck/internal/dag"
	"github.com/specialistvlad/buildcheck/internal/hcl_adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const fixtureDir = "../../testdata/lifecareplus"

func testCtx() context.Context {
	return ctxlog.Discard(context.Background())
}

func loadFixture(t *testing.T) *config.Model {
	t.Helper()
	model, err := hcl_adapter.NewLoader().Load(testCtx(), fixtureDir)
	require.NoError(t, err)
	return model
}

func sv(s string) config.StringValue { return config.StringValue{Value: s} }

func svs(values ...string) []config.StringValue {
	out := make([]config.StringValue, 0, len(values))
	for _, v := range values {
		out = append(out, sv(v))
	}
	return out
}

// newModel returns a minimal model rooted at dir with the given modules.
func newModel(dir string, modules ...*config.Module) *config.Model {
	return &config.Model{
		RootDir:     dir,
		Buildscript: &config.Buildscript{Extra: cty.EmptyObjectVal},
		Coordinator: &config.Coordinator{},
		Modules:     modules,
		Boms:        map[string]*config.Bom{},
	}
}

func newModule(dir, name string, deps ...*config.Dependency) *config.Module {
	return &config.Module{
		Name:           name,
		Dir:            filepath.Join(dir, name),
		SigningConfigs: map[string]*config.SigningConfig{config.DebugSigning: {Name: config.DebugSigning, Implicit: true}},
		BuildTypes:     map[string]*config.BuildType{},
		SourceSets:     map[string]*config.SourceSet{},
		Dependencies:   deps,
	}
}

func dep(notation string) *config.Dependency {
	return &config.Dependency{Configuration: "implementation", Notation: sv(notation)}
}

func platform(notation string) *config.Dependency {
	return &config.Dependency{Configuration: "implementation", Notation: sv(notation), Platform: true}
}

func TestResolve_Fixture(t *testing.T) {
	g, err := Resolve(testCtx(), loadFixture(t), Options{})
	require.NoError(t, err)

	root, err := filepath.Abs(fixtureDir)
	require.NoError(t, err)
	expectedBuildDir := filepath.Join(filepath.Dir(root), "build")

	assert.Equal(t, root, g.RootDir)
	assert.Equal(t, expectedBuildDir, g.RootBuildDir)
	assert.Equal(t, map[string]string{"kotlin_version": "2.1.21"}, g.Extra)
	assert.Equal(t, []Repository{
		{Name: "google", URL: "https://dl.google.com/dl/android/maven2/"},
		{Name: "mavenCentral", URL: "https://repo.maven.apache.org/maven2/"},
	}, g.BuildscriptRepositories)
	assert.Equal(t, []Repository{
		{Name: "google", URL: "https://dl.google.com/dl/android/maven2/"},
		{Name: "mavenCentral", URL: "https://repo.maven.apache.org/maven2/"},
		{URL: "https://storage.googleapis.com/download.flutter.io"},
	}, g.Repositories)
	assert.Contains(t, g.BuildscriptClasspath, "org.jetbrains.kotlin:kotlin-gradle-plugin:2.1.21")
	assert.Equal(t, []string{":", ":app"}, g.EvaluationOrder)

	require.Len(t, g.Projects, 1)
	app := g.Projects[0]
	assert.Equal(t, ":app", app.Path)
	assert.Equal(t, filepath.Join(expectedBuildDir, "app"), app.BuildDir)
	assert.Equal(t, []string{":"}, app.EvaluatesAfter)
	assert.Equal(t, "debug", app.ReleaseSigning)
	assert.True(t, app.ReusesDebugSigning)
	assert.Equal(t, []string{filepath.Join(root, "app", "src", "main", "kotlin")}, app.SourceDirs["main"])

	expectedDeps := []*Dependency{
		{Configuration: "implementation", Coordinate: "com.google.firebase:firebase-bom:33.3.0", Platform: true, Version: "33.3.0"},
		{Configuration: "implementation", Coordinate: "com.google.firebase:firebase-analytics", ManagedBy: "com.google.firebase:firebase-bom:33.3.0"},
		{Configuration: "implementation", Coordinate: "com.google.firebase:firebase-storage", ManagedBy: "com.google.firebase:firebase-bom:33.3.0"},
		{Configuration: "implementation", Coordinate: "com.google.firebase:firebase-auth", ManagedBy: "com.google.firebase:firebase-bom:33.3.0"},
	}
	if diff := cmp.Diff(expectedDeps, app.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, g.Tasks, 1)
	assert.Equal(t, &Task{Name: "clean", Type: "Delete", Delete: []string{expectedBuildDir}}, g.Tasks[0])
}

func TestResolve_Idempotent(t *testing.T) {
	model := loadFixture(t)

	first, err := Resolve(testCtx(), model, Options{})
	require.NoError(t, err)
	second, err := Resolve(testCtx(), loadFixture(t), Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolution is not idempotent (-first +second):\n%s", diff)
	}
	fp1, err := first.Fingerprint()
	require.NoError(t, err)
	fp2, err := second.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64)
}

func TestResolve_BomVersionsAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	mod := newModule(dir, "app",
		platform("com.google.firebase:firebase-bom:33.3.0"),
		dep("com.google.firebase:firebase-auth"),
		dep("com.google.firebase:firebase-storage"),
		dep("com.squareup.okhttp3:okhttp:4.9.0"),
		dep("com.squareup.okhttp3:okhttp:4.12.0"),
		dep("com.squareup.okhttp3:okhttp:4.10.0"),
	)
	model := newModel(dir, mod)
	model.Boms["com.google.firebase:firebase-bom:33.3.0"] = &config.Bom{
		Coordinate: sv("com.google.firebase:firebase-bom:33.3.0"),
		Versions:   map[string]string{"com.google.firebase:firebase-auth": "23.0.0"},
	}

	g, err := Resolve(testCtx(), model, Options{})
	require.NoError(t, err)
	deps := g.Projects[0].Dependencies
	require.Len(t, deps, 4)

	assert.Equal(t, "com.google.firebase:firebase-auth:23.0.0", deps[1].Coordinate)
	assert.Equal(t, "23.0.0", deps[1].Version)
	assert.Equal(t, "com.google.firebase:firebase-bom:33.3.0", deps[1].ManagedBy)

	assert.Equal(t, "com.google.firebase:firebase-storage", deps[2].Coordinate)
	assert.Empty(t, deps[2].Version)
	assert.Equal(t, "com.google.firebase:firebase-bom:33.3.0", deps[2].ManagedBy)

	assert.Equal(t, "com.squareup.okhttp3:okhttp:4.12.0", deps[3].Coordinate, "highest duplicate version wins")
}

func TestResolve_VersionlessWithoutPlatform(t *testing.T) {
	dir := t.TempDir()
	g, err := Resolve(testCtx(), newModel(dir, newModule(dir, "app", dep("com.google.firebase:firebase-auth"))), Options{})
	require.NoError(t, err)
	d := g.Projects[0].Dependencies[0]
	assert.Empty(t, d.ManagedBy)
	assert.Empty(t, d.Version)
}

func TestResolve_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(m *config.Model)
		expectedErr string
	}{
		{
			name:        "unknown evaluation target",
			mutate:      func(m *config.Model) { m.Coordinator.EvaluationDependsOn = svs(":missing") },
			expectedErr: "unknown project \":missing\"",
		},
		{
			name:        "evaluation cycle",
			mutate:      func(m *config.Model) { m.Coordinator.EvaluationDependsOn = svs(":a", ":b") },
			expectedErr: "cycle detected",
		},
		{
			name:        "malformed evaluation target",
			mutate:      func(m *config.Model) { m.Coordinator.EvaluationDependsOn = svs("app") },
			expectedErr: "invalid evaluation dependency",
		},
		{
			name:        "bad repository",
			mutate:      func(m *config.Model) { m.Coordinator.Repositories = svs("jcenter") },
			expectedErr: "neither a known shorthand",
		},
		{
			name:        "malformed coordinate",
			mutate:      func(m *config.Model) { m.Modules[0].Dependencies = []*config.Dependency{dep("firebase-auth")} },
			expectedErr: "must have the form",
		},
		{
			name: "unsupported task type",
			mutate: func(m *config.Model) {
				m.Coordinator.Tasks = []*config.Task{{Name: "zip", Type: sv("Zip")}}
			},
			expectedErr: "unsupported type \"Zip\"",
		},
		{
			name: "nested extra property",
			mutate: func(m *config.Model) {
				m.Buildscript.Extra = cty.ObjectVal(map[string]cty.Value{"sdk": cty.EmptyObjectVal})
			},
			expectedErr: "buildscript extra: property \"sdk\"",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			model := newModel(dir, newModule(dir, "a"), newModule(dir, "b"))
			tc.mutate(model)
			_, err := Resolve(testCtx(), model, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestResolve_CycleErrorIsTyped(t *testing.T) {
	dir := t.TempDir()
	model := newModel(dir, newModule(dir, "a"), newModule(dir, "b"))
	model.Coordinator.EvaluationDependsOn = svs(":a", ":b")

	_, err := Resolve(testCtx(), model, Options{})
	var cycleErr *dag.CycleError
	assert.True(t, errors.As(err, &cycleErr))
}

func TestResolve_TaskAttributes(t *testing.T) {
	dir := t.TempDir()
	model := newModel(dir)

	deleteExpr, diags := hclsyntax.ParseExpression([]byte(`[root.build_dir, "${root.dir}/.dart_tool"]`), "build.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors())
	model.Coordinator.Tasks = []*config.Task{{Name: "clean", Type: sv("Delete"), Attributes: map[string]hcl.Expression{"delete": deleteExpr}}}

	g, err := Resolve(testCtx(), model, Options{})
	require.NoError(t, err)
	require.Len(t, g.Tasks, 1)
	assert.Equal(t, []string{filepath.Join(dir, "build"), dir + "/.dart_tool"}, g.Tasks[0].Delete)

	model.Coordinator.Tasks[0].Attributes["into"] = deleteExpr
	_, err = Resolve(testCtx(), model, Options{})
	assert.ErrorContains(t, err, "does not accept attribute \"into\"")
}

func TestResolve_CheckWritable(t *testing.T) {
	t.Run("writable", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Resolve(testCtx(), newModel(dir), Options{CheckWritable: true})
		assert.NoError(t, err)
	})

	t.Run("not writable", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced for this user")
		}
		dir := t.TempDir()
		locked := filepath.Join(dir, "locked")
		require.NoError(t, os.Mkdir(locked, 0o500))
		t.Cleanup(func() { _ = os.Chmod(locked, 0o700) })

		model := newModel(locked)
		_, err := Resolve(testCtx(), model, Options{CheckWritable: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not writable")
	})
}

func TestRootBuildDir(t *testing.T) {
	dir := t.TempDir()
	testCases := []struct {
		name     string
		buildDir string
		expected string
	}{
		{name: "default", buildDir: "", expected: filepath.Join(dir, "build")},
		{name: "relative to default build dir", buildDir: "../../build", expected: filepath.Join(filepath.Dir(dir), "build")},
		{name: "nested", buildDir: "out", expected: filepath.Join(dir, "build", "out")},
		{name: "absolute", buildDir: "/var/tmp/out", expected: "/var/tmp/out"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model := newModel(dir)
			model.Coordinator.BuildDir = sv(tc.buildDir)
			assert.Equal(t, tc.expected, RootBuildDir(model))
		})
	}
}

func TestReusesDebugSigning(t *testing.T) {
	dir := t.TempDir()

	t.Run("release names debug", func(t *testing.T) {
		mod := newModule(dir, "app")
		mod.BuildTypes["release"] = &config.BuildType{Name: "release", SigningConfig: sv("debug")}
		assert.True(t, ReusesDebugSigning(mod))
	})

	t.Run("release names distinct config", func(t *testing.T) {
		mod := newModule(dir, "app")
		mod.SigningConfigs["upload"] = &config.SigningConfig{Name: "upload", StoreFile: sv("upload.jks"), KeyAlias: sv("upload")}
		mod.BuildTypes["release"] = &config.BuildType{Name: "release", SigningConfig: sv("upload")}
		assert.False(t, ReusesDebugSigning(mod))
	})

	t.Run("release config copies debug keystore", func(t *testing.T) {
		mod := newModule(dir, "app")
		mod.SigningConfigs["debug"] = &config.SigningConfig{Name: "debug", StoreFile: sv("debug.keystore"), KeyAlias: sv("androiddebugkey")}
		mod.SigningConfigs["upload"] = &config.SigningConfig{Name: "upload", StoreFile: sv("debug.keystore"), KeyAlias: sv("androiddebugkey")}
		mod.BuildTypes["release"] = &config.BuildType{Name: "release", SigningConfig: sv("upload")}
		assert.True(t, ReusesDebugSigning(mod))
	})

	t.Run("no release signing", func(t *testing.T) {
		assert.False(t, ReusesDebugSigning(newModule(dir, "app")))
	})
}

func TestCheckTask_References(t *testing.T) {
	testCases := []struct {
		name        string
		expr        string
		expectedErr string
	}{
		{name: "root values", expr: `[root.build_dir, "${root.parent_dir}/out", root.dir]`},
		{name: "extra and functions", expr: `[format("%s/%s", root.build_dir, lower(extra.flavor))]`},
		{name: "unknown root value", expr: `[root.output_dir]`, expectedErr: "unknown value root.output_dir"},
		{name: "bare root", expr: `[root]`, expectedErr: "unknown value root"},
		{name: "unknown variable", expr: `[var.build_dir]`, expectedErr: "unknown variable var.build_dir"},
		{name: "unknown function", expr: `[abspath(root.dir)]`, expectedErr: "unknown function \"abspath\""},
		{name: "number instead of list", expr: `5`, expectedErr: "list of string required"},
		{name: "list of objects", expr: `[{ dir = root.dir }]`, expectedErr: "task \"clean\""},
		{name: "missing extra property", expr: `[extra.missing]`, expectedErr: "Unsupported attribute"},
		{name: "nested extra property", expr: `[extra.nested]`, expectedErr: "task \"clean\""},
	}
	extra := cty.ObjectVal(map[string]cty.Value{
		"flavor": cty.StringVal("Free"),
		"nested": cty.ObjectVal(map[string]cty.Value{"a": cty.NumberIntVal(1)}),
	})
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expr, diags := hclsyntax.ParseExpression([]byte(tc.expr), "build.hcl", hcl.InitialPos)
			require.False(t, diags.HasErrors(), diags.Error())
			err := CheckTask(&config.Task{Name: "clean", Type: sv("Delete"), Attributes: map[string]hcl.Expression{"delete": expr}}, extra)
			if tc.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}
