package integration_tests

import (
	"testing"

	"github.com/specialistvlad/buildcheck/internal/app"
	"github.com/specialistvlad/buildcheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidProject(t *testing.T) {
	// --- Arrange ---
	files := testutil.ValidProject()

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.CommandValidate, app.Config{CheckWritable: true})

	// --- Assert ---
	require.NoError(t, result.Err, "logs:\n%s", result.LogOutput)
	assert.Equal(t, "0 errors, 0 warnings\n", result.Output)
	assert.Contains(t, result.LogOutput, "Validation finished.")
}

func TestValidate_ReleaseReusesDebugSigning(t *testing.T) {
	// --- Arrange ---
	files := testutil.ValidProject()
	files["app/build.hcl"] = replaceOnce(t, files["app/build.hcl"],
		`signing_config = "upload"`, `signing_config = "debug"`)

	// --- Act ---
	lenient := testutil.RunIntegrationTest(t, files, app.CommandValidate, app.Config{})
	strict := testutil.RunIntegrationTest(t, files, app.CommandValidate, app.Config{Strict: true})

	// --- Assert ---
	require.NoError(t, lenient.Err)
	assert.Contains(t, lenient.Output, "Warning: SIGN001")
	assert.ErrorIs(t, strict.Err, app.ErrValidationFailed)
	assert.Contains(t, strict.Output, "Error: SIGN001")
}

func TestValidate_PlatformAfterManagedDependency(t *testing.T) {
	// --- Arrange ---
	files := testutil.ValidProject()
	files["app/build.hcl"] = replaceOnce(t, files["app/build.hcl"], `
  dependency "implementation" {
    platform = "com.google.firebase:firebase-bom:33.3.0"
  }
  dependency "implementation" {
    coordinate = "com.google.firebase:firebase-auth"
  }`, `
  dependency "implementation" {
    coordinate = "com.google.firebase:firebase-auth"
  }
  dependency "implementation" {
    platform = "com.google.firebase:firebase-bom:33.3.0"
  }`)

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.CommandValidate, app.Config{Format: "json"})

	// --- Assert ---
	assert.ErrorIs(t, result.Err, app.ErrValidationFailed)
	assert.Contains(t, result.Output, `"code": "DEP001"`)
}

func TestValidate_SdkOrdering(t *testing.T) {
	// --- Arrange ---
	files := testutil.ValidProject()
	files["app/build.hcl"] = replaceOnce(t, files["app/build.hcl"], "min_sdk        = 24", "min_sdk        = 35")

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, app.CommandValidate, app.Config{})

	// --- Assert ---
	assert.ErrorIs(t, result.Err, app.ErrValidationFailed)
	assert.Contains(t, result.Output, "min_sdk 35 is greater than target_sdk 34")
	assert.Contains(t, result.Output, "min_sdk        = 35", "source snippet should be rendered")
}

func TestValidate_LoadErrors(t *testing.T) {
	testCases := []struct {
		name        string
		files       map[string]string
		expectedErr string
	}{
		{
			name:        "no root project",
			files:       map[string]string{"app/build.hcl": testutil.AppHCL},
			expectedErr: "Missing root project",
		},
		{
			name: "duplicate module",
			files: map[string]string{
				"build.hcl":       testutil.RootHCL,
				"app/build.hcl":   testutil.AppHCL,
				"other/build.hcl": testutil.AppHCL,
			},
			expectedErr: "Duplicate module",
		},
		{
			name:        "no configuration",
			files:       map[string]string{"README.md": "nothing here"},
			expectedErr: "no .hcl configuration files found",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := testutil.RunIntegrationTest(t, tc.files, app.CommandValidate, app.Config{})
			require.Error(t, result.Err)
			assert.NotErrorIs(t, result.Err, app.ErrValidationFailed)
			assert.Contains(t, result.Err.Error(), tc.expectedErr)
		})
	}
}

func TestValidate_AgreesWithResolve(t *testing.T) {
	testCases := []struct {
		name       string
		old, repl  string
		expectCode string
	}{
		{
			name:       "task attribute of the wrong type",
			old:        "delete = [root.build_dir]",
			repl:       "delete = 5",
			expectCode: "TASK001",
		},
		{
			name:       "nested extra property",
			old:        `kotlin_version = "2.1.21"`,
			repl:       "kotlin_version = \"2.1.21\"\n    sdk = { compile = 34 }",
			expectCode: "EXTRA001",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			files := testutil.ValidProject()
			files["build.hcl"] = replaceOnce(t, files["build.hcl"], tc.old, tc.repl)

			// --- Act ---
			validated := testutil.RunIntegrationTest(t, files, app.CommandValidate, app.Config{})
			resolved := testutil.RunIntegrationTest(t, files, app.CommandResolve, app.Config{})

			// --- Assert ---
			assert.ErrorIs(t, validated.Err, app.ErrValidationFailed)
			assert.Contains(t, validated.Output, "Error: "+tc.expectCode)
			assert.ErrorIs(t, resolved.Err, app.ErrValidationFailed)
			assert.Contains(t, resolved.Output, "Error: "+tc.expectCode)
		})
	}
}
