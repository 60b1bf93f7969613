package usecase

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bundler/internal/adapter/analyzer"
	"bundler/internal/domain"
)

func TestBundle_SamePackageSiblings(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java": "package app;\npublic class Main { Util.x(); }\n",
		"Util.java": "package app;\npublic class Util { }\n",
	})

	p := newPipeline(t, nil, nil)
	result, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	out := string(result.Bundle.Bytes())
	assert.Equal(t, "class Main { Util.x(); }\nclass Util { }\n", out)
	assert.NotContains(t, out, "package")
	assert.NotContains(t, out, "public")
	assert.Equal(t, domain.ModuleID("app.Main"), result.Bundle.Entry)
	assert.Equal(t, []domain.ModuleID{"app.Main", "app.Util"}, result.Bundle.Discovered)
}

func TestBundle_DuplicateForeignImportsAreKept(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java": "package app;\nimport java.util.List;\npublic class Main {}\n",
		"Util.java": "package app;\nimport java.util.List;\npublic class Util {}\n",
	})

	p := newPipeline(t, nil, nil)
	result, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	out := string(result.Bundle.Bytes())
	assert.Equal(t, "import java.util.List;\nimport java.util.List;\nclass Main {}\nclass Util {}\n", out)
	assert.Equal(t, 2, strings.Count(out, "import java.util.List;"))
}

func TestBundle_UnresolvedImportWarns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java": "import com.acme.Missing;\npublic class Main {}\n",
	})

	p := newPipeline(t, nil, nil)
	result, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	assert.Equal(t, "class Main {}\n", string(result.Bundle.Bytes()))
	assert.Equal(t, []domain.ModuleID{"com.acme.Missing"}, result.Bundle.Missing)
	assert.Contains(t, p.logs.String(), "level=WARN")
	assert.Contains(t, p.logs.String(), "com.acme.Missing")
}

func TestBundle_TestFilesNeverBundled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java":     "package app;\npublic class Main {}\n",
		"MainTest.java": "package app;\npublic class MainTest { secret(); }\n",
	})

	p := newPipeline(t, nil, nil)
	result, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	assert.NotContains(t, string(result.Bundle.Bytes()), "MainTest")
	assert.NotContains(t, result.Bundle.Discovered, domain.ModuleID("app.MainTest"))
	assert.Empty(t, result.Bundle.Missing)
}

func TestBundle_TransitiveAcrossPackages(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java":            "package app;\nimport app.model.User;\npublic class Main {}\n",
		"model/User.java":      "package app.model;\nimport java.time.Instant;\npublic class User {}\n",
		"model/Role.java":      "package app.model;\npublic enum Role { ADMIN }\n",
		"service/Service.java": "package app.service;\npublic class Service {}\n",
	})

	p := newPipeline(t, nil, nil)
	result, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.ModuleID{"app.Main", "app.model.User", "app.model.Role"}, result.Bundle.Discovered)
	assert.Equal(t, "import java.time.Instant;\nclass Main {}\nclass User {}\nenum Role { ADMIN }\n", string(result.Bundle.Bytes()))
	assert.Equal(t, 4, result.Load.FilesLoaded)
}

func TestBundle_Deterministic(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java":   "package app;\nimport app.b.B;\nimport app.a.A;\npublic class Main {}\n",
		"a/A.java":    "package app.a;\nimport java.util.Set;\npublic class A {}\n",
		"a/A2.java":   "package app.a;\nclass A2 {}\n",
		"b/B.java":    "package app.b;\nimport app.a.A2;\npublic class B {}\n",
		"Helper.java": "package app;\nclass Helper {}\n",
	})

	p := newPipeline(t, nil, nil)
	first, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)
	second, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	assert.Equal(t, first.Bundle.Bytes(), second.Bundle.Bytes())
	assert.Equal(t, first.Bundle.Discovered, second.Bundle.Discovered)
}

func TestBundle_EntryWithoutPackage(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java": "public class Main { new Util(); }\n",
		"Util.java": "class Util { }\n",
	})

	p := newPipeline(t, nil, nil)
	result, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.ModuleID("Main"), result.Bundle.Entry)
	assert.Equal(t, "class Main { new Util(); }\nclass Util { }\n", string(result.Bundle.Bytes()))
}

func TestBundle_MalformedSourceFails(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java":  "public class Main {}\n",
		"Other.java": "import\n",
	})

	p := newPipeline(t, nil, nil)
	_, err := p.bundle.Bundle(filepath.Join(root, "Main.java"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, analyzer.ErrMalformedDirective))
}

func TestDependencies(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Main.java": "package app;\nimport app.gone.Thing;\npublic class Main {}\n",
		"Util.java": "package app;\nclass Util {}\n",
	})

	p := newPipeline(t, nil, nil)
	discovered, missing, err := p.bundle.Dependencies(filepath.Join(root, "Main.java"))
	require.NoError(t, err)

	assert.Equal(t, []domain.ModuleID{"app.Main", "app.gone.Thing", "app.Util"}, discovered)
	assert.Equal(t, []domain.ModuleID{"app.gone.Thing"}, missing)
}

func TestEntryID(t *testing.T) {
	table := domain.NewUnitTable()
	table.Insert(&domain.Unit{ID: "app.Main", Path: "/src/Main.java"})

	assert.Equal(t, domain.ModuleID("app.Main"), EntryID(table, "/src/Main.java", "Main"))
	assert.Equal(t, domain.ModuleID("Other"), EntryID(table, "/src/Other.java", "Other"))
}
