package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srcfix/internal/printfix"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Hohma", cfg.SourceDir)
	assert.Equal(t, ".swift", cfg.Extension)
	assert.Equal(t, "AppLogger.shared", cfg.Logger.Receiver)
	assert.Equal(t, "Hohma/Info.plist", cfg.Legal.Plist)
	assert.Equal(t, "SUPPORT_EMAIL", cfg.Legal.Key)
	assert.Len(t, cfg.Legal.Documents, 4)
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SRCFIX_SOURCE_DIR", "")
	t.Setenv("SRCFIX_PLIST", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Setenv("SRCFIX_SOURCE_DIR", "")
	t.Setenv("SRCFIX_PLIST", "")
	path := writeConfig(t, `
source_dir: App
logger:
  receiver: Log.main
  emoji_levels:
    - emoji: "🐞"
      level: error
legal:
  documents: [Terms.md]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "App", cfg.SourceDir)
	assert.Equal(t, ".swift", cfg.Extension)
	assert.Equal(t, "Log.main", cfg.Logger.Receiver)
	assert.Equal(t, "AppLogger.swift", cfg.Logger.SourceFile)
	assert.Equal(t, []printfix.EmojiLevel{{Emoji: "🐞", Level: printfix.LevelError}}, cfg.Logger.EmojiLevels)
	assert.Equal(t, printfix.DefaultRules().Categories, cfg.Logger.Categories)
	assert.Equal(t, []string{"Terms.md"}, cfg.Legal.Documents)
	assert.Equal(t, "SUPPORT_EMAIL", cfg.Legal.Key)
}

func TestLoad_NegativeWorkers(t *testing.T) {
	path := writeConfig(t, "workers: -2\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestLoad_InvalidLevel(t *testing.T) {
	path := writeConfig(t, `
logger:
  emoji_levels:
    - emoji: "🐞"
      level: loud
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "source_dir: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestValidate(t *testing.T) {
	t.Run("empty source dir", func(t *testing.T) {
		cfg := Default()
		cfg.SourceDir = " "
		assert.Error(t, cfg.Validate())
	})
	t.Run("extension without dot", func(t *testing.T) {
		cfg := Default()
		cfg.Extension = "swift"
		assert.Error(t, cfg.Validate())
	})
	t.Run("empty plist key", func(t *testing.T) {
		cfg := Default()
		cfg.Legal.Key = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SRCFIX_SOURCE_DIR", "Other")
	t.Setenv("SRCFIX_PLIST", "Other/Info.plist")

	cfg, err := Load(writeConfig(t, "source_dir: App\n"))
	require.NoError(t, err)
	assert.Equal(t, "Other", cfg.SourceDir)
	assert.Equal(t, "Other/Info.plist", cfg.Legal.Plist)
}

func TestFileOptions(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".srcfixignore"), []byte("Generated/\n"), 0o644))

	opts, err := Default().FileOptions(root)
	require.NoError(t, err)
	assert.Equal(t, ".swift", opts.Extension)
	require.NotNil(t, opts.Ignore)
	assert.True(t, opts.Ignore.Match("Generated", true))

	single := filepath.Join(root, "One.swift")
	require.NoError(t, os.WriteFile(single, nil, 0o644))
	opts, err = Default().FileOptions(single)
	require.NoError(t, err)
	assert.Nil(t, opts.Ignore)
}

func TestSyncOptions(t *testing.T) {
	cfg := Default()
	cfg.Legal.BaseDir = "docs"
	opts := cfg.SyncOptions()
	assert.Equal(t, "Hohma/Info.plist", opts.PlistPath)
	assert.Equal(t, "docs", opts.BaseDir)
	assert.Equal(t, cfg.Legal.Documents, opts.Documents)
}

func TestLoad_ExampleFile(t *testing.T) {
	t.Setenv("SRCFIX_SOURCE_DIR", "")
	t.Setenv("SRCFIX_PLIST", "")

	cfg, err := Load(filepath.Join("..", "..", ".srcfix.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, printfix.LevelInfo, cfg.Logger.LevelFor("📦 Loaded 3 packs"))
	assert.Equal(t, "Loaded 3 packs", cfg.Logger.CleanMessage("📦 Loaded 3 packs"))
}
