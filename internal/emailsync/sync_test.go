package emailsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>Hohma</string>
	<key>SUPPORT_EMAIL</key>
	<string>%s</string>
	<key>LaunchCount</key>
	<integer>3</integer>
</dict>
</plist>
`

func writePlist(t *testing.T, dir, email string) string {
	t.Helper()
	path := filepath.Join(dir, "Info.plist")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(infoPlist, email)), 0o644))
	return path
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readDoc(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestReadPlistValue(t *testing.T) {
	dir := t.TempDir()
	path := writePlist(t, dir, "support@hohma.app")

	email, err := ReadPlistValue(path, "SUPPORT_EMAIL")
	require.NoError(t, err)
	assert.Equal(t, "support@hohma.app", email)

	_, err = ReadPlistValue(path, "MISSING_KEY")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	_, err = ReadPlistValue(path, "LaunchCount")
	assert.ErrorContains(t, err, "want string")

	_, err = ReadPlistValue(filepath.Join(dir, "absent.plist"), "SUPPORT_EMAIL")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadPlistValue_Empty(t *testing.T) {
	path := writePlist(t, t.TempDir(), "  ")
	_, err := ReadPlistValue(path, "SUPPORT_EMAIL")
	assert.ErrorContains(t, err, "empty")
}

func TestUpdateDocument(t *testing.T) {
	t.Run("placeholder replaced everywhere", func(t *testing.T) {
		path := writeDoc(t, t.TempDir(), "PrivacyPolicy.md", "Contact xxx-zet@mail.ru.\n\n**Email:** xxx-zet@mail.ru\n")
		result, err := UpdateDocument(path, "help@hohma.app", DefaultPlaceholder, false)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, result.Status)
		assert.Equal(t, 2, result.Replacements)
		assert.Equal(t, "Contact help@hohma.app.\n\n**Email:** help@hohma.app\n", readDoc(t, path))
	})

	t.Run("placeholder equal to email is in sync", func(t *testing.T) {
		path := writeDoc(t, t.TempDir(), "Terms.md", "Email: xxx-zet@mail.ru\n")
		result, err := UpdateDocument(path, DefaultPlaceholder, DefaultPlaceholder, false)
		require.NoError(t, err)
		assert.Equal(t, StatusInSync, result.Status)
	})

	t.Run("labelled address re-synced", func(t *testing.T) {
		original := "**Email:** old@hohma.app\n- Email: old@hohma.app\nEmail:  old@hohma.app.\nWrite to old@hohma.app\n"
		path := writeDoc(t, t.TempDir(), "UserAgreement.md", original)
		result, err := UpdateDocument(path, "new@hohma.app", DefaultPlaceholder, false)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, result.Status)
		assert.Equal(t, 3, result.Replacements)
		assert.Equal(t, "**Email:** new@hohma.app\n- Email: new@hohma.app\nEmail:  new@hohma.app.\nWrite to old@hohma.app\n", readDoc(t, path))
	})

	t.Run("labelled address already current", func(t *testing.T) {
		path := writeDoc(t, t.TempDir(), "LEGAL_SETUP.md", "- Email: new@hohma.app\n")
		result, err := UpdateDocument(path, "new@hohma.app", DefaultPlaceholder, false)
		require.NoError(t, err)
		assert.Equal(t, StatusInSync, result.Status)
	})

	t.Run("no address", func(t *testing.T) {
		path := writeDoc(t, t.TempDir(), "Notes.md", "# Notes\nNothing here.\n")
		result, err := UpdateDocument(path, "new@hohma.app", DefaultPlaceholder, false)
		require.NoError(t, err)
		assert.Equal(t, StatusNotFound, result.Status)
	})

	t.Run("missing file", func(t *testing.T) {
		result, err := UpdateDocument(filepath.Join(t.TempDir(), "Gone.md"), "new@hohma.app", DefaultPlaceholder, false)
		require.NoError(t, err)
		assert.Equal(t, StatusMissing, result.Status)
	})

	t.Run("dry run leaves file", func(t *testing.T) {
		original := "Email: xxx-zet@mail.ru\n"
		path := writeDoc(t, t.TempDir(), "Terms.md", original)
		result, err := UpdateDocument(path, "new@hohma.app", DefaultPlaceholder, true)
		require.NoError(t, err)
		assert.Equal(t, StatusUpdated, result.Status)
		assert.Equal(t, original, readDoc(t, path))
	})
}

func TestSync(t *testing.T) {
	dir := t.TempDir()
	plistPath := writePlist(t, dir, "help@hohma.app")
	writeDoc(t, dir, "TermsOfService.md", "**Email:** xxx-zet@mail.ru\n")
	writeDoc(t, dir, "PrivacyPolicy.md", "- Email: help@hohma.app\n")
	writeDoc(t, dir, "UserAgreement.md", "No contact.\n")

	report, err := Sync(Options{PlistPath: plistPath, BaseDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "help@hohma.app", report.Email)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 4, report.Total)

	statuses := map[string]Status{}
	for _, doc := range report.Documents {
		statuses[filepath.Base(doc.Path)] = doc.Status
	}
	assert.Equal(t, map[string]Status{
		"TermsOfService.md": StatusUpdated,
		"PrivacyPolicy.md":  StatusInSync,
		"UserAgreement.md":  StatusNotFound,
		"LEGAL_SETUP.md":    StatusMissing,
	}, statuses)
	assert.Equal(t, "**Email:** help@hohma.app\n", readDoc(t, filepath.Join(dir, "TermsOfService.md")))
}

func TestSync_PlistError(t *testing.T) {
	dir := t.TempDir()
	_, err := Sync(Options{PlistPath: filepath.Join(dir, "Info.plist"), BaseDir: dir})
	require.Error(t, err)
}

func TestWatch_ResyncsOnPlistChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	plistPath := writePlist(t, dir, "first@hohma.app")
	docPath := writeDoc(t, dir, "TermsOfService.md", "Email: first@hohma.app\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	synced := make(chan Report, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Options{
			PlistPath: plistPath,
			BaseDir:   dir,
			Documents: []string{"TermsOfService.md"},
		}, 20*time.Millisecond, func(report Report, err error) {
			if err != nil {
				return
			}
			select {
			case synced <- report:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var got Report
wait:
	for {
		select {
		case got = <-synced:
			if got.Email == "second@hohma.app" {
				break wait
			}
		case <-ticker.C:
			writePlist(t, dir, "second@hohma.app")
		case <-deadline:
			t.Fatal("timed out waiting for watch-triggered sync")
		}
	}

	assert.Equal(t, "Email: second@hohma.app\n", readDoc(t, docPath))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}
