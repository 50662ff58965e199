package credentials

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cord-sdk/cord-cli/internal/fs"
)

const testPath = "/home/dev/.cord"

func newMemStore(t *testing.T, content string) (*Store, *fs.MemFileSystem) {
	t.Helper()
	memFS := fs.NewMemFileSystem()
	if content != "" {
		require.NoError(t, memFS.WriteFileAtomic(testPath, []byte(content), 0600))
	}
	store, err := NewStore(StoreConfig{Path: testPath, FileSystem: memFS})
	require.NoError(t, err)
	return store, memFS
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Record
	}{
		{
			name:    "recognized keys are trimmed",
			content: "  PROJECT_ID = p1 \nPROJECT_SECRET=s1\n",
			want:    Record{KeyProjectID: "p1", KeyProjectSecret: "s1"},
		},
		{
			name:    "value keeps everything after the first equals sign",
			content: "API_URL=https://x=y\n",
			want:    Record{KeyAPIURL: "https://x=y"},
		},
		{
			name:    "blank lines and unknown keys are dropped",
			content: "\n\nFOO=bar\n   \nCUSTOMER_ID=c1\nCORD_PROJECT_ID=legacy\n",
			want:    Record{KeyCustomerID: "c1"},
		},
		{
			name:    "lines without equals sign are ignored",
			content: "PROJECT_ID\nCUSTOMER_SECRET=cs\n",
			want:    Record{KeyCustomerSecret: "cs"},
		},
		{
			name:    "lines longer than 64KB do not hide later keys",
			content: "PROJECT_ID=p1\nAPI_URL=" + strings.Repeat("x", 70000) + "\nPROJECT_SECRET=s1\n",
			want: Record{
				KeyProjectID:     "p1",
				KeyAPIURL:        strings.Repeat("x", 70000),
				KeyProjectSecret: "s1",
			},
		},
		{
			name:    "carriage returns are trimmed",
			content: "PROJECT_ID=p1\r\nPROJECT_SECRET=s1\r\n",
			want:    Record{KeyProjectID: "p1", KeyProjectSecret: "s1"},
		},
		{
			name:    "empty values count as absent",
			content: "PROJECT_ID=\nPROJECT_SECRET=s1\n",
			want:    Record{KeyProjectSecret: "s1"},
		},
		{
			name:    "last duplicate wins",
			content: "PROJECT_ID=first\nPROJECT_ID=second\n",
			want:    Record{KeyProjectID: "second"},
		},
		{
			name:    "windows line endings",
			content: "PROJECT_ID=p1\r\nPROJECT_SECRET=s1\r\n",
			want:    Record{KeyProjectID: "p1", KeyProjectSecret: "s1"},
		},
		{
			name:    "keys are case sensitive",
			content: "project_id=p1\n",
			want:    Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse([]byte(tt.content)))
		})
	}
}

func TestFormat(t *testing.T) {
	record := Record{
		KeyAPIURL:             "https://api.example.com/v1",
		KeyProjectID:          "p1",
		KeyVersionLastChecked: "1700000000000",
		KeyCustomerSecret:     "",
	}

	want := "VERSION_LAST_CHECKED=1700000000000\nPROJECT_ID=p1\nAPI_URL=https://api.example.com/v1\n"
	assert.Equal(t, want, string(Format(record)))
	assert.Equal(t, record[KeyAPIURL], Parse(Format(record))[KeyAPIURL])
}

func TestStore_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file yields empty record", func(t *testing.T) {
		store, _ := newMemStore(t, "")
		record, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Empty(t, record)
	})

	t.Run("reads fresh on every call", func(t *testing.T) {
		store, memFS := newMemStore(t, "PROJECT_ID=p1\n")

		first, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "p1", first[KeyProjectID])

		require.NoError(t, memFS.WriteFileAtomic(testPath, []byte("PROJECT_ID=p2\n"), 0600))
		second, err := store.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, "p2", second[KeyProjectID])
	})

	t.Run("other I/O errors are read errors", func(t *testing.T) {
		store, memFS := newMemStore(t, "PROJECT_ID=p1\n")
		memFS.FailReads(testPath, syscall.EACCES)

		_, err := store.Read(ctx)
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, testPath, readErr.Path)
		assert.ErrorIs(t, err, syscall.EACCES)
	})

	t.Run("cancelled context", func(t *testing.T) {
		store, _ := newMemStore(t, "")
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Read(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStore_Write(t *testing.T) {
	ctx := context.Background()

	t.Run("merges over existing keys", func(t *testing.T) {
		store, memFS := newMemStore(t, "PROJECT_ID=v1\nCUSTOMER_ID=w\n")

		require.NoError(t, store.Write(ctx, map[Key]string{KeyProjectID: "v2"}))

		data, err := memFS.ReadFile(testPath)
		require.NoError(t, err)
		assert.Equal(t, Record{KeyProjectID: "v2", KeyCustomerID: "w"}, Parse(data))

		perm, _ := memFS.Perm(testPath)
		assert.Equal(t, os.FileMode(0600), perm)
	})

	t.Run("creates missing file", func(t *testing.T) {
		store, memFS := newMemStore(t, "")

		require.NoError(t, store.Write(ctx, map[Key]string{KeyVersionLastChecked: "42"}))

		data, err := memFS.ReadFile(testPath)
		require.NoError(t, err)
		assert.Equal(t, "VERSION_LAST_CHECKED=42\n", string(data))
	})

	t.Run("drops unrecognized keys already on disk", func(t *testing.T) {
		store, memFS := newMemStore(t, "SOMETHING_ELSE=1\nPROJECT_ID=p1\n")

		require.NoError(t, store.Write(ctx, map[Key]string{KeyProjectSecret: "s1"}))

		data, err := memFS.ReadFile(testPath)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "SOMETHING_ELSE")
	})

	t.Run("rejects unrecognized keys", func(t *testing.T) {
		store, memFS := newMemStore(t, "")

		err := store.Write(ctx, map[Key]string{"HOME": "/root"})
		require.Error(t, err)
		assert.Equal(t, 0, memFS.Writes())
	})

	t.Run("rejects multi-line values", func(t *testing.T) {
		for _, value := range []string{
			"p1\nCUSTOMER_SECRET=injected\nPROJECT_SECRET=evil",
			"p1\rPROJECT_SECRET=evil",
		} {
			store, memFS := newMemStore(t, "PROJECT_SECRET=s1\n")

			err := store.Write(ctx, map[Key]string{KeyProjectID: value})
			require.ErrorContains(t, err, "single line")
			assert.Equal(t, 1, memFS.Writes(), "only the seeded write")

			record, err := store.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, Record{KeyProjectSecret: "s1"}, record)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		store, memFS := newMemStore(t, "PROJECT_ID=p1\n")
		memFS.FailWrites(testPath, syscall.ENOSPC)

		err := store.Write(ctx, map[Key]string{KeyProjectSecret: "s1"})
		var writeErr *WriteError
		require.ErrorAs(t, err, &writeErr)
		assert.ErrorIs(t, err, syscall.ENOSPC)
	})

	t.Run("read failure aborts write", func(t *testing.T) {
		store, memFS := newMemStore(t, "PROJECT_ID=p1\n")
		memFS.FailReads(testPath, syscall.EIO)

		err := store.Write(ctx, map[Key]string{KeyProjectSecret: "s1"})
		var readErr *ReadError
		require.ErrorAs(t, err, &readErr)
		assert.Equal(t, 1, memFS.Writes())
	})
}

func TestStore_OnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".cord")

	store, err := NewStore(StoreConfig{Path: path})
	require.NoError(t, err)

	record, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, record)

	require.NoError(t, store.Write(ctx, map[Key]string{KeyProjectID: "p1", KeyProjectSecret: "s1"}))
	require.NoError(t, store.Write(ctx, map[Key]string{KeyVersionLastChecked: "1"}))

	record, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, Record{KeyProjectID: "p1", KeyProjectSecret: "s1", KeyVersionLastChecked: "1"}, record)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore(StoreConfig{})
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		got, err := ResolvePath("/etc/cord/creds")
		require.NoError(t, err)
		assert.Equal(t, "/etc/cord/creds", got)
	})

	t.Run("defaults to home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		homedir.DisableCache = true
		t.Cleanup(func() { homedir.DisableCache = false })

		got, err := ResolvePath("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".cord"), got)
	})
}

func TestErrors(t *testing.T) {
	base := errors.New("boom")

	assert.ErrorIs(t, &ReadError{Path: "/p", Err: base}, base)
	assert.ErrorIs(t, &WriteError{Path: "/p", Err: base}, base)
	assert.Contains(t, (&WriteError{Path: "/p", Err: base}).Error(), "/p")
}
