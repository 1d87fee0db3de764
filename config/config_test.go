package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefaultConfig(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	is.Equal(c.GetInt(ConfigSearchDepth), 10)
	is.Equal(c.GetInt(ConfigSearchThreads), 1)
	is.Equal(c.GetBool(ConfigSearchTTable), false)
	is.Equal(c.GetString(ConfigHumanColor), "yellow")
	is.Equal(c.GetString(ConfigFirstPlayer), "random")
	is.Equal(c.GetBool(ConfigAutoReply), true)
	is.NoErr(c.Validate())
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	chdir(t, t.TempDir())
	c := &Config{}
	err := c.Load([]string{"--search-depth", "6", "--search-ttable", "--human-color=red", "new", "-first", "red"})
	is.NoErr(err)
	is.Equal(c.GetInt(ConfigSearchDepth), 6)
	is.Equal(c.GetBool(ConfigSearchTTable), true)
	is.Equal(c.GetString(ConfigHumanColor), "red")
	is.Equal(c.Args, []string{"new", "-first", "red"})
}

func TestLoadEnvAndFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	chdir(t, dir)
	is.NoErr(os.WriteFile(filepath.Join(dir, "connect4.yaml"),
		[]byte("search-depth: 4\nsearch-threads: 3\n"), 0o644))
	t.Setenv("CONNECT4_SEARCH_THREADS", "8")

	c := &Config{}
	is.NoErr(c.Load(nil))
	is.Equal(c.GetInt(ConfigSearchDepth), 4)
	// the environment wins over the file.
	is.Equal(c.GetInt(ConfigSearchThreads), 8)

	// and flags win over both.
	is.NoErr(c.Load([]string{"--search-threads", "2"}))
	is.Equal(c.GetInt(ConfigSearchThreads), 2)
}

func TestValidate(t *testing.T) {
	is := is.New(t)
	c := DefaultConfig()
	c.Set(ConfigHumanColor, "blue")
	is.True(c.Validate() != nil)

	c = DefaultConfig()
	c.Set(ConfigFirstPlayer, "RANDOM")
	is.NoErr(c.Validate())

	c = DefaultConfig()
	c.Set(ConfigSearchDepth, -1)
	is.True(c.Validate() != nil)

	c = DefaultConfig()
	c.Set(ConfigTTableMemFraction, 1.5)
	is.True(c.Validate() != nil)
}
