package prompt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/rosterhq/cogitator/roster"
)

func TestBuild(t *testing.T) {
	is := is.New(t)
	r, err := roster.Parse(json.RawMessage(`{"name":"Waaagh","faction":"Orks","units":[
		{"name":"Warboss","points":75,"keywords":["Character"]},
		{"name":"Boyz","count":20,"points":170}]}`))
	is.NoErr(err)

	p := Default().Build(r)
	is.True(strings.HasPrefix(p, "You are the Cogitator"))
	is.True(strings.Contains(p, "Name: Waaagh\n"))
	is.True(strings.Contains(p, "Faction: Orks\n"))
	is.True(strings.Contains(p, "Points: 245\n"))
	is.True(strings.Contains(p, "Models: 21\n"))
	is.True(strings.Contains(p, "- Warboss x1 (75 pts) [Character]\n"))
	is.True(strings.Contains(p, "- Boyz x20 (170 pts)\n"))
	is.True(strings.HasSuffix(p, string(r.Raw)+"\n"))
}

func TestBuildEmptyRoster(t *testing.T) {
	is := is.New(t)
	r, err := roster.Parse(json.RawMessage(`{"units":[]}`))
	is.NoErr(err)

	p := Default().Build(r)
	is.True(strings.Contains(p, "Units: none\n"))
	is.True(!strings.Contains(p, "Faction:"))
	is.True(strings.Contains(p, `{"units":[]}`))
}

func TestLoad(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "prompt.yaml")
	is.NoErr(os.WriteFile(path, []byte("instructions: Rate this list out of ten.\n"), 0o644))

	tmpl, err := Load(path)
	is.NoErr(err)
	is.Equal(tmpl.System, "")

	r, err := roster.Parse(json.RawMessage(`{"units":[]}`))
	is.NoErr(err)
	is.True(strings.HasPrefix(tmpl.Build(r), "Rate this list out of ten.\n\nROSTER SUMMARY:"))
}

func TestParseRejectsEmptyInstructions(t *testing.T) {
	is := is.New(t)
	_, err := Parse([]byte("system: hello\n"))
	is.True(err != nil)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	is.True(err != nil)
}
