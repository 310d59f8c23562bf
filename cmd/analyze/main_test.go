package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/rosterhq/cogitator/client"
)

func TestReadRoster(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "roster.json")
	is.NoErr(os.WriteFile(path, []byte(`{"units":[]}`), 0o644))

	r, err := readRoster([]string{path}, nil)
	is.NoErr(err)
	is.Equal(string(r), `{"units":[]}`)

	r, err = readRoster(nil, strings.NewReader(`{"faction":"Orks"}`))
	is.NoErr(err)
	is.Equal(string(r), `{"faction":"Orks"}`)

	_, err = readRoster([]string{"-"}, strings.NewReader(`{"faction":`))
	is.True(err != nil)
}

func TestNewAnalyzer(t *testing.T) {
	is := is.New(t)
	an, err := newAnalyzer(context.Background(), "http://localhost:8088/api/cogitator", "")
	is.NoErr(err)
	_, ok := an.(*client.HTTP)
	is.True(ok)

	_, err = newAnalyzer(context.Background(), "http://x", "fn")
	is.True(err != nil)
	_, err = newAnalyzer(context.Background(), "", "")
	is.True(err != nil)
}
