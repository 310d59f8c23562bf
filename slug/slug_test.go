package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Adeptus Astartes", "adeptus-astartes"},
		{"  Adeptus  Astartes! ", "adeptus-astartes"},
		{"adeptus-astartes", "adeptus-astartes"},
		{"T'au Empire", "t-au-empire"},
		{"Leagues of Votann", "leagues-of-votann"},
		{"Ynnari (Aeldari)", "ynnari-aeldari"},
		{"Crème Brûlée", "creme-brulee"},
		{"Chaos Space Marines -- 2000pts", "chaos-space-marines-2000pts"},
		{"---", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Normalize(c.in), "input %q", c.in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Death Guard", "death-guard"))
	assert.False(t, Equal("Necrons", "Tyranids"))
}
