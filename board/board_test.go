package board

import (
	"testing"

	"github.com/matryer/is"
)

func TestNewValidates(t *testing.T) {
	is := is.New(t)

	_, err := New([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})
	is.NoErr(err)

	_, err = New([Dim][Dim]int{{1, 2, 3}, {4, 9, 5}, {7, 8, 6}})
	is.True(err != nil) // 9 is out of range

	_, err = New([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, -1}})
	is.True(err != nil)

	_, err = New([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 4}})
	is.True(err != nil) // duplicate 4, no 6
}

func TestParseForms(t *testing.T) {
	is := is.New(t)

	want := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})

	for _, form := range []string{
		"1 2 3/4 0 5/7 8 6",
		"123/405/786",
		"123/4_5/786",
		"1 2 3\n4 . 5\n7 8 6",
		"  1 2 3 / 4 0 5 / 7 8 6  ",
	} {
		b, err := Parse(form)
		is.NoErr(err)
		is.Equal(b, want)
	}
}

func TestParseErrors(t *testing.T) {
	is := is.New(t)

	for _, form := range []string{
		"",
		"1 2 3/4 0 5",
		"1 2 3/4 0 5/7 8 6/0 0 0",
		"1 2 3/4 x 5/7 8 6",
		"1 2/4 0 5/7 8 6",
		"1234/405/786",
	} {
		_, err := Parse(form)
		is.True(err != nil)
	}
}

func TestStringRoundTrips(t *testing.T) {
	is := is.New(t)

	b := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})
	is.Equal(b.String(), "1 2 3/4 0 5/7 8 6")

	again, err := Parse(b.String())
	is.NoErr(err)
	is.Equal(again, b)
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)

	b := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})
	is.Equal(b.ToDisplayText(), "1 2 3\n4 _ 5\n7 8 6")
}

func TestEqualityAndFingerprint(t *testing.T) {
	is := is.New(t)

	a := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})
	b, err := Parse("123/405/786")
	is.NoErr(err)
	c := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 5, 0}, {7, 8, 6}})

	is.True(a == b)
	is.True(a != c)
	is.Equal(a.Fingerprint(), b.Fingerprint())
	is.True(a.Fingerprint() != c.Fingerprint())

	seen := map[Board]int{a: 1}
	seen[b]++
	seen[c]++
	is.Equal(len(seen), 2)
	is.Equal(seen[a], 2)
}

func TestBlankAndSlide(t *testing.T) {
	is := is.New(t)

	center := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})
	r, c := center.Blank()
	is.Equal(r, 1)
	is.Equal(c, 1)

	up, ok := center.Slide(Up)
	is.True(ok)
	is.Equal(up, MustNew([Dim][Dim]int{{1, 0, 3}, {4, 2, 5}, {7, 8, 6}}))
	// the receiver is untouched
	is.Equal(center, MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}}))

	corner := MustNew([Dim][Dim]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}})
	_, ok = corner.Slide(Up)
	is.True(!ok)
	_, ok = corner.Slide(Left)
	is.True(!ok)
	down, ok := corner.Slide(Down)
	is.True(ok)
	is.Equal(down, MustNew([Dim][Dim]int{{3, 1, 2}, {0, 4, 5}, {6, 7, 8}}))
	r, c = down.Blank()
	is.Equal(r, 1)
	is.Equal(c, 0)
}

func TestSwapKeepsBlankCache(t *testing.T) {
	is := is.New(t)

	b := MustNew([Dim][Dim]int{{1, 2, 3}, {4, 0, 5}, {7, 8, 6}})
	swapped := b.Swap(0, 2)
	is.Equal(swapped, MustNew([Dim][Dim]int{{3, 2, 1}, {4, 0, 5}, {7, 8, 6}}))

	withBlank := b.Swap(4, 8)
	is.Equal(withBlank, MustNew([Dim][Dim]int{{1, 2, 3}, {4, 6, 5}, {7, 8, 0}}))
	r, c := withBlank.Blank()
	is.Equal(r, 2)
	is.Equal(c, 2)
}

func TestRandomIsSeededAndValid(t *testing.T) {
	is := is.New(t)

	a := Random(NewRNG(42))
	b := Random(NewRNG(42))
	is.Equal(a, b)

	_, err := New(a.Grid())
	is.NoErr(err)

	// a different seed should give a different arrangement
	c := Random(NewRNG(43))
	is.True(a != c)
}
