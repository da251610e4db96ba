package queryparam

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_shapes(t *testing.T) {
	tests := map[string]struct {
		in       []string
		wantKind Kind
	}{
		"empty":    {in: nil, wantKind: None},
		"single":   {in: []string{"0"}, wantKind: One},
		"multiple": {in: []string{"0", "2"}, wantKind: Many},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			v := Encode(test.in)
			assert.Equal(t, test.wantKind, v.Kind())
			assert.Equal(t, test.in, v.Strings())
		})
	}
}

func TestDecodeIndices(t *testing.T) {
	tests := map[string]struct {
		in   Value
		want []int
	}{
		"absent":           {in: Absent(), want: nil},
		"scalar":           {in: Single("3"), want: []int{3}},
		"sequence":         {in: Sequence("2", "0"), want: []int{2, 0}},
		"one element seq":  {in: Sequence("4"), want: []int{4}},
		"skips malformed":  {in: Sequence("1", "x", "", "2.5", "3"), want: []int{1, 3}},
		"skips negative":   {in: Sequence("-1", "0"), want: []int{0}},
		"drops duplicates": {in: Sequence("1", "1", "0"), want: []int{1, 0}},
		"trims spaces":     {in: Single(" 7 "), want: []int{7}},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, DecodeIndices(test.in))
		})
	}
}

func TestIndices_roundTrip(t *testing.T) {
	for name, set := range map[string][]int{
		"one element":  {0},
		"two elements": {0, 2},
	} {
		t.Run(name, func(t *testing.T) {
			enc := EncodeIndices(set)

			q := url.Values{"s": enc.Strings()}
			assert.Equal(t, set, DecodeIndices(FromQuery(q, "s")))

			// a transport that reports one-element arrays as scalars, and one
			// that always reports arrays
			if len(set) == 1 {
				assert.Equal(t, set, DecodeIndices(Single(enc.Strings()[0])))
			}
			assert.Equal(t, set, DecodeIndices(Sequence(enc.Strings()...)))
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Single("a").Equal(Sequence("a")))
	assert.True(t, Absent().Equal(Encode(nil)))
	assert.False(t, Single("a").Equal(Sequence("a", "b")))
}

func TestToggle_combineTwiceRestores(t *testing.T) {
	r := NewMemoryRouter("", "/plezalisce/osp")
	before := r.URL()

	require.NoError(t, Toggle(r, "combine", "true"))
	assert.True(t, Present(r, "combine", "true"))
	assert.Equal(t, "/plezalisce/osp?combine=true", r.URL())

	require.NoError(t, Toggle(r, "combine", "true"))
	assert.False(t, Present(r, "combine", "true"))
	assert.Equal(t, before, r.URL())
	_, ok := r.Query()["combine"]
	assert.False(t, ok)
}

func TestToggle_otherValueIsOverwritten(t *testing.T) {
	r, err := ParseLocation("/plezalisce/osp?combine=false")
	require.NoError(t, err)

	require.NoError(t, Toggle(r, "combine", "true"))
	assert.Equal(t, []string{"true"}, r.Query()["combine"])
}

func TestMemoryRouter_Replace(t *testing.T) {
	r, err := ParseLocation("https://plezanje.info/plezalisce/osp?s=0")
	require.NoError(t, err)

	var changes []Change
	release := r.OnChange(func(c Change) { changes = append(changes, c) })
	defer release()

	require.NoError(t, r.Replace("s", EncodeIndices([]int{0, 1}), SyncOptions))
	assert.Equal(t, "https://plezanje.info/plezalisce/osp?s=0&s=1", r.URL())
	assert.Equal(t, 1, r.HistoryLen())
	require.Len(t, changes, 1)
	assert.True(t, changes[0].Options.Shallow)
	assert.False(t, changes[0].Options.Push)

	require.NoError(t, r.Replace("s", Absent(), Options{Push: true}))
	assert.Equal(t, "https://plezanje.info/plezalisce/osp", r.URL())
	assert.Equal(t, 2, r.HistoryLen())

	assert.True(t, r.Back())
	assert.Equal(t, []string{"0", "1"}, r.Query()["s"])
	assert.False(t, r.Back())

	assert.Error(t, r.Replace("", Absent(), SyncOptions))
}

func TestMemoryRouter_lastWriteWins(t *testing.T) {
	r := NewMemoryRouter("", "/x")

	require.NoError(t, r.Replace("s", Single("1"), SyncOptions))
	require.NoError(t, r.Replace("s", Sequence("3", "2"), SyncOptions))

	assert.Equal(t, []string{"3", "2"}, r.Query()["s"])
}

func TestMemoryRouter_QueryIsACopy(t *testing.T) {
	r, err := ParseLocation("/x?s=1")
	require.NoError(t, err)

	q := r.Query()
	q.Set("s", "9")
	assert.Equal(t, []string{"1"}, r.Query()["s"])
}

func TestParseLocation_errors(t *testing.T) {
	_, err := ParseLocation("  ")
	assert.Error(t, err)

	_, err = ParseLocation("http://[::1")
	assert.Error(t, err)
}

func TestMemoryRouter_Navigate(t *testing.T) {
	r, err := ParseLocation("/plezalisce/osp?s=1")
	require.NoError(t, err)

	r.Navigate("/plezalisce/misja-pec")
	assert.Equal(t, "/plezalisce/misja-pec", r.URL())
	assert.Equal(t, "/plezalisce/misja-pec", r.Path())
	assert.True(t, r.Back())
	assert.Equal(t, "/plezalisce/osp?s=1", r.URL())
}
