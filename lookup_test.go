package treeconf

import (
	"errors"
	"os"
	"sync"

	"github.com/leodido/treeconf/config"
	treeconferrors "github.com/leodido/treeconf/errors"
	"github.com/leodido/treeconf/values"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *treeconfSuite) TestLookup_NoFragments() {
	r := suite.resolver()

	for _, key := range []string{"registry", "token", "paths"} {
		_, err := r.Lookup("/a/b/c", key)
		require.Error(suite.T(), err)
		assert.True(suite.T(), errors.Is(err, treeconferrors.ErrNotFound))

		var nfErr *treeconferrors.NotFoundError
		require.True(suite.T(), errors.As(err, &nfErr))
		assert.Equal(suite.T(), key, nfErr.Key)
	}
}

func (suite *treeconfSuite) TestLookup_SingleFragment() {
	path := suite.fragment("/a", `token = "abc"`)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)

	text, err := value.Scalar()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "abc", text)
	assert.Equal(suite.T(), []string{path}, value.Provenance())
}

func (suite *treeconfSuite) TestLookup_NearestWins() {
	near := suite.fragment("/a/b/c", `token = "abc"`)
	suite.fragment("/a/b", `token = "xyz"`)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)

	text, _ := value.Scalar()
	assert.Equal(suite.T(), "abc", text)
	assert.Equal(suite.T(), []string{near}, value.Provenance(), "no merging with farther fragments")
}

func (suite *treeconfSuite) TestLookup_NearestDefiningAncestor() {
	suite.fragment("/a", `token = "abc"`)
	suite.fragment("/a/b", `token = "xyz"`)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)

	text, _ := value.Scalar()
	assert.Equal(suite.T(), "xyz", text)
}

func (suite *treeconfSuite) TestLookup_NoAggregation() {
	suite.fragment("/a/b", `paths = ["near"]`)
	suite.fragment("/a", `paths = ["far"]`)

	value, err := suite.resolver().Lookup("/a/b/c", "paths")
	require.NoError(suite.T(), err)

	items, err := value.Sequence()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"near"}, items)
}

func (suite *treeconfSuite) TestLookup_SkipsFragmentsWithoutKey() {
	suite.fragment("/a/b/c", `other = "x"`)
	suite.fragment("/", `token = "root"`)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)

	text, _ := value.Scalar()
	assert.Equal(suite.T(), "root", text)
}

func (suite *treeconfSuite) TestLookup_SkipsBrokenFragments() {
	broken := suite.fragment("/a/b/c", `token = `)
	suite.fragment("/a/b", `token = 42`)
	suite.fragment("/a", `token = "abc"`)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)

	text, _ := value.Scalar()
	assert.Equal(suite.T(), "abc", text)

	skipped := suite.logs.FilterMessage("skipping configuration fragment").All()
	require.Len(suite.T(), skipped, 2, "parse and type failures are logged, not propagated")
	assert.Equal(suite.T(), broken, skipped[0].ContextMap()["path"])
}

func (suite *treeconfSuite) TestLookup_UnreadableFragmentIsFatal() {
	near := suite.fragment("/a/b", `token = "near"`)
	suite.fragment("/a", `token = "far"`)
	suite.unreadable(near)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.Error(suite.T(), err)
	assert.Nil(suite.T(), value, "farther fragments are not consulted")
	assert.True(suite.T(), errors.Is(err, treeconferrors.ErrIO))
	assert.False(suite.T(), errors.Is(err, treeconferrors.ErrNotFound))

	var ioErr *treeconferrors.IOError
	require.True(suite.T(), errors.As(err, &ioErr))
	assert.Equal(suite.T(), near, ioErr.Path)
	assert.True(suite.T(), errors.Is(ioErr.Underlying(), os.ErrPermission))
	assert.Contains(suite.T(), err.Error(), near)
}

func (suite *treeconfSuite) TestLookup_UnreadableFartherFragmentIsNotReached() {
	suite.fragment("/a/b", `token = "near"`)
	far := suite.fragment("/a", `token = "far"`)
	suite.unreadable(far)

	value, err := suite.resolver().Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)
	text, _ := value.Scalar()
	assert.Equal(suite.T(), "near", text)
}

func (suite *treeconfSuite) TestLookup_OnlyBrokenFragmentsIsNotFound() {
	suite.fragment("/a/b/c", `token = `)

	_, err := suite.resolver().Lookup("/a/b/c", "token")
	assert.True(suite.T(), errors.Is(err, treeconferrors.ErrNotFound))
	assert.False(suite.T(), errors.Is(err, treeconferrors.ErrParse))
}

func (suite *treeconfSuite) TestLookup_NestedKeysAreNotAddressable() {
	suite.fragment("/a", "[target]\nlinker = \"cc\"")

	_, err := suite.resolver().Lookup("/a/b/c", "target.linker")
	assert.True(suite.T(), errors.Is(err, treeconferrors.ErrNotFound))

	value, err := suite.resolver().Lookup("/a/b/c", "target")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), values.Mapping, value.Kind())
}

func (suite *treeconfSuite) TestLookup_CustomDiscovery() {
	suite.Require().NoError(afero.WriteFile(suite.fs, "/a/b/.cargo/config", []byte(`token = "cargo"`), 0o644))
	suite.Require().NoError(afero.WriteFile(suite.fs, "/a/.treeconf/settings.yaml", []byte(`token: yaml`), 0o644))

	value, err := suite.resolver(WithDiscovery(config.Options{Dir: ".cargo", Name: "config"})).Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)
	text, _ := value.Scalar()
	assert.Equal(suite.T(), "cargo", text)

	value, err = suite.resolver(WithDiscovery(config.Options{Name: "settings.yaml"})).Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)
	text, _ = value.Scalar()
	assert.Equal(suite.T(), "yaml", text)
}

func (suite *treeconfSuite) TestLookup_ConcurrentCalls() {
	suite.fragment("/a", `token = "abc"`)
	suite.fragment("/a/b", `token = "xyz"`)
	r := suite.resolver()

	var wg sync.WaitGroup
	results := make(chan string, 100)
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := "/a"
			if i%2 == 0 {
				start = "/a/b/c"
			}
			value, err := r.Lookup(start, "token")
			if err != nil {
				results <- err.Error()

				return
			}
			text, _ := value.Scalar()
			results <- start + "=" + text
		}(i)
	}
	wg.Wait()
	close(results)

	for res := range results {
		assert.Contains(suite.T(), []string{"/a=abc", "/a/b/c=xyz"}, res)
	}
}
