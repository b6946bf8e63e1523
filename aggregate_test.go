package treeconf

import (
	"errors"
	"os"

	treeconferrors "github.com/leodido/treeconf/errors"
	"github.com/leodido/treeconf/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *treeconfSuite) TestAggregate_NoFragments() {
	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), values.Mapping, acc.Kind())
	assert.Equal(suite.T(), 0, acc.Len())
	assert.Empty(suite.T(), acc.Provenance())
}

func (suite *treeconfSuite) TestAggregate_SingleFragment() {
	path := suite.fragment("/a", `token = "abc"`)

	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), map[string]any{"token": "abc"}, acc.Interface())
	assert.Equal(suite.T(), []string{path}, acc.Provenance())
}

func (suite *treeconfSuite) TestAggregate_SequenceConcatenationNearestFirst() {
	suite.fragment("/a", `flag = ["x"]`)
	suite.fragment("/a/b", `flag = ["y"]`)

	for _, policy := range []values.Precedence{values.NearestWins, values.FarthestWins} {
		suite.Run(policy.String(), func() {
			acc, err := suite.resolver(WithPrecedence(policy)).Aggregate("/a/b/c")
			require.NoError(suite.T(), err)

			flag, ok := acc.Get("flag")
			require.True(suite.T(), ok)
			items, err := flag.Sequence()
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), []string{"y", "x"}, items, "nearest elements first, farther elements appended")
			assert.Equal(suite.T(), []string{"/a/b/.treeconf/config.toml", "/a/.treeconf/config.toml"}, flag.Provenance())
		})
	}
}

func (suite *treeconfSuite) TestAggregate_SequenceLengthAcrossLayers() {
	suite.fragment("/a/b/c", `paths = ["a"]`)
	suite.fragment("/a/b", `paths = []`)
	suite.fragment("/a", `paths = ["b", "c"]`)
	suite.fragment("/", `paths = ["a", "d", "d"]`)

	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.NoError(suite.T(), err)

	paths, _ := acc.Get("paths")
	items, err := paths.Sequence()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"a", "b", "c", "a", "d", "d"}, items)
	assert.Len(suite.T(), items, 6)
}

func (suite *treeconfSuite) TestAggregate_ScalarPrecedence() {
	near := suite.fragment("/a/b", `token = "xyz"`)
	far := suite.fragment("/a", `token = "abc"`)

	testCases := []struct {
		policy     values.Precedence
		expected   string
		provenance []string
	}{
		{values.NearestWins, "xyz", []string{near}},
		{values.FarthestWins, "abc", []string{far}},
	}

	for _, tc := range testCases {
		suite.Run(tc.policy.String(), func() {
			r := suite.resolver(WithPrecedence(tc.policy))
			assert.Equal(suite.T(), tc.policy, r.Precedence())

			acc, err := r.Aggregate("/a/b/c")
			require.NoError(suite.T(), err)

			token, _ := acc.Get("token")
			text, _ := token.Scalar()
			assert.Equal(suite.T(), tc.expected, text)
			assert.Equal(suite.T(), tc.provenance, token.Provenance())
		})
	}
}

func (suite *treeconfSuite) TestAggregate_DefaultPrecedenceMatchesLookup() {
	suite.fragment("/a/b", `token = "xyz"`)
	suite.fragment("/a", `token = "abc"`)
	r := suite.resolver()

	acc, err := r.Aggregate("/a/b/c")
	require.NoError(suite.T(), err)
	looked, err := r.Lookup("/a/b/c", "token")
	require.NoError(suite.T(), err)

	aggregated, _ := acc.Get("token")
	assert.Equal(suite.T(), looked.Interface(), aggregated.Interface())
}

func (suite *treeconfSuite) TestAggregate_NestedTables() {
	suite.fragment("/a/b", "[target.x86_64-unknown-linux-gnu]\nlinker = \"clang\"\n")
	suite.fragment("/a", "[target.x86_64-unknown-linux-gnu]\nlinker = \"gcc\"\nar = \"llvm-ar\"\n")

	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), map[string]any{
		"target": map[string]any{
			"x86_64-unknown-linux-gnu": map[string]any{
				"linker": "clang",
				"ar":     "llvm-ar",
			},
		},
	}, acc.Interface())
}

func (suite *treeconfSuite) TestAggregate_TypeConflict() {
	testCases := []struct {
		name string
		near string
		far  string
	}{
		{"table nearest", "[registry]\nindex = \"x\"", `registry = "y"`},
		{"string nearest", `registry = "y"`, "[registry]\nindex = \"x\""},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.fragment("/a/b", tc.near)
			farPath := suite.fragment("/a", tc.far)

			acc, err := suite.resolver().Aggregate("/a/b/c")
			require.Error(suite.T(), err)
			assert.Nil(suite.T(), acc, "no partial result")
			assert.True(suite.T(), errors.Is(err, treeconferrors.ErrTypeMismatch))

			var tmErr *treeconferrors.TypeMismatchError
			require.True(suite.T(), errors.As(err, &tmErr))
			assert.Equal(suite.T(), "registry", tmErr.KeyPath)
			assert.Equal(suite.T(), farPath, tmErr.Path)
			assert.Contains(suite.T(), err.Error(), "couldn't aggregate configuration for /a/b/c")
		})
	}
}

func (suite *treeconfSuite) TestAggregate_ParseErrorAborts() {
	suite.fragment("/a/b/c", `token = "abc"`)
	broken := suite.fragment("/a/b", `token = `)
	suite.fragment("/a", `other = "x"`)

	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.Error(suite.T(), err)
	assert.Nil(suite.T(), acc)
	assert.True(suite.T(), errors.Is(err, treeconferrors.ErrParse))

	var parseErr *treeconferrors.ParseError
	require.True(suite.T(), errors.As(err, &parseErr))
	assert.Equal(suite.T(), broken, parseErr.Path)
	assert.Contains(suite.T(), err.Error(), "couldn't aggregate configuration")
}

func (suite *treeconfSuite) TestAggregate_UnsupportedKindAborts() {
	suite.fragment("/a", `jobs = 4`)

	_, err := suite.resolver().Aggregate("/a/b/c")
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.Is(err, treeconferrors.ErrTypeMismatch))
	assert.Contains(suite.T(), err.Error(), "/a/.treeconf/config.toml")
}

func (suite *treeconfSuite) TestAggregate_LogsMergedFragments() {
	suite.fragment("/a/b", `token = "xyz"`)
	suite.fragment("/a", `token = "abc"`)

	_, err := suite.resolver().Aggregate("/a/b/c")
	require.NoError(suite.T(), err)

	merged := suite.logs.FilterMessage("merged configuration fragment").All()
	require.Len(suite.T(), merged, 2)
	assert.Equal(suite.T(), "/a/b/.treeconf/config.toml", merged[0].ContextMap()["path"])
	assert.Equal(suite.T(), "/a/.treeconf/config.toml", merged[1].ContextMap()["path"])
}

func (suite *treeconfSuite) TestAggregate_IOErrorAborts() {
	suite.fragment("/a/b", `token = "near"`)
	far := suite.fragment("/a", `paths = ["far"]`)
	suite.unreadable(far)

	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.Error(suite.T(), err)
	assert.Nil(suite.T(), acc, "no partial result")
	assert.True(suite.T(), errors.Is(err, treeconferrors.ErrIO))

	var ioErr *treeconferrors.IOError
	require.True(suite.T(), errors.As(err, &ioErr))
	assert.Equal(suite.T(), far, ioErr.Path)
	assert.True(suite.T(), errors.Is(ioErr.Underlying(), os.ErrPermission))
	assert.Contains(suite.T(), err.Error(), "couldn't aggregate configuration for /a/b/c")
}
