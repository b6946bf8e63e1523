package treeconf

import (
	"reflect"
	"time"

	"github.com/leodido/treeconf/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type targetSection struct {
	Linker string `toml:"linker"`
	Ar     string `toml:"ar"`
}

type buildSection struct {
	Jobs       int               `toml:"jobs"`
	Timeout    time.Duration     `toml:"timeout"`
	LogLevel   zapcore.Level     `toml:"loglevel"`
	Precedence values.Precedence `toml:"precedence"`
	Features   []string          `toml:"features"`
	Ports      []int             `toml:"ports"`
	Rustflags  []string          `toml:"rustflags"`
}

func (suite *treeconfSuite) TestDecode_TargetSection() {
	suite.fragment("/a/b", "[target.x86_64-unknown-linux-gnu]\nlinker = \"clang\"\n")
	suite.fragment("/a", "[target.x86_64-unknown-linux-gnu]\nlinker = \"gcc\"\nar = \"llvm-ar\"\n")

	acc, err := suite.resolver().Aggregate("/a/b/c")
	require.NoError(suite.T(), err)

	targets, ok := acc.Get("target")
	require.True(suite.T(), ok)
	triple, ok := targets.Get("x86_64-unknown-linux-gnu")
	require.True(suite.T(), ok)

	var section targetSection
	require.NoError(suite.T(), Decode(triple, &section))
	assert.Equal(suite.T(), targetSection{Linker: "clang", Ar: "llvm-ar"}, section)
}

func (suite *treeconfSuite) TestDecode_WeaklyTypedScalars() {
	suite.fragment("/a", `
[build]
jobs = "4"
timeout = "90s"
loglevel = "debug"
precedence = "farthest"
features = "a,b"
ports = "80, 443"
rustflags = ["-C", "opt-level=3"]
`)

	build, err := suite.resolver().Lookup("/a/b/c", "build")
	require.NoError(suite.T(), err)

	var section buildSection
	require.NoError(suite.T(), Decode(build, &section))
	assert.Equal(suite.T(), buildSection{
		Jobs:       4,
		Timeout:    90 * time.Second,
		LogLevel:   zapcore.DebugLevel,
		Precedence: values.FarthestWins,
		Features:   []string{"a", "b"},
		Ports:      []int{80, 443},
		Rustflags:  []string{"-C", "opt-level=3"},
	}, section)
}

func (suite *treeconfSuite) TestDecode_Errors() {
	var section buildSection

	err := Decode(nil, &section)
	assert.Error(suite.T(), err)

	err = Decode(values.NewMapping(map[string]*values.Node{
		"loglevel": values.NewScalar("loud", "/a"),
	}), &section)
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "loud")

	err = Decode(values.NewMapping(map[string]*values.Node{
		"precedence": values.NewScalar("closest", "/a"),
	}), &section)
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "nearest, farthest")
}

func (suite *treeconfSuite) TestDecodeHooks_PassThrough() {
	hook := StringToZapcoreLevelHookFunc().(func(reflect.Type, reflect.Type, any) (any, error))

	out, err := hook(reflect.TypeOf(1), reflect.TypeOf(zapcore.InfoLevel), 1)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, out, "non-string input is left untouched")

	out, err = hook(reflect.TypeOf(""), reflect.TypeOf(""), "debug")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "debug", out, "non-level target is left untouched")

	ints := StringToIntSliceHookFunc(",").(func(reflect.Type, reflect.Type, any) (any, error))
	out, err = ints(reflect.TypeOf(""), reflect.TypeOf([]int{}), "")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []int{}, out)

	_, err = ints(reflect.TypeOf(""), reflect.TypeOf([]int{}), "1,x")
	assert.ErrorContains(suite.T(), err, "position 1")
}
