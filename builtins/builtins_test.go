// The builtin catalog is exercised end-to-end through the public kuiper
// package rather than by constructing exec.Node fixtures by hand: a
// compiled expression is the only way most builtins are ever actually
// invoked, and it verifies arity checking and lambda resolution alongside
// each function's behavior.
package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuiper-lang/kuiper/kuiper"
)

func run(t *testing.T, source string, inputNames []string, inputsJSON []string) string {
	t.Helper()
	expr, err := kuiper.Compile(source, inputNames, kuiper.Options{})
	require.NoError(t, err, "compile %q", source)
	out, err := expr.RunJSON(inputsJSON)
	require.NoError(t, err, "run %q", source)
	return out
}

func TestMapFilterReduce(t *testing.T) {
	assert.Equal(t, "[2,4,6]", run(t, "[1,2,3].map(a => a * 2)", nil, nil))
	assert.Equal(t, "[2,4]", run(t, "[1,2,3,4].filter(a => a % 2 == 0)", nil, nil))
	assert.Equal(t, "10", run(t, "[1,2,3,4].reduce(0, (acc, a) => acc + a)", nil, nil))
}

func TestAllAny(t *testing.T) {
	assert.Equal(t, "true", run(t, "[2,4,6].all(a => a % 2 == 0)", nil, nil))
	assert.Equal(t, "false", run(t, "[2,4,5].all(a => a % 2 == 0)", nil, nil))
	assert.Equal(t, "true", run(t, "[1,3,4].any(a => a % 2 == 0)", nil, nil))
	assert.Equal(t, "false", run(t, "[1,3,5].any(a => a % 2 == 0)", nil, nil))
}

func TestAllAnyOverObject(t *testing.T) {
	assert.Equal(t, "true", run(t, "all({a: 2, b: 4})", nil, nil))
	assert.Equal(t, "false", run(t, "all({a: true, b: false})", nil, nil))
	assert.Equal(t, "true", run(t, "any({a: false, b: 1})", nil, nil))
	assert.Equal(t, "false", run(t, "any({a: false, b: 0})", nil, nil))
}

func TestStringBuiltins(t *testing.T) {
	assert.Equal(t, `"HELLO"`, run(t, `upper("hello")`, nil, nil))
	assert.Equal(t, `"hello"`, run(t, `lower("HELLO")`, nil, nil))
	assert.Equal(t, `["a","b","c"]`, run(t, `split("a,b,c", ",")`, nil, nil))
	assert.Equal(t, `"a-b-c"`, run(t, `string_join(["a","b","c"], "-")`, nil, nil))
	assert.Equal(t, "true", run(t, `"hello world".contains("wor")`, nil, nil))
}

func TestConversions(t *testing.T) {
	assert.Equal(t, "42", run(t, `int("42")`, nil, nil))
	assert.Equal(t, "3.5", run(t, `float("3.5")`, nil, nil))
	assert.Equal(t, `"3"`, run(t, `string(3)`, nil, nil))
	assert.Equal(t, "-1", run(t, `try_int("not a number", -1)`, nil, nil))
}

func TestControlBuiltins(t *testing.T) {
	assert.Equal(t, "3", run(t, `case("foo", "bar", 1, "baz", 2, "foo", 3)`, nil, nil))
	assert.Equal(t, "null", run(t, `case("nope", "bar", 1, "baz", 2, "foo", 3)`, nil, nil))
	assert.Equal(t, "4", run(t, `case("nope", "bar", 1, "baz", 2, "foo", 3, 4)`, nil, nil))
	assert.Equal(t, "5", run(t, `coalesce(null, null, 5)`, nil, nil))
	assert.Equal(t, "0", run(t, `if_value(null, v => v + 1, 0)`, nil, nil))
	assert.Equal(t, "6", run(t, `if_value(5, v => v + 1, 0)`, nil, nil))
}

func TestRegexBuiltins(t *testing.T) {
	assert.Equal(t, "true", run(t, `regex_is_match("12345", "^[0-9]+$")`, nil, nil))
	assert.Equal(t, "false", run(t, `regex_is_match("abc", "^[0-9]+$")`, nil, nil))
	assert.Equal(t, `"12345"`, run(t, `regex_first_match("abc12345def", "[0-9]+")`, nil, nil))
}

func TestRegexNamedCaptureGroupSyntax(t *testing.T) {
	// The `(?<name>` syntax is rewritten to `(?P<name>` before being handed
	// to regexp.Compile, since RE2 only accepts the latter.
	out := run(t, `regex_first_captures("2024-06", "(?<year>[0-9]\{4\})-(?<month>[0-9]\{2\})")`, nil, nil)
	assert.Contains(t, out, `"year":"2024"`)
	assert.Contains(t, out, `"month":"06"`)
}

func TestHashDigestIsStableAndDeterministic(t *testing.T) {
	a := run(t, `digest("hello")`, nil, nil)
	b := run(t, `digest("hello")`, nil, nil)
	c := run(t, `digest("world")`, nil, nil)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestHashDigestMatchesReferenceByteLayout(t *testing.T) {
	out := run(t, `digest("test", 123, 321.321, [1, 2, 3], {a: "b", c: "d"})`, nil, nil)
	assert.Equal(t, `"iVGAE6wehaUtbh2VF98pAlI1akTiRxB88dflW9xUGaM="`, out)
}

func TestHashDigestIntAndFloatDiffer(t *testing.T) {
	assert.NotEqual(t, run(t, `digest(3)`, nil, nil), run(t, `digest(3.0)`, nil, nil))
}

func TestJSONBuiltins(t *testing.T) {
	assert.Equal(t, "42", run(t, `parse_json("42")`, nil, nil))
	assert.Equal(t, "1", run(t, `parse_json("\{\"a\":1\}").a`, nil, nil))
}

func TestCollectionBuiltins(t *testing.T) {
	assert.Equal(t, "3", run(t, `length([1,2,3])`, nil, nil))
	assert.Equal(t, "6", run(t, `sum([1,2,3])`, nil, nil))
	assert.Equal(t, "1", run(t, `min([3,1,2])`, nil, nil))
	assert.Equal(t, "3", run(t, `max([3,1,2])`, nil, nil))
	assert.Equal(t, "true", run(t, `contains([1,2,3], 2)`, nil, nil))
	assert.Equal(t, `[[1,2],[3,4]]`, run(t, `chunk([1,2,3,4], 2)`, nil, nil))
}
