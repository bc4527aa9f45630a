package builtins

import (
	"strings"

	kerrors "github.com/kuiper-lang/kuiper/errors"
	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

func stringContains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}

// clampIndex resolves a possibly-negative index (counting from the end,
// per the original implementation's slicing rule) into [0, length].
func clampIndex(i, length int) int {
	if i < 0 {
		i += length
	}
	if i < 0 {
		return 0
	}
	if i > length {
		return length
	}
	return i
}

func sliceFn(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
	base, err := ev.Eval(args[0])
	if err != nil {
		return value.Null, err
	}
	startV, err := ev.Eval(args[1])
	if err != nil {
		return value.Null, err
	}
	if !startV.IsInt() {
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "slice: start must be an integer")
	}
	switch {
	case base.IsArray():
		arr := base.AsArray()
		start := clampIndex(int(startV.AsInt()), len(arr))
		end := len(arr)
		if len(args) == 3 {
			endV, err := ev.Eval(args[2])
			if err != nil {
				return value.Null, err
			}
			if !endV.IsInt() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[2].Span(), "slice: end must be an integer")
			}
			end = clampIndex(int(endV.AsInt()), len(arr))
		}
		if start > end {
			return value.Array(nil), nil
		}
		return value.Array(append([]value.Value(nil), arr[start:end]...)), nil
	case base.IsString():
		runes := []rune(base.AsString())
		start := clampIndex(int(startV.AsInt()), len(runes))
		end := len(runes)
		if len(args) == 3 {
			endV, err := ev.Eval(args[2])
			if err != nil {
				return value.Null, err
			}
			if !endV.IsInt() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[2].Span(), "slice: end must be an integer")
			}
			end = clampIndex(int(endV.AsInt()), len(runes))
		}
		if start > end {
			return value.String(""), nil
		}
		return value.String(string(runes[start:end])), nil
	default:
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "slice: expected an array or string, got %s", base.TypeName())
	}
}

func toObjectFn(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
	base, err := ev.Eval(args[0])
	if err != nil {
		return value.Null, err
	}
	arr, err := requireArray("to_object", args[0], base)
	if err != nil {
		return value.Null, err
	}
	keyFn := args[1]
	out := value.NewObject()
	for _, e := range arr {
		keyLam, err := evalLambdaArg(ev, keyFn, e)
		if err != nil {
			return value.Null, err
		}
		if !keyLam.IsString() {
			return value.Null, kerrors.NewAt(kerrors.TypeMismatch, keyFn.Span(), "to_object: key function must return a string, got %s", keyLam.TypeName())
		}
		val := e
		if len(args) == 3 {
			val, err = evalLambdaArg(ev, args[2], e)
			if err != nil {
				return value.Null, err
			}
		}
		out.Set(keyLam.AsString(), val)
	}
	return value.Obj(out), nil
}

// evalLambdaArg evaluates a positional argument that is itself an inline
// lambda literal (map-of-array style helper args like to_object's key/value
// functions), invoking it with elem.
func evalLambdaArg(ev exec.Evaluator, n exec.Node, elem value.Value) (value.Value, error) {
	lamNode, ok := n.(*exec.Lambda)
	if !ok {
		return value.Null, kerrors.NewAt(kerrors.TypeMismatch, n.Span(), "expected a lambda argument")
	}
	return ev.CallLambda(lamNode, []value.Value{elem})
}

func selectExceptFn(keep bool) exec.BuiltinFunc {
	return func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
		base, err := ev.Eval(args[0])
		if err != nil {
			return value.Null, err
		}
		obj, err := requireObject("select/except", args[0], base)
		if err != nil {
			return value.Null, err
		}
		out := value.NewObject()
		if lamNode, ok := args[1].(*exec.Lambda); ok {
			for _, k := range obj.Keys() {
				v, _ := obj.Get(k)
				r, err := ev.CallLambda(lamNode, []value.Value{value.String(k), v})
				if err != nil {
					return value.Null, err
				}
				if r.Truthy() == keep {
					out.Set(k, v)
				}
			}
			return value.Obj(out), nil
		}
		selVal, err := ev.Eval(args[1])
		if err != nil {
			return value.Null, err
		}
		if !selVal.IsArray() {
			return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "select/except: expected a lambda or an array of key names")
		}
		wanted := map[string]bool{}
		for _, k := range selVal.AsArray() {
			if !k.IsString() {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "select/except: key array must contain strings")
			}
			wanted[k.AsString()] = true
		}
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			if wanted[k] == keep {
				out.Set(k, v)
			}
		}
		return value.Obj(out), nil
	}
}

func minMaxFn(dir int) exec.BuiltinFunc {
	return func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
		base, err := ev.Eval(args[0])
		if err != nil {
			return value.Null, err
		}
		arr, err := requireArray("min/max", args[0], base)
		if err != nil {
			return value.Null, err
		}
		if len(arr) == 0 {
			return value.Null, nil
		}
		best := arr[0]
		for _, e := range arr[1:] {
			cmp, ok := value.Compare(best, e)
			if !ok {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "min/max: elements are not comparable")
			}
			if (dir < 0 && cmp > 0) || (dir > 0 && cmp < 0) {
				best = e
			}
		}
		return best, nil
	}
}

func allAnyFn(all bool) exec.BuiltinFunc {
	return func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
		base, err := ev.Eval(args[0])
		if err != nil {
			return value.Null, err
		}
		var elems []value.Value
		switch {
		case base.IsArray():
			elems = base.AsArray()
		case base.IsObject():
			obj := base.AsObject()
			elems = make([]value.Value, 0, obj.Len())
			for _, k := range obj.Keys() {
				v, _ := obj.Get(k)
				elems = append(elems, v)
			}
		default:
			return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "all/any: expected an array or object, got %s", base.TypeName())
		}
		for _, e := range elems {
			truthy := e.Truthy()
			if lam != nil {
				r, err := ev.CallLambda(lam, []value.Value{e})
				if err != nil {
					return value.Null, err
				}
				truthy = r.Truthy()
			}
			if all && !truthy {
				return value.False, nil
			}
			if !all && truthy {
				return value.True, nil
			}
		}
		return value.Bool(all), nil
	}
}

func requireArray(fn string, node exec.Node, v value.Value) ([]value.Value, error) {
	if !v.IsArray() {
		return nil, kerrors.NewAt(kerrors.TypeMismatch, node.Span(), "%s: expected an array, got %s", fn, v.TypeName())
	}
	return v.AsArray(), nil
}

func requireObject(fn string, node exec.Node, v value.Value) (*value.Object, error) {
	if !v.IsObject() {
		return nil, kerrors.NewAt(kerrors.TypeMismatch, node.Span(), "%s: expected an object, got %s", fn, v.TypeName())
	}
	return v.AsObject(), nil
}

func callWithIndex(ev exec.Evaluator, lam *exec.Lambda, elem value.Value, idx int) (value.Value, error) {
	if lam.ParamCount >= 2 {
		return ev.CallLambda(lam, []value.Value{elem, value.Int(int64(idx))})
	}
	return ev.CallLambda(lam, []value.Value{elem})
}

func registerCollections() {
	register(&exec.BuiltinEntry{
		Name: "map", MinArity: 1, MaxArity: 1, RequiresLambda: true, LambdaMinArity: 1, LambdaMaxArity: 2,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("map", args[0], base)
			if err != nil {
				return value.Null, err
			}
			out := make([]value.Value, len(arr))
			for i, e := range arr {
				r, err := callWithIndex(ev, lam, e, i)
				if err != nil {
					return value.Null, err
				}
				out[i] = r
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "flatmap", MinArity: 1, MaxArity: 1, RequiresLambda: true, LambdaMinArity: 1, LambdaMaxArity: 2,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("flatmap", args[0], base)
			if err != nil {
				return value.Null, err
			}
			var out []value.Value
			for i, e := range arr {
				r, err := callWithIndex(ev, lam, e, i)
				if err != nil {
					return value.Null, err
				}
				if r.IsArray() {
					out = append(out, r.AsArray()...)
				} else {
					out = append(out, r)
				}
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "filter", MinArity: 1, MaxArity: 1, RequiresLambda: true, LambdaMinArity: 1, LambdaMaxArity: 2,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("filter", args[0], base)
			if err != nil {
				return value.Null, err
			}
			var out []value.Value
			for i, e := range arr {
				r, err := callWithIndex(ev, lam, e, i)
				if err != nil {
					return value.Null, err
				}
				if r.Truthy() {
					out = append(out, e)
				}
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "reduce", MinArity: 1, MaxArity: 2, RequiresLambda: true, LambdaMinArity: 2, LambdaMaxArity: 2,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("reduce", args[0], base)
			if err != nil {
				return value.Null, err
			}
			var acc value.Value
			start := 0
			if len(args) == 2 {
				acc, err = ev.Eval(args[1])
				if err != nil {
					return value.Null, err
				}
			} else {
				if len(arr) == 0 {
					return value.Null, nil
				}
				acc = arr[0]
				start = 1
			}
			for i := start; i < len(arr); i++ {
				acc, err = ev.CallLambda(lam, []value.Value{acc, arr[i]})
				if err != nil {
					return value.Null, err
				}
			}
			return acc, nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "zip", MinArity: 2, MaxArity: exec.Unbounded, RequiresLambda: true, LambdaMinArity: 1, LambdaMaxArity: 64,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			arrays := make([][]value.Value, len(args))
			maxLen := 0
			for i, a := range args {
				v, err := ev.Eval(a)
				if err != nil {
					return value.Null, err
				}
				arr, err := requireArray("zip", a, v)
				if err != nil {
					return value.Null, err
				}
				arrays[i] = arr
				if len(arr) > maxLen {
					maxLen = len(arr)
				}
			}
			out := make([]value.Value, maxLen)
			for i := 0; i < maxLen; i++ {
				callArgs := make([]value.Value, len(arrays))
				for j, arr := range arrays {
					if i < len(arr) {
						callArgs[j] = arr[i]
					} else {
						callArgs[j] = value.Null
					}
				}
				r, err := ev.CallLambda(lam, callArgs)
				if err != nil {
					return value.Null, err
				}
				out[i] = r
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "chunk", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("chunk", args[0], base)
			if err != nil {
				return value.Null, err
			}
			sizeV, err := ev.Eval(args[1])
			if err != nil {
				return value.Null, err
			}
			if !sizeV.IsInt() || sizeV.AsInt() <= 0 {
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "chunk: size must be a positive integer")
			}
			size := int(sizeV.AsInt())
			var out []value.Value
			for i := 0; i < len(arr); i += size {
				end := i + size
				if end > len(arr) {
					end = len(arr)
				}
				out = append(out, value.Array(append([]value.Value(nil), arr[i:end]...)))
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "slice", MinArity: 2, MaxArity: 3, Deterministic: true,
		Fn: sliceFn,
	})

	register(&exec.BuiltinEntry{
		Name: "tail", MinArity: 1, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("tail", args[0], base)
			if err != nil {
				return value.Null, err
			}
			n := 1
			if len(args) == 2 {
				nv, err := ev.Eval(args[1])
				if err != nil {
					return value.Null, err
				}
				if !nv.IsInt() {
					return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "tail: count must be an integer")
				}
				n = int(nv.AsInt())
			}
			if n < 0 {
				n = 0
			}
			if n > len(arr) {
				n = len(arr)
			}
			return value.Array(append([]value.Value(nil), arr[len(arr)-n:]...)), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "pairs", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			obj, err := requireObject("pairs", args[0], v)
			if err != nil {
				return value.Null, err
			}
			out := make([]value.Value, 0, obj.Len())
			for _, k := range obj.Keys() {
				val, _ := obj.Get(k)
				pair := value.NewObject()
				pair.Set("key", value.String(k))
				pair.Set("value", val)
				out = append(out, value.Obj(pair))
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "to_object", MinArity: 2, MaxArity: 3, RequiresLambda: false, Deterministic: true,
		Fn: toObjectFn,
	})

	register(&exec.BuiltinEntry{
		Name: "distinct_by", MinArity: 1, MaxArity: 1, RequiresLambda: true, LambdaMinArity: 1, LambdaMaxArity: 1,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("distinct_by", args[0], base)
			if err != nil {
				return value.Null, err
			}
			var out []value.Value
			var seen []value.Value
			for _, e := range arr {
				key, err := ev.CallLambda(lam, []value.Value{e})
				if err != nil {
					return value.Null, err
				}
				dup := false
				for _, s := range seen {
					if value.Equal(s, key) {
						dup = true
						break
					}
				}
				if !dup {
					seen = append(seen, key)
					out = append(out, e)
				}
			}
			return value.Array(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "select", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: selectExceptFn(true),
	})
	register(&exec.BuiltinEntry{
		Name: "except", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: selectExceptFn(false),
	})

	register(&exec.BuiltinEntry{
		Name: "join", MinArity: 2, MaxArity: exec.Unbounded, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			out := value.NewObject()
			for _, a := range args {
				v, err := ev.Eval(a)
				if err != nil {
					return value.Null, err
				}
				obj, err := requireObject("join", a, v)
				if err != nil {
					return value.Null, err
				}
				for _, k := range obj.Keys() {
					val, _ := obj.Get(k)
					out.Set(k, val)
				}
			}
			return value.Obj(out), nil
		},
	})

	register(&exec.BuiltinEntry{
		Name: "length", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			v, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			switch {
			case v.IsArray():
				return value.Int(int64(len(v.AsArray()))), nil
			case v.IsString():
				return value.Int(int64(len([]rune(v.AsString())))), nil
			case v.IsObject():
				return value.Int(int64(v.AsObject().Len())), nil
			default:
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "length: expected an array, string, or object, got %s", v.TypeName())
			}
		},
	})

	register(&exec.BuiltinEntry{
		Name: "sum", MinArity: 1, MaxArity: 1, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			base, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			arr, err := requireArray("sum", args[0], base)
			if err != nil {
				return value.Null, err
			}
			allInt := true
			var isum int64
			var fsum float64
			for _, e := range arr {
				if !e.IsNumber() {
					return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "sum: expected numeric array elements, got %s", e.TypeName())
				}
				if e.IsFloat() {
					allInt = false
				}
				fsum += e.Float64()
				if e.IsInt() {
					isum += e.AsInt()
				}
			}
			if allInt {
				return value.Int(isum), nil
			}
			return value.Float(fsum), nil
		},
	})

	register(&exec.BuiltinEntry{Name: "min", MinArity: 1, MaxArity: 1, Deterministic: true, Fn: minMaxFn(-1)})
	register(&exec.BuiltinEntry{Name: "max", MinArity: 1, MaxArity: 1, Deterministic: true, Fn: minMaxFn(1)})

	register(&exec.BuiltinEntry{
		Name: "all", MinArity: 1, MaxArity: 1, LambdaOptional: true, LambdaMinArity: 1, LambdaMaxArity: 1,
		Fn: allAnyFn(true),
	})
	register(&exec.BuiltinEntry{
		Name: "any", MinArity: 1, MaxArity: 1, LambdaOptional: true, LambdaMinArity: 1, LambdaMaxArity: 1,
		Fn: allAnyFn(false),
	})

	register(&exec.BuiltinEntry{
		Name: "contains", MinArity: 2, MaxArity: 2, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			container, err := ev.Eval(args[0])
			if err != nil {
				return value.Null, err
			}
			needle, err := ev.Eval(args[1])
			if err != nil {
				return value.Null, err
			}
			switch {
			case container.IsArray():
				for _, e := range container.AsArray() {
					if value.Equal(e, needle) {
						return value.True, nil
					}
				}
				return value.False, nil
			case container.IsString():
				if !needle.IsString() {
					return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "contains: expected a string needle")
				}
				return value.Bool(stringContains(container.AsString(), needle.AsString())), nil
			case container.IsObject():
				if !needle.IsString() {
					return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[1].Span(), "contains: expected a string key")
				}
				_, ok := container.AsObject().Get(needle.AsString())
				return value.Bool(ok), nil
			default:
				return value.Null, kerrors.NewAt(kerrors.TypeMismatch, args[0].Span(), "contains: expected an array, string, or object, got %s", container.TypeName())
			}
		},
	})
}
