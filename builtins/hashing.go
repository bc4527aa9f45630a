package builtins

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"math"

	"github.com/kuiper-lang/kuiper/exec"
	"github.com/kuiper-lang/kuiper/value"
)

// Type tag bytes for the digest byte layout, matching the original
// implementation's hash_value_rec so digests are stable across ports.
const (
	tagNull   byte = 0
	tagFalse  byte = 2
	tagTrue   byte = 1
	tagNumber byte = 4
	tagString byte = 8
	tagArray  byte = 16
	tagObject byte = 32
)

func hashValueRec(h interface{ Write([]byte) (int, error) }, v value.Value) {
	switch {
	case v.IsNull():
		h.Write([]byte{tagNull})
	case v.IsBool():
		if v.AsBool() {
			h.Write([]byte{tagTrue})
		} else {
			h.Write([]byte{tagFalse})
		}
	case v.IsInt():
		h.Write([]byte{tagNumber})
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(v.AsInt()))
		h.Write(buf[:])
	case v.IsFloat():
		h.Write([]byte{tagNumber})
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v.AsFloat()))
		h.Write(buf[:])
	case v.IsString():
		h.Write([]byte{tagString})
		h.Write([]byte(v.AsString()))
	case v.IsArray():
		h.Write([]byte{tagArray})
		arr := v.AsArray()
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(arr)))
		h.Write(lenBuf[:])
		for _, e := range arr {
			hashValueRec(h, e)
		}
	case v.IsObject():
		h.Write([]byte{tagObject})
		obj := v.AsObject()
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], uint64(obj.Len()))
		h.Write(lenBuf[:])
		for _, k := range obj.Keys() {
			h.Write([]byte(k))
			val, _ := obj.Get(k)
			hashValueRec(h, val)
		}
	}
}

func registerHashing() {
	register(&exec.BuiltinEntry{
		Name: "digest", MinArity: 1, MaxArity: exec.Unbounded, Deterministic: true,
		Fn: func(ev exec.Evaluator, args []exec.Node, lam *exec.Lambda) (value.Value, error) {
			h := sha256.New()
			for _, a := range args {
				v, err := ev.Eval(a)
				if err != nil {
					return value.Null, err
				}
				hashValueRec(h, v)
			}
			return value.String(base64.StdEncoding.EncodeToString(h.Sum(nil))), nil
		},
	})
}
