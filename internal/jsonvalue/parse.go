package jsonvalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// ErrInvalidJSON is returned by Parse when the input is not a single
// well-formed JSON value.
var ErrInvalidJSON = errors.New("invalid JSON")

// Parse decodes exactly one JSON value from data.
//
// The input is validated up front with the strict RFC 8259 checker from
// encoding/json. The tree is then built with a jsoniter iterator, which
// walks objects field by field and so keeps member order.
func Parse(data []byte) (Value, error) {
	if !json.Valid(data) {
		return Value{}, ErrInvalidJSON
	}

	iter := jsoniter.ConfigDefault.BorrowIterator(data)
	defer jsoniter.ConfigDefault.ReturnIterator(iter)

	v := read(iter)
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, iter.Error)
	}
	return v, nil
}

func read(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return NullValue()
	case jsoniter.BoolValue:
		return BoolValue(iter.ReadBool())
	case jsoniter.NumberValue:
		return NumberValue(string(iter.ReadNumber()))
	case jsoniter.StringValue:
		return StringValue(iter.ReadString())
	case jsoniter.ArrayValue:
		elems := []Value{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			elems = append(elems, read(it))
			return it.Error == nil
		})
		return ArrayValue(elems...)
	case jsoniter.ObjectValue:
		members := []Member{}
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			members = append(members, Member{Key: key, Value: read(it)})
			return it.Error == nil
		})
		return ObjectValue(members...)
	default:
		iter.ReportError("read", "unexpected token")
		return Value{}
	}
}
