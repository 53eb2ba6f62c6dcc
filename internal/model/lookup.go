package model

import (
	"reflect"
	"sort"
	"sync"
)

var (
	valueType = reflect.TypeOf(Value{})

	fieldIndexMu sync.RWMutex
	fieldIndex   = make(map[reflect.Type]map[string]int)
)

// Lookup returns the attribute stored under a spec key. The record-level keys
// release_date and model_name are served from the device itself.
func Lookup(d Device, key string) Value {
	switch key {
	case "release_date":
		return Text(d.ReleaseDate)
	case "model_name":
		return Text(d.Name)
	}
	return LookupSpecs(d.Specs, key)
}

// LookupSpecs returns the attribute of a variant stored under a spec key
func LookupSpecs(s Specs, key string) Value {
	if s == nil {
		return Value{}
	}
	rv := reflect.ValueOf(s)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return Value{}
		}
		rv = rv.Elem()
	}

	idx, ok := fieldsOf(rv.Type())[key]
	if !ok {
		return Value{}
	}

	f := rv.Field(idx)
	switch {
	case f.Type() == valueType:
		return f.Interface().(Value)
	case f.Kind() == reflect.Ptr:
		if f.IsNil() {
			return Value{}
		}
		return fromKind(f.Elem())
	default:
		return fromKind(f)
	}
}

// Keys lists the spec keys a variant exposes, sorted
func Keys(s Specs) []string {
	if s == nil {
		return nil
	}
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := fieldsOf(t)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fromKind(f reflect.Value) Value {
	switch f.Kind() {
	case reflect.String:
		return Text(f.String())
	case reflect.Float32, reflect.Float64:
		return Number(f.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(f.Int()))
	default:
		return Value{}
	}
}

// fieldsOf maps spec tags to field indexes, cached per type
func fieldsOf(t reflect.Type) map[string]int {
	fieldIndexMu.RLock()
	fields, ok := fieldIndex[t]
	fieldIndexMu.RUnlock()
	if ok {
		return fields
	}

	fields = make(map[string]int)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			if tag := t.Field(i).Tag.Get("spec"); tag != "" {
				fields[tag] = i
			}
		}
	}

	fieldIndexMu.Lock()
	fieldIndex[t] = fields
	fieldIndexMu.Unlock()
	return fields
}
