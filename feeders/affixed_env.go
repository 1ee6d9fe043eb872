package feeders

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/golobby/cast"
)

// AffixedEnvFeeder is a feeder that reads environment variables with a prefix and/or suffix.
// A field tagged `env:"LOG_LEVEL"` is read from PREFIX_LOG_LEVEL_SUFFIX.
type AffixedEnvFeeder struct {
	Prefix string
	Suffix string
}

// NewAffixedEnvFeeder creates a new AffixedEnvFeeder with the specified prefix and suffix
func NewAffixedEnvFeeder(prefix, suffix string) AffixedEnvFeeder {
	return AffixedEnvFeeder{Prefix: prefix, Suffix: suffix}
}

// Feed reads environment variables and populates the provided structure.
// Unset or empty variables leave the field as it was.
func (f AffixedEnvFeeder) Feed(structure interface{}) error {
	if err := checkStructPointer(structure); err != nil {
		return ErrEnvInvalidStructure
	}
	if f.Prefix == "" && f.Suffix == "" {
		return ErrEnvEmptyPrefixAndSuffix
	}
	return f.fillStruct(reflect.ValueOf(structure).Elem())
}

// EnvName returns the variable name consulted for a field tagged tag.
func (f AffixedEnvFeeder) EnvName(tag string) string {
	name := strings.ToUpper(tag)
	if f.Prefix != "" {
		name = strings.TrimSuffix(strings.ToUpper(f.Prefix), "_") + "_" + name
	}
	if f.Suffix != "" {
		name = name + "_" + strings.TrimPrefix(strings.ToUpper(f.Suffix), "_")
	}
	return name
}

func (f AffixedEnvFeeder) fillStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		fieldType := rt.Field(i)

		switch field.Kind() {
		case reflect.Struct:
			if err := f.fillStruct(field); err != nil {
				return err
			}
			continue
		case reflect.Pointer:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				if err := f.fillStruct(field.Elem()); err != nil {
					return err
				}
				continue
			}
		}

		tag, ok := fieldType.Tag.Lookup("env")
		if !ok || tag == "" || tag == "-" {
			continue
		}
		value := os.Getenv(f.EnvName(tag))
		if value == "" {
			continue
		}
		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("error in field '%s': %w", fieldType.Name, err)
		}
	}
	return nil
}

// setFieldValue converts and sets a field value
func setFieldValue(field reflect.Value, strValue string) error {
	if !field.CanSet() {
		return ErrEnvFieldCannotBeSet
	}

	convertedValue, err := cast.FromType(strValue, field.Type())
	if err != nil {
		// cast only knows builtin types, so named types such as
		// appshell.PanicPolicy are cast to their kind and converted back.
		base, ok := kindTypes[field.Kind()]
		if !ok || base == field.Type() {
			return fmt.Errorf("cannot convert value to type %v: %w", field.Type(), err)
		}
		if convertedValue, err = cast.FromType(strValue, base); err != nil {
			return fmt.Errorf("cannot convert value to type %v: %w", field.Type(), err)
		}
	}

	v := reflect.ValueOf(convertedValue)
	if v.Type() != field.Type() {
		if !v.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("cannot convert %v to %v", v.Type(), field.Type())
		}
		v = v.Convert(field.Type())
	}
	field.Set(v)
	return nil
}

var kindTypes = map[reflect.Kind]reflect.Type{
	reflect.String:  reflect.TypeOf(""),
	reflect.Bool:    reflect.TypeOf(false),
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
}
