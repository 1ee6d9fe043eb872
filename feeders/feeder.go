// Package feeders provides configuration feeders that populate appshell
// configuration from YAML files, TOML files and environment variables.
package feeders

import (
	"reflect"
)

func checkStructPointer(structure interface{}) error {
	t := reflect.TypeOf(structure)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Struct {
		return ErrInvalidStructureTarget
	}
	if reflect.ValueOf(structure).IsNil() {
		return ErrInvalidStructureTarget
	}
	return nil
}
