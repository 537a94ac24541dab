package common

import (
	"reflect"
	"runtime"
)

// ReflectFunctionName returns the fully-qualified name of a function,
// eg. "github.com/sams96/rgeo.Countries110". The rgeo dataset loaders
// are plain funcs; their names are the only stable ids they carry.
func ReflectFunctionName(i interface{}) string {
	return runtime.FuncForPC(reflect.ValueOf(i).Pointer()).Name()
}
