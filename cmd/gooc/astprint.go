package main

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/darragh-downey/goo/ast"
)

// printUnit renders unit as an indented tree: one line per node giving its
// Kind and position, with exported struct fields recursed into. It walks
// by reflection rather than a hand-written case per node type so adding a
// new ast node never leaves the printer silently incomplete.
func printUnit(w io.Writer, unit *ast.Unit) {
	dumpValue(w, "Unit", reflect.ValueOf(unit), 0)
}

var nodeType = reflect.TypeOf((*ast.Node)(nil)).Elem()

func dumpValue(w io.Writer, label string, v reflect.Value, depth int) {
	indent := strings.Repeat("  ", depth)
	if !v.IsValid() {
		return
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			fmt.Fprintf(w, "%s%s: nil\n", indent, label)
			return
		}
		if v.Type().Implements(nodeType) || (v.Kind() == reflect.Interface && v.Elem().Type().Implements(nodeType)) {
			n := v.Interface().(ast.Node)
			fmt.Fprintf(w, "%s%s: %s @ %s\n", indent, label, n.Kind(), n.Pos())
			dumpStruct(w, reflect.Indirect(v.Elem()), depth+1)
			return
		}
		dumpValue(w, label, v.Elem(), depth)

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			fmt.Fprintf(w, "%s%s: []\n", indent, label)
			return
		}
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		for i := 0; i < v.Len(); i++ {
			dumpValue(w, fmt.Sprintf("[%d]", i), v.Index(i), depth+1)
		}

	case reflect.Struct:
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		dumpStruct(w, v, depth+1)

	default:
		fmt.Fprintf(w, "%s%s: %v\n", indent, label, v.Interface())
	}
}

// dumpStruct recurses into every exported field of an underlying struct
// value. Embedded unexported helpers (posNode, the resolved-type slot)
// are skipped since they carry no reader-facing structure of their own.
func dumpStruct(w io.Writer, v reflect.Value, depth int) {
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}
		dumpValue(w, f.Name, v.Field(i), depth)
	}
}
