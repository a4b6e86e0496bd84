// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package bind is the boundary between the registry and the pipeline engine.
// It creates operator instances and configures them with validated
// parameter values.
package bind

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/registry"
	"github.com/specialistvlad/opgrid/internal/signature"
	"github.com/specialistvlad/opgrid/internal/validate"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var (
	contextValueType = reflect.TypeFor[context.Context]()
	ctyValueType     = reflect.TypeFor[cty.Value]()
)

// Instantiate returns a fresh, unconfigured instance of a registered class
// together with its descriptor.
func Instantiate(reg *registry.Registry, partition descriptor.Partition, name string) (any, descriptor.Operator, error) {
	desc, class, err := reg.Lookup(partition, name)
	if err != nil {
		return nil, descriptor.Operator{}, err
	}
	if class.New == nil {
		return nil, descriptor.Operator{}, fmt.Errorf("%s '%s' has no constructor", desc.Kind, name)
	}
	return class.New(), desc, nil
}

// Configure validates values against the declared parameters of the named
// operator and passes the resolved values to the instance's Configure
// method. Defaults are applied to omitted parameters. Any ConstraintViolation
// is returned before Configure is called.
func Configure(ctx context.Context, reg *registry.Registry, partition descriptor.Partition, name string, instance any, values map[string]cty.Value) error {
	logger := ctxlog.FromContext(ctx)

	desc, class, err := reg.Lookup(partition, name)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(instance)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.Type().Elem() != class.Type {
		return fmt.Errorf("instance of %T cannot be configured as '%s' (class %s)", instance, name, class.Name())
	}

	resolved, err := validate.Parameters(desc.Parameters, values)
	if err != nil {
		return err
	}

	method := rv.MethodByName("Configure")
	if !method.IsValid() {
		if len(resolved) > 0 {
			return fmt.Errorf("'%s' takes parameters but has no Configure method", name)
		}
		return nil
	}

	sig, err := signature.Of(class.Type, reg.Types())
	if err != nil {
		return err
	}
	args := []reflect.Value{reflect.ValueOf(ctx)}
	if m := sig.Configure; m != nil && m.Arg != nil {
		params, err := decodeParams(m, resolved)
		if err != nil {
			return fmt.Errorf("failed to decode parameters of '%s': %w", name, err)
		}
		if !m.ArgPointer {
			params = params.Elem()
		}
		args = append(args, params)
	}
	if method.Type().NumIn() != len(args) || method.Type().In(0) != contextValueType {
		return fmt.Errorf("'%s' has an unsupported Configure method %s", name, method.Type())
	}

	logger.Debug("Configuring operator.", "name", name, "parameters", len(resolved))
	out := method.Call(args)
	if errV := out[len(out)-1]; !errV.IsNil() {
		return fmt.Errorf("failed to configure '%s': %w", name, errV.Interface().(error))
	}
	return nil
}

// decodeParams fills a new parameter struct from resolved values. Fields of
// type cty.Value receive the value unchanged; every other field is decoded
// through gocty after converting the value to the field's implied type.
func decodeParams(m *signature.Method, values map[string]cty.Value) (reflect.Value, error) {
	ptr := reflect.New(m.Arg)
	st := ptr.Elem()
	for _, f := range m.Args {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		field := st.FieldByIndex(f.Index)
		if err := decodeField(field, v); err != nil {
			return reflect.Value{}, fmt.Errorf("parameter '%s': %w", f.Name, err)
		}
	}
	return ptr, nil
}

func decodeField(field reflect.Value, v cty.Value) error {
	if field.Type() == ctyValueType {
		field.Set(reflect.ValueOf(v))
		return nil
	}
	target := field.Addr().Interface()
	want, err := gocty.ImpliedType(target)
	if err != nil {
		return err
	}
	converted, err := convert.Convert(v, want)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, target)
}
