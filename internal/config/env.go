package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

// applyEnv overrides every field of cfg tagged `env:"NAME"` whose variable is
// set, descending into the config sections. It returns the names it applied.
func applyEnv(cfg any) ([]string, error) {
	root := reflect.ValueOf(cfg)
	if root.Kind() != reflect.Pointer || root.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("env overrides need a struct pointer, got %T", cfg)
	}

	var applied []string
	var walk func(v reflect.Value) error
	walk = func(v reflect.Value) error {
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field, meta := v.Field(i), t.Field(i)
			if field.Kind() == reflect.Struct {
				if err := walk(field); err != nil {
					return err
				}
				continue
			}

			name := meta.Tag.Get("env")
			raw, ok := os.LookupEnv(name)
			if name == "" || !ok {
				continue
			}
			if err := assign(field, raw); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			applied = append(applied, name)
		}
		return nil
	}

	if err := walk(root.Elem()); err != nil {
		return nil, err
	}
	return applied, nil
}

// assign parses raw into a string, integer, bool or comma separated []string field
func assign(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("not an integer: %q", raw)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("not a boolean: %q", raw)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported list of %s", field.Type().Elem().Kind())
		}
		items := make([]string, 0)
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
