package configmanager

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddFlagsFromFields registers one flag per field selector on cmd.
// Flag storage is separate from the loaded config; only flags the user set
// are applied on top of file and environment values during Load.
func (m *ConfigManager) AddFlagsFromFields(cmd *cobra.Command) {
	storage := v1alpha1.NewConfig()

	for _, selector := range m.fieldSelectors {
		fieldPtr := selector.Selector(storage)
		if fieldPtr == nil {
			continue
		}

		name := m.flagName(selector)
		if name == "" || cmd.Flags().Lookup(name) != nil {
			continue
		}

		if selector.DefaultValue != nil {
			setFieldValue(fieldPtr, selector.DefaultValue)
		}

		addFlag(cmd.Flags(), fieldPtr, name, selector.Description)
	}
}

func addFlag(flags *pflag.FlagSet, fieldPtr any, name, usage string) {
	switch ptr := fieldPtr.(type) {
	case pflag.Value:
		flags.Var(ptr, name, usage)
	case *string:
		flags.StringVar(ptr, name, *ptr, usage)
	case *int:
		flags.IntVar(ptr, name, *ptr, usage)
	case *bool:
		flags.BoolVar(ptr, name, *ptr, usage)
	case *time.Duration:
		flags.DurationVar(ptr, name, *ptr, usage)
	case *[]string:
		flags.StringSliceVar(ptr, name, *ptr, usage)
	}
}

// GenerateFlagName returns the flag name of a field of the managed config.
// The name is the field name in kebab case, e.g. ZoneSuffix becomes zone-suffix.
func (m *ConfigManager) GenerateFlagName(fieldPtr any) string {
	for _, selector := range m.fieldSelectors {
		if selector.Flag != "" && selector.Selector(m.Config) == fieldPtr {
			return selector.Flag
		}
	}

	return kebab(fieldName(m.Config, fieldPtr))
}

func (m *ConfigManager) flagName(selector FieldSelector[v1alpha1.Config]) string {
	if selector.Flag != "" {
		return selector.Flag
	}

	scratch := v1alpha1.NewConfig()

	return kebab(fieldName(scratch, selector.Selector(scratch)))
}

// fieldName finds the struct field of root that fieldPtr points to.
func fieldName(root, fieldPtr any) string {
	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return ""
	}

	return findField(reflect.ValueOf(root).Elem(), target)
}

func findField(value reflect.Value, target reflect.Value) string {
	for index := range value.NumField() {
		field := value.Field(index)
		if !field.CanAddr() {
			continue
		}

		if field.Addr().Pointer() == target.Pointer() && field.Type() == target.Type().Elem() {
			return value.Type().Field(index).Name
		}

		if field.Kind() == reflect.Struct {
			name := findField(field, target)
			if name != "" {
				return name
			}
		}
	}

	return ""
}

func kebab(name string) string {
	var builder strings.Builder

	runes := []rune(name)
	for index, r := range runes {
		if unicode.IsUpper(r) && index > 0 && !unicode.IsUpper(runes[index-1]) {
			builder.WriteByte('-')
		}

		builder.WriteRune(unicode.ToLower(r))
	}

	return builder.String()
}

type flagValueSetter interface {
	Set(value string) error
}

// setFieldValueFromFlag copies a changed flag value into the field.
func setFieldValueFromFlag(fieldPtr any, value pflag.Value) error {
	if slice, ok := value.(pflag.SliceValue); ok {
		if ptr, ok := fieldPtr.(*[]string); ok {
			*ptr = slice.GetSlice()

			return nil
		}
	}

	raw := value.String()

	switch ptr := fieldPtr.(type) {
	case flagValueSetter:
		err := ptr.Set(raw)
		if err != nil {
			return fmt.Errorf("set flag value: %w", err)
		}
	case *string:
		*ptr = raw
	case *int:
		_, err := fmt.Sscan(raw, ptr)
		if err != nil {
			return fmt.Errorf("parse int %q: %w", raw, err)
		}
	case *bool:
		*ptr = raw == "true"
	case *time.Duration:
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", raw, err)
		}

		*ptr = duration
	}

	return nil
}

// setFieldValue assigns value to the field when the types match.
func setFieldValue(fieldPtr, value any) {
	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return
	}

	source := reflect.ValueOf(value)
	if !source.IsValid() {
		return
	}

	elem := target.Elem()

	switch {
	case source.Type().AssignableTo(elem.Type()):
		elem.Set(source)
	case source.Type().ConvertibleTo(elem.Type()):
		elem.Set(source.Convert(elem.Type()))
	}
}

// isFieldEmpty reports whether the field holds its zero value.
func isFieldEmpty(fieldPtr any) bool {
	target := reflect.ValueOf(fieldPtr)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return true
	}

	return target.Elem().IsZero()
}
