package utils

import (
	"reflect"
	"strings"
)

// GetFields lists the exported fields of a struct value or pointer.
func GetFields(t any) []reflect.StructField {
	typeOf := reflect.TypeOf(t)
	if typeOf.Kind() == reflect.Pointer {
		typeOf = typeOf.Elem()
	}
	var result []reflect.StructField
	for i := 0; i < typeOf.NumField(); i++ {
		if field := typeOf.Field(i); field.IsExported() {
			result = append(result, field)
		}
	}
	return result
}

// ParquetTagToKeyValue splits a parquet struct tag such as
// "name=id, type=INT32" into its properties. Entries without '=' are skipped.
func ParquetTagToKeyValue(tag string) map[string]string {
	result := make(map[string]string)
	for _, entry := range strings.Split(tag, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(entry), "=")
		if !found {
			continue
		}
		result[key] = value
	}
	return result
}

// ColumnNames returns the parquet column name of every field, falling back
// to the Go field name when the tag has none.
func ColumnNames(fields []reflect.StructField) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		name, ok := ParquetTagToKeyValue(field.Tag.Get("parquet"))["name"]
		if !ok || name == "" {
			name = field.Name
		}
		names = append(names, name)
	}
	return names
}
