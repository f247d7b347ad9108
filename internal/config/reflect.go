package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// ConfigField represents metadata about a config field extracted from struct tags
type ConfigField struct {
	Key      string // e.g., "display.page_size"
	Default  string // default value as string
	Desc     string // description for help text
	Env      string // environment override, e.g. GRIDVIEW_PAGE_SIZE
	Min      int    // minimum value for int fields (0 = no limit)
	Max      int    // maximum value for int fields (0 = no limit)
	Type     string // "string" or "int"
	Category string // e.g., "display", "export"
}

var (
	fieldCache     []ConfigField
	fieldCacheOnce sync.Once
)

// getConfigFields extracts all config fields from GlobalConfig using reflection
func getConfigFields() []ConfigField {
	fieldCacheOnce.Do(func() {
		var fields []ConfigField
		cfg := &GlobalConfig{}
		extractFields(reflect.TypeOf(cfg).Elem(), &fields)

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})
		fieldCache = fields
	})
	return fieldCache
}

// extractFields recursively extracts config fields from a struct type
func extractFields(t reflect.Type, fields *[]ConfigField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		configKey := field.Tag.Get("config")
		if configKey == "" {
			if field.Type.Kind() == reflect.Struct && field.Tag.Get("toml") != "" {
				extractFields(field.Type, fields)
			}
			continue
		}

		cf := ConfigField{
			Key:      configKey,
			Default:  field.Tag.Get("default"),
			Desc:     field.Tag.Get("desc"),
			Env:      field.Tag.Get("env"),
			Category: strings.Split(configKey, ".")[0],
		}
		if minStr := field.Tag.Get("min"); minStr != "" {
			cf.Min, _ = strconv.Atoi(minStr)
		}
		if maxStr := field.Tag.Get("max"); maxStr != "" {
			cf.Max, _ = strconv.Atoi(maxStr)
		}

		switch field.Type.Kind() {
		case reflect.Int:
			cf.Type = "int"
		case reflect.String:
			cf.Type = "string"
		}

		*fields = append(*fields, cf)
	}
}

// findField finds a config field by key
func findField(key string) *ConfigField {
	key = normalizeKey(key)
	for _, f := range getConfigFields() {
		if f.Key == key {
			return &f
		}
	}
	return nil
}

// normalizeKey handles key aliases
func normalizeKey(key string) string {
	aliases := map[string]string{
		"display.pagesize": "display.page_size",
		"display.colwidth": "display.col_width",
		"display.nocolor":  "display.no_color",
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if normalized, ok := aliases[key]; ok {
		return normalized
	}
	return key
}

// lookupField navigates to the struct field tagged with key.
func lookupField(cfg *GlobalConfig, key string) (reflect.Value, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	var nestedValue reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == parts[0] {
			nestedValue = v.Field(i)
			break
		}
	}
	if !nestedValue.IsValid() || nestedValue.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	nestedType := nestedValue.Type()
	for i := 0; i < nestedType.NumField(); i++ {
		if nestedType.Field(i).Tag.Get("config") == key {
			return nestedValue.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// getFieldValue gets a field value from the config using reflection
func getFieldValue(cfg *GlobalConfig, key string) (string, bool) {
	fieldValue, ok := lookupField(cfg, normalizeKey(key))
	if !ok {
		return "", false
	}
	switch fieldValue.Kind() {
	case reflect.String:
		return fieldValue.String(), true
	case reflect.Int:
		return strconv.FormatInt(fieldValue.Int(), 10), true
	}
	return "", false
}

// setFieldValue sets a field value on the config using reflection
func setFieldValue(cfg *GlobalConfig, key, value string) error {
	key = normalizeKey(key)

	field := findField(key)
	if field == nil {
		return fmt.Errorf("unknown config key: %s", key)
	}

	fieldValue, ok := lookupField(cfg, key)
	if !ok {
		return fmt.Errorf("field not found: %s", key)
	}

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(value)
		return nil

	case reflect.Int:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if field.Min != 0 && intVal < field.Min {
			return fmt.Errorf("value %d is below minimum %d", intVal, field.Min)
		}
		if field.Max != 0 && intVal > field.Max {
			return fmt.Errorf("value %d exceeds maximum %d", intVal, field.Max)
		}
		fieldValue.SetInt(int64(intVal))
		return nil
	}

	return fmt.Errorf("unsupported field type for %s", key)
}

// ListKeys returns all available global config keys
func ListKeys() []string {
	fields := getConfigFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// GetFieldsByCategory returns config fields grouped by category
func GetFieldsByCategory() map[string][]ConfigField {
	result := make(map[string][]ConfigField)
	for _, f := range getConfigFields() {
		result[f.Category] = append(result[f.Category], f)
	}
	return result
}

// GenerateHelpText generates help text for the config options
func GenerateHelpText() string {
	var sb strings.Builder

	byCategory := GetFieldsByCategory()

	categories := []struct {
		key   string
		title string
	}{
		{"display", "Display"},
		{"export", "Export"},
		{"log", "Logging"},
		{"db", "Database (gridview sql)"},
	}

	for _, cat := range categories {
		fields, ok := byCategory[cat.key]
		if !ok || len(fields) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("  %s:\n", cat.title))
		for _, f := range fields {
			defaultStr := ""
			if f.Default != "" {
				defaultStr = fmt.Sprintf(" (default: %s)", f.Default)
			}
			sb.WriteString(fmt.Sprintf("    %-22s %s%s\n", f.Key, f.Desc, defaultStr))
			if f.Env != "" {
				sb.WriteString(fmt.Sprintf("    %-22s env: %s\n", "", f.Env))
			}
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
