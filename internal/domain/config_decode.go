package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

// Field names accepted at each level of a project file. Keys must match
// exactly; anything else is ignored.
var (
	projectKeys = tagNames(reflect.TypeOf(rawProjectConfig{}))
	objectKeys  = tagNames(reflect.TypeOf(m.ProjectObject{}))
	scratchKeys = tagNames(reflect.TypeOf(m.ScratchConfig{}))
)

var objectListKeys = []string{"objects", "units"}

func tagNames(t reflect.Type) map[string]bool {
	names := make(map[string]bool, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names[name] = true
		}
	}

	return names
}

// decodeJSONConfig drops keys that do not match a field name exactly before
// decoding, since encoding/json folds case when matching keys.
func decodeJSONConfig(data []byte) (rawProjectConfig, keyPresence, error) {
	var (
		raw      rawProjectConfig
		presence keyPresence
		doc      map[string]json.RawMessage
	)

	if err := json.Unmarshal(data, &doc); err != nil {
		return raw, presence, err
	}

	filterJSONKeys(doc, projectKeys)

	for _, key := range objectListKeys {
		value, ok := doc[key]
		if !ok {
			continue
		}

		if isJSONNull(value) {
			return raw, presence, fmt.Errorf("%s: invalid type: null, expected a sequence", key)
		}

		objects, err := exactJSONObjects(value)
		if err != nil {
			return raw, presence, fmt.Errorf("%s: %w", key, err)
		}

		doc[key] = objects
	}

	_, presence.Objects = doc["objects"]
	_, presence.Units = doc["units"]

	filtered, err := json.Marshal(doc)
	if err != nil {
		return raw, presence, err
	}

	if err := json.Unmarshal(filtered, &raw); err != nil {
		return raw, presence, err
	}

	return raw, presence, nil
}

func exactJSONObjects(value json.RawMessage) (json.RawMessage, error) {
	var objects []map[string]json.RawMessage
	if err := json.Unmarshal(value, &objects); err != nil {
		return nil, err
	}

	for _, obj := range objects {
		filterJSONKeys(obj, objectKeys)

		scratch, ok := obj["scratch"]
		if !ok || isJSONNull(scratch) {
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(scratch, &fields); err != nil {
			return nil, fmt.Errorf("scratch: %w", err)
		}

		filterJSONKeys(fields, scratchKeys)

		encoded, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}

		obj["scratch"] = encoded
	}

	return json.Marshal(objects)
}

func filterJSONKeys(fields map[string]json.RawMessage, allowed map[string]bool) {
	for key := range fields {
		if !allowed[key] {
			delete(fields, key)
		}
	}
}

func isJSONNull(value json.RawMessage) bool {
	return strings.TrimSpace(string(value)) == "null"
}

// decodeYAMLConfig decodes through a node tree so that scalars of the wrong
// kind are rejected instead of being coerced into strings.
func decodeYAMLConfig(data []byte) (rawProjectConfig, keyPresence, error) {
	var (
		raw      rawProjectConfig
		presence keyPresence
		doc      yaml.Node
	)

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return raw, presence, err
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return raw, presence, nil
	}

	root := resolveYAMLAlias(doc.Content[0])
	if root.Kind == yaml.MappingNode {
		if err := checkYAMLProject(root); err != nil {
			return raw, presence, err
		}

		presence.Objects = hasYAMLKey(root, "objects")
		presence.Units = hasYAMLKey(root, "units")
	}

	if err := doc.Decode(&raw); err != nil {
		return raw, presence, err
	}

	return raw, presence, nil
}

func checkYAMLProject(node *yaml.Node) error {
	return eachYAMLField(node, func(key string, value *yaml.Node) error {
		switch key {
		case "min_version", "custom_make", "target_dir", "base_dir":
			return expectYAMLString(key, value, true)
		case "watch_patterns":
			if isYAMLNull(value) || value.Kind != yaml.SequenceNode {
				return nil
			}

			for _, item := range value.Content {
				if err := expectYAMLString(key, resolveYAMLAlias(item), false); err != nil {
					return err
				}
			}
		case "objects", "units":
			return checkYAMLObjects(key, value)
		}

		return nil
	})
}

func checkYAMLObjects(key string, value *yaml.Node) error {
	if isYAMLNull(value) {
		return fmt.Errorf("line %d: %s: invalid type: null, expected a sequence", value.Line, key)
	}

	if value.Kind != yaml.SequenceNode {
		return nil
	}

	for _, item := range value.Content {
		obj := resolveYAMLAlias(item)
		if obj.Kind != yaml.MappingNode {
			continue
		}

		err := eachYAMLField(obj, func(field string, fieldValue *yaml.Node) error {
			switch field {
			case "name", "path", "target_path", "base_path":
				return expectYAMLString(field, fieldValue, true)
			case "scratch":
				if fieldValue.Kind != yaml.MappingNode {
					return nil
				}

				return eachYAMLField(fieldValue, func(scratchField string, scratchValue *yaml.Node) error {
					switch scratchField {
					case "platform", "compiler", "c_flags", "ctx_path":
						return expectYAMLString(scratchField, scratchValue, true)
					}

					return nil
				})
			}

			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func eachYAMLField(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, resolveYAMLAlias(node.Content[i+1])); err != nil {
			return err
		}
	}

	return nil
}

func hasYAMLKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return !isYAMLNull(resolveYAMLAlias(node.Content[i+1]))
		}
	}

	return false
}

// expectYAMLString accepts string scalars, and null when nullable is set.
// Unquoted dates resolve as timestamps but are still text.
func expectYAMLString(key string, value *yaml.Node, nullable bool) error {
	if value.Kind == yaml.ScalarNode {
		switch value.ShortTag() {
		case "!!str", "!!timestamp":
			return nil
		case "!!null":
			if nullable {
				return nil
			}
		}
	}

	return fmt.Errorf("line %d: %s: expected a string", value.Line, key)
}

func isYAMLNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func resolveYAMLAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}
