package validation

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// document is the YAML shape of a schema file.
type document struct {
	Fields []fieldDecl `yaml:"fields"`
}

type fieldDecl struct {
	Name  string     `yaml:"name"`
	Rules []ruleDecl `yaml:"rules"`
}

// ruleDecl accepts either a bare rule string or a {rule, message} mapping.
type ruleDecl struct {
	Rule    string `yaml:"rule"`
	Message string `yaml:"message"`
}

func (d *ruleDecl) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		d.Rule = node.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "rule":
				d.Rule = val.Value
			case "message":
				d.Message = val.Value
			default:
				return fmt.Errorf("line %d: unknown rule key %q", key.Line, key.Value)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: rule must be a string or a mapping", node.Line)
}

// LoadFields decodes field declarations from YAML.
//
//	fields:
//	  - name: email
//	    rules:
//	      - email
//	      - rule: required_without:phoneNumber
//	        message: Either Email or Phone Number is required
func LoadFields(r io.Reader, now time.Time) ([]Field, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Reason: "no fields declared"}
		}
		return nil, fmt.Errorf("validation: decode schema: %w", err)
	}
	if len(doc.Fields) == 0 {
		return nil, &SchemaError{Reason: "no fields declared"}
	}

	fields := make([]Field, 0, len(doc.Fields))
	var errs []error
	for _, fd := range doc.Fields {
		f := Field{Name: fd.Name, Rules: make([]Rule, 0, len(fd.Rules))}
		for _, rd := range fd.Rules {
			rule, err := ParseRule(fd.Name, rd.Rule, rd.Message, now)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			f.Rules = append(f.Rules, rule)
		}
		fields = append(fields, f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return fields, nil
}

// LoadSchema decodes and builds a Schema from YAML.
func LoadSchema(r io.Reader, now time.Time) (*Schema, error) {
	fields, err := LoadFields(r, now)
	if err != nil {
		return nil, err
	}
	return Build(fields...)
}
