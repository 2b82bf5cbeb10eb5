package query

import (
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/kkkkkom/ezdxf/pkg/dxf/objects"
)

// AttributesFor resolves attribute names against the serialized
// field values of an object. Lookup is case insensitive.
func AttributesFor(o objects.Object) Attributes {
	var fields map[string]interface{}

	return func(name string) (interface{}, bool) {
		if fields == nil {
			fields = map[string]interface{}{}
			if data, err := yaml.Marshal(o); err == nil {
				_ = yaml.Unmarshal(data, &fields)
			}
		}
		if v, ok := fields[name]; ok {
			return v, true
		}
		for k, v := range fields {
			if strings.EqualFold(k, name) {
				return v, true
			}
		}
		return nil, false
	}
}

// Execute runs a query expression against all objects of a section
// and yields the matching objects in section order.
func Execute(s *objects.Section, expr string) ([]objects.Object, error) {
	q, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	var r []objects.Object
	for _, o := range s.All() {
		ok, err := q.Match(o.GetType(), AttributesFor(o))
		if err != nil {
			return nil, err
		}
		if ok {
			r = append(r, o)
		}
	}
	return r, nil
}
