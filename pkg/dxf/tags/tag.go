package tags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
)

// Tag is a single DXF group: a group code and its value in wire
// form. The value keeps the textual representation so that files
// round-trip without loss; typed access parses on demand.
type Tag struct {
	Code  int    `json:"code"`
	Value string `json:"value"`
}

func New(code int, value string) Tag {
	return Tag{Code: code, Value: value}
}

func NewInt(code int, v int64) Tag {
	return Tag{Code: code, Value: strconv.FormatInt(v, 10)}
}

func NewFloat(code int, v float64) Tag {
	return Tag{Code: code, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

func NewHandle(code int, h handle.Handle) Tag {
	return Tag{Code: code, Value: h.String()}
}

func NewBool(code int, v bool) Tag {
	if v {
		return NewInt(code, 1)
	}
	return NewInt(code, 0)
}

func (t Tag) String() string {
	return fmt.Sprintf("(%d, %q)", t.Code, t.Value)
}

func (t Tag) Int() (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(t.Value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid integer %q", t.Code, t.Value)
	}
	return v, nil
}

func (t Tag) Float() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	if err != nil {
		return 0, fmt.Errorf("group %d: invalid float %q", t.Code, t.Value)
	}
	return v, nil
}

func (t Tag) Handle() (handle.Handle, error) {
	return handle.Parse(t.Value)
}

func (t Tag) Bool() (bool, error) {
	v, err := t.Int()
	return v != 0, err
}

// Tags is a sequence of groups as found in a file.
type Tags []Tag

func (ts Tags) Find(code int) (Tag, bool) {
	for _, t := range ts {
		if t.Code == code {
			return t, true
		}
	}
	return Tag{}, false
}

func (ts Tags) Get(code int, def string) string {
	if t, ok := ts.Find(code); ok {
		return t.Value
	}
	return def
}

func (ts Tags) Has(code int) bool {
	_, ok := ts.Find(code)
	return ok
}

func (ts Tags) Filter(codes ...int) Tags {
	var r Tags
	for _, t := range ts {
		for _, c := range codes {
			if t.Code == c {
				r = append(r, t)
				break
			}
		}
	}
	return r
}

// Structures splits a tag stream into structure tag lists, each
// starting with a group 0 tag. Leading tags before the first
// structure tag are dropped.
func (ts Tags) Structures() []Tags {
	var r []Tags
	var cur Tags

	for _, t := range ts {
		if t.Code == CodeStructure {
			if cur != nil {
				r = append(r, cur)
			}
			cur = Tags{t}
			continue
		}
		if cur != nil {
			cur = append(cur, t)
		}
	}
	if cur != nil {
		r = append(r, cur)
	}
	return r
}
