package objects

import (
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

// RawObject preserves objects of types this package does not
// model. The original tag image is kept so that files containing
// such objects round-trip unchanged.
type RawObject struct {
	ObjectMeta `json:",inline"`
	Content    tags.Tags `json:"content,omitempty"`
}

var _ Object = (*RawObject)(nil)

func NewRawObject(typ string) *RawObject {
	return &RawObject{ObjectMeta: NewObjectMeta(typ)}
}

func (r *RawObject) EncodeTags() (tags.Tags, error) {
	return append(r.headTags(), r.Content...), nil
}

func (r *RawObject) DecodeTags(ts tags.Tags) error {
	rest, err := r.applyHead(ts)
	if err != nil {
		return err
	}
	r.Content = rest
	return nil
}
