package objects

import (
	"fmt"

	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
)

// XRecord stores arbitrary application data as a free form tag
// list. Group codes 1-369 are allowed, except the codes reserved
// for handles and owners.
type XRecord struct {
	ObjectMeta `json:",inline"`
	Cloning    int64     `json:"cloning,omitempty"`
	Content    tags.Tags `json:"content,omitempty"`
}

var _ Object = (*XRecord)(nil)

func NewXRecord() *XRecord {
	return &XRecord{
		ObjectMeta: NewObjectMeta(TypeXRecord),
		Cloning:    CloningKeepExisting,
	}
}

func (x *XRecord) Append(ts ...tags.Tag) error {
	for _, t := range ts {
		if t.Code < 1 || t.Code > 369 || t.Code == tags.CodeHandle || t.Code == 105 {
			return fmt.Errorf("group code %d not allowed in XRECORD content", t.Code)
		}
	}
	x.Content = append(x.Content, ts...)
	return nil
}

func (x *XRecord) Reset(ts tags.Tags) error {
	x.Content = nil
	return x.Append(ts...)
}

func (x *XRecord) EncodeTags() (tags.Tags, error) {
	r := append(x.headTags(),
		tags.New(tags.CodeSubclass, "AcDbXrecord"),
		tags.NewInt(tags.CodeBool280, x.Cloning),
	)
	return append(r, x.Content...), nil
}

func (x *XRecord) DecodeTags(ts tags.Tags) error {
	rest, err := x.applyHead(ts)
	if err != nil {
		return err
	}
	content := false
	for _, t := range rest {
		switch {
		case !content && t.Code == tags.CodeSubclass:
		case !content && t.Code == tags.CodeBool280:
			v, err := t.Int()
			if err != nil {
				return err
			}
			x.Cloning = v
			content = true
		default:
			content = true
			x.Content = append(x.Content, t)
		}
	}
	return nil
}
