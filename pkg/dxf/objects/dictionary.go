package objects

import (
	"fmt"
	"slices"

	"github.com/kkkkkom/ezdxf/pkg/dxf/handle"
	"github.com/kkkkkom/ezdxf/pkg/dxf/tags"
	"github.com/kkkkkom/ezdxf/pkg/utils"
)

// Duplicate record cloning flags (group 281).
const (
	CloningNotApplicable = int64(0)
	CloningKeepExisting  = int64(1)
	CloningUseClone      = int64(2)
	CloningXrefPrefix    = int64(3)
	CloningNamePrefix    = int64(4)
	CloningUnmangle      = int64(5)
)

// Entry is a single named dictionary slot. Hard entries own their
// target: deleting the entry or the dictionary deletes the target
// object, too.
type Entry struct {
	Key  string        `json:"key"`
	Ref  handle.Handle `json:"ref"`
	Hard bool          `json:"hard,omitempty"`
}

// Dictionary maps names to objects, preserving insertion order.
type Dictionary struct {
	ObjectMeta `json:",inline"`
	HardOwned  bool    `json:"hardOwned,omitempty"`
	Cloning    int64   `json:"cloning,omitempty"`
	Entries    []Entry `json:"entries,omitempty"`
}

var _ Object = (*Dictionary)(nil)

func NewDictionary() *Dictionary {
	return &Dictionary{
		ObjectMeta: NewObjectMeta(TypeDictionary),
		Cloning:    CloningKeepExisting,
	}
}

func (d *Dictionary) Len() int {
	return len(d.Entries)
}

func (d *Dictionary) Keys() []string {
	return utils.TransformSlice(d.Entries, func(e Entry) string { return e.Key })
}

func (d *Dictionary) Has(key string) bool {
	_, ok := d.Find(key)
	return ok
}

func (d *Dictionary) Find(key string) (handle.Handle, bool) {
	for _, e := range d.Entries {
		if e.Key == key {
			return e.Ref, true
		}
	}
	return handle.Null, false
}

// Add creates or replaces the entry for key.
func (d *Dictionary) Add(key string, ref handle.Handle, hard ...bool) {
	e := Entry{Key: key, Ref: ref, Hard: utils.Optional(hard...)}
	for i := range d.Entries {
		if d.Entries[i].Key == key {
			d.Entries[i] = e
			return
		}
	}
	d.Entries = append(d.Entries, e)
}

// Discard removes the entry for key, if present. The target
// object is left alone.
func (d *Dictionary) Discard(key string) (Entry, bool) {
	for i, e := range d.Entries {
		if e.Key == key {
			d.Entries = append(d.Entries[:i], d.Entries[i+1:]...)
			return e, true
		}
	}
	return Entry{}, false
}

// FindKey yields the key referencing the given handle.
func (d *Dictionary) FindKey(ref handle.Handle) (string, bool) {
	for _, e := range d.Entries {
		if e.Ref == ref {
			return e.Key, true
		}
	}
	return "", false
}

func (d *Dictionary) removeRefs(ref handle.Handle) bool {
	n := len(d.Entries)
	d.Entries = slices.DeleteFunc(d.Entries, func(e Entry) bool { return e.Ref == ref })
	return len(d.Entries) != n
}

func (d *Dictionary) contentTags() tags.Tags {
	r := tags.Tags{tags.New(tags.CodeSubclass, "AcDbDictionary")}
	if d.HardOwned {
		r = append(r, tags.NewBool(tags.CodeBool280, true))
	}
	r = append(r, tags.NewInt(tags.CodeCloning, d.Cloning))
	for _, e := range d.Entries {
		r = append(r, tags.New(tags.CodeEntryName, e.Key))
		if e.Hard {
			r = append(r, tags.NewHandle(tags.CodeHardPointer, e.Ref))
		} else {
			r = append(r, tags.NewHandle(tags.CodeSoftPointer, e.Ref))
		}
	}
	return r
}

func (d *Dictionary) applyContent(ts tags.Tags) error {
	key := ""
	haveKey := false
	for _, t := range ts {
		switch t.Code {
		case tags.CodeSubclass:
			// AcDbDictionary
		case tags.CodeBool280:
			v, err := t.Bool()
			if err != nil {
				return err
			}
			d.HardOwned = v
		case tags.CodeCloning:
			v, err := t.Int()
			if err != nil {
				return err
			}
			d.Cloning = v
		case tags.CodeEntryName:
			if haveKey {
				return fmt.Errorf("dictionary %s: entry %q without target", d.Handle, key)
			}
			key = t.Value
			haveKey = true
		case tags.CodeSoftPointer, tags.CodeHardPointer:
			if !haveKey {
				return fmt.Errorf("dictionary %s: entry target without name", d.Handle)
			}
			h, err := t.Handle()
			if err != nil {
				return err
			}
			d.Add(key, h, t.Code == tags.CodeHardPointer)
			haveKey = false
		}
	}
	if haveKey {
		return fmt.Errorf("dictionary %s: entry %q without target", d.Handle, key)
	}
	return nil
}

func (d *Dictionary) EncodeTags() (tags.Tags, error) {
	return append(d.headTags(), d.contentTags()...), nil
}

func (d *Dictionary) DecodeTags(ts tags.Tags) error {
	rest, err := d.applyHead(ts)
	if err != nil {
		return err
	}
	return d.applyContent(rest)
}

////////////////////////////////////////////////////////////////////////////////

// DictionaryWithDefault is a dictionary answering lookups of
// unknown keys with a configured default object.
type DictionaryWithDefault struct {
	Dictionary `json:",inline"`
	Default    handle.Handle `json:"default"`
}

var _ Object = (*DictionaryWithDefault)(nil)

func NewDictionaryWithDefault(def handle.Handle) *DictionaryWithDefault {
	d := &DictionaryWithDefault{Default: def}
	d.ObjectMeta = NewObjectMeta(TypeDictionaryWDFLT)
	d.Cloning = CloningKeepExisting
	return d
}

// Get resolves key, falling back to the default handle.
func (d *DictionaryWithDefault) Get(key string) handle.Handle {
	if h, ok := d.Find(key); ok {
		return h
	}
	return d.Default
}

func (d *DictionaryWithDefault) EncodeTags() (tags.Tags, error) {
	r := append(d.headTags(), d.contentTags()...)
	r = append(r,
		tags.New(tags.CodeSubclass, "AcDbDictionaryWithDefault"),
		tags.NewHandle(tags.CodeDefaultEntry, d.Default),
	)
	return r, nil
}

func (d *DictionaryWithDefault) DecodeTags(ts tags.Tags) error {
	rest, err := d.applyHead(ts)
	if err != nil {
		return err
	}
	var content tags.Tags
	for _, t := range rest {
		if t.Code == tags.CodeDefaultEntry {
			h, err := t.Handle()
			if err != nil {
				return err
			}
			d.Default = h
			continue
		}
		content = append(content, t)
	}
	return d.applyContent(content)
}
