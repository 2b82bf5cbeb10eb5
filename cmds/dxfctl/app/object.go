package app

// Object is the generic wire representation of a drawing object.
type Object map[string]interface{}

func (o Object) str(key string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return ""
}

func (o Object) GetType() string {
	return o.str("type")
}

func (o Object) GetHandle() string {
	return o.str("handle")
}

func (o Object) GetOwner() string {
	return o.str("owner")
}
