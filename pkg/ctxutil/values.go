package ctxutil

// Key is a context value key with a descriptive name.
type Key interface {
	String() string
}

type SimpleKey string

func (k SimpleKey) String() string {
	return string(k)
}
