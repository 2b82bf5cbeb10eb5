package utils

type Filter[E any] func(e E) bool

func FilterSlice[E any, A ~[]E](in A, f Filter[E]) A {
	var r A
	for _, e := range in {
		if f(e) {
			r = append(r, e)
		}
	}
	return r
}

func NotFilter[E any](f Filter[E]) Filter[E] {
	return func(e E) bool {
		return !f(e)
	}
}

func EqualsFilter[E comparable](c E) Filter[E] {
	return func(e E) bool {
		return e == c
	}
}
