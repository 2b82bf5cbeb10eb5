package testutils

import (
	"github.com/onsi/gomega"
)

// Must unwraps a value/error pair, failing the running test on
// error.
func Must[T any](o T, err error) T {
	gomega.ExpectWithOffset(1, err).ToNot(gomega.HaveOccurred())
	return o
}

func MustBeSuccessful(err error) {
	gomega.ExpectWithOffset(1, err).ToNot(gomega.HaveOccurred())
}

func MustFailWithMessage(err error, msg string) {
	gomega.ExpectWithOffset(1, err).To(gomega.HaveOccurred())
	gomega.ExpectWithOffset(1, err.Error()).To(gomega.Equal(msg))
}

// ExpectError returns a value/error pair as assertable slice, e.g.
//
//	ExpectError(f()).To(MatchError("failed"))
func ExpectError[T any](o T, err error) gomega.Assertion {
	return gomega.ExpectWithOffset(1, err)
}
