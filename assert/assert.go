package assert

import "github.com/oomph-ac/coastersim/oerror"

// IsTrue panics with a formatted error when ok is false. It guards programming errors only: input that
// can be wrong is reported with errors.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}
