//go:build lifecycle_debug

package lifecycle

const debugging = true

func assert(cond bool, message string) {
	if !cond {
		panic(message)
	}
}
