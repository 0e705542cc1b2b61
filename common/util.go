package common

import "os"

func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Remove deletes a file ignoring errors. It is meant for test cleanup.
func Remove(path string) {
	_ = os.Remove(path)
}

// CeilDiv returns ceil(a/b) for positive a and b.
func CeilDiv(a, b int) int {
	return (a + b - 1) / b
}
