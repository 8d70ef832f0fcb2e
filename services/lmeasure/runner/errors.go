package runner

import "fmt"

type errNonASCII int

func (e errNonASCII) Error() string {
	return fmt.Sprintf("non-ASCII byte at offset %d", int(e))
}
