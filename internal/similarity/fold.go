package similarity

import (
	"sync"

	"golang.org/x/text/cases"
)

// foldPool holds case folders; a cases.Caser must not be shared between goroutines.
var foldPool = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

// Fold applies Unicode case folding, so "ÉSME" and "ésme" compare equal.
func Fold(s string) string {
	if s == "" {
		return s
	}
	c := foldPool.Get().(*cases.Caser)
	folded := c.String(s)
	foldPool.Put(c)
	return folded
}
