//go:build ignore

package ignored

func Hidden() {}
