//go:build go1.23

//go:debug x509negativeserial=1

package main
