package main

// Process exit codes.
const (
	ExitSuccess             = 0
	ExitInputError          = 1
	ExitAlert               = 2
	ExitFingerprintMismatch = 3
)
