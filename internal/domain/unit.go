package domain

import "time"

// TestUnit is one independently runnable test program
type TestUnit struct {
	Name    string        // File name, e.g. TC001_login.py
	Path    string        // Absolute path used to launch the unit
	Timeout time.Duration // Default wall-clock budget
}
