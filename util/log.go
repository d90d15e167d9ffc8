// Blackjack
// Copyright (C) the blackjack contributors
//
// Licensed under the MIT license. See the LICENSE file in the repository
// root for the full license text.

package util

// LogWriter is a simple interface that wraps our logf interface.
// TODO: Logf should end in (n int, err error) like fmt.Printf does!
type LogWriter struct {
	Prefix string
	Logf   func(format string, v ...interface{})
}

// Write satisfies the io.Writer interface.
func (obj *LogWriter) Write(p []byte) (n int, err error) {
	// TODO: logf should pass through (n int, err error)
	obj.Logf(obj.Prefix + string(p))
	return len(p), nil // TODO: hack for now
}
