// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecies

import "go.uber.org/zap"

// log is the package logger.  It discards everything until UseLogger is
// called.
var log = zap.NewNop()

// UseLogger sets the logger used by the package.
func UseLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log = logger.Named("ecies")
}
