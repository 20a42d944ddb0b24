// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pkg/profile"
)

// profileModes maps the values of the --profile flag to the profiling
// modes.
var profileModes = map[string]func(*profile.Profile){
	"block":     profile.BlockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

type stopper interface{ Stop() }

type noProfile struct{}

func (noProfile) Stop() {}

// startProfile starts profiling with the given mode, writing the profile in
// the current directory. If mode is empty, it does nothing.
func startProfile(mode string) stopper {
	m, ok := profileModes[mode]
	if !ok {
		return noProfile{}
	}
	return profile.Start(m, profile.ProfilePath("."), profile.Quiet, profile.NoShutdownHook)
}
