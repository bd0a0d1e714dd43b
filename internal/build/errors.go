package build

import "errors"

// Sentinel errors identifying the stage a build failed in. They are wrapped
// by the classified errors Build returns.
var (
	ErrStaging = errors.New("skypages: staging error")
	ErrBundle  = errors.New("skypages: bundle error")
)
