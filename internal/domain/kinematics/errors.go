package kinematics

import "errors"

// ErrDomain reports a kinematic quantity that is undefined for its input.
var ErrDomain = errors.New("kinematics: domain error")
